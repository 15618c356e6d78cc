package patches

// Pending edits can be kept between runs of the editor: the table is gob-encoded and
// zstd-compressed, together with the name and CRC of the file it applies to.

import (
	"encoding/gob"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"chrdig/types"
)

var ErrStale = errors.New("stashed edits are for a different version of the file")

type Stash struct {
	Filename string
	Crc      uint32
	Platform types.Platform
	Entries  map[int]*Entry
}

// Save_stash writes the pending edits for filename to w.
func (t *Table) Save_stash(w io.Writer, filename string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Stash{
		Filename: filename,
		Crc:      crc32.ChecksumIEEE(t.sd.Buf),
		Platform: t.platform,
		Entries:  t.entries,
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return errors.Wrap(err, "stash")
	}
	err = gob.NewEncoder(zw).Encode(&s)
	if err != nil {
		zw.Close()
		return errors.Wrap(err, "stash")
	}
	return errors.Wrap(zw.Close(), "stash")
}

func Read_stash(r io.Reader) (*Stash, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "retrieve stash")
	}
	defer zr.Close()

	s := Stash{}
	err = gob.NewDecoder(zr).Decode(&s)
	if err != nil {
		return nil, errors.Wrap(err, "retrieve stash")
	}
	if s.Entries == nil {
		s.Entries = map[int]*Entry{}
	}
	return &s, nil
}

// Restore puts the stashed edits on top of sd, which must hold the same bytes the
// stash was made from.
func (s *Stash) Restore(sd *types.Savedata) (*Table, error) {
	if crc32.ChecksumIEEE(sd.Buf) != s.Crc {
		return nil, errors.Wrapf(ErrStale, "%v", s.Filename)
	}
	t := New(sd)
	t.platform = s.Platform
	t.entries = s.Entries
	return t, nil
}
