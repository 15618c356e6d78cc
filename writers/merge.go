package writers

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"os"
	"sort"
	"sync/atomic"

	"github.com/pkg/errors"

	"chrdig/types"
)

// Patch replaces Previous_length original bytes at Offset with Data.
type Patch struct {
	Offset          int
	Data            []byte
	Previous_length int
}

type Options struct {
	// Recompute the header checksum, if the save has one.
	Checksum        bool
	Checksum_offset int
	Has_checksum    bool
}

// Merge interleaves the original buffer with the patches.
//
// For every patch, in offset order: copy the original bytes up to the patch, emit the
// patch data, then skip Previous_length original bytes. The output length is therefore
// len(buf) - sum(Previous_length) + sum(len(Data)). buf is not modified.
func Merge(buf []byte, patches []Patch, opts Options) ([]byte, error) {
	sorted := append([]Patch{}, patches...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	size := len(buf)
	for _, p := range sorted {
		size += len(p.Data) - p.Previous_length
	}
	out := make([]byte, 0, max(size, 0))

	// Where the checksum value ends up in the output, if it survives.
	ck_out := -1
	copy_gap := func(from, to int) {
		if opts.Has_checksum && opts.Checksum_offset >= from && opts.Checksum_offset+4 <= to {
			ck_out = len(out) + opts.Checksum_offset - from
		}
		out = append(out, buf[from:to]...)
	}

	cursor := 0
	for _, p := range sorted {
		if p.Offset < cursor {
			return nil, fmt.Errorf("patch at 0x%x overlaps the previous one (which ends at 0x%x)", p.Offset, cursor)
		}
		if p.Previous_length < 0 || p.Offset+p.Previous_length > len(buf) {
			return nil, fmt.Errorf("patch at 0x%x replaces %v bytes, past the end of the file (%v bytes)", p.Offset, p.Previous_length, len(buf))
		}
		copy_gap(cursor, p.Offset)
		if opts.Has_checksum && p.Offset == opts.Checksum_offset && p.Previous_length == 4 && len(p.Data) >= 4 {
			ck_out = len(out)
		}
		out = append(out, p.Data...)
		cursor = p.Offset + p.Previous_length
	}
	copy_gap(cursor, len(buf))

	if opts.Checksum && ck_out >= 0 {
		Fix_checksum(out, ck_out)
	}

	return out, nil
}

// Fix_checksum stores the CRC-32 of out, computed with the checksum field zeroed,
// into the 4 bytes at offset.
func Fix_checksum(out []byte, offset int) uint32 {
	binary.LittleEndian.PutUint32(out[offset:], 0)
	sum := crc32.ChecksumIEEE(out)
	binary.LittleEndian.PutUint32(out[offset:], sum)
	return sum
}

// Checksum_ok reports whether the checksum stored at offset matches the data.
func Checksum_ok(data []byte, offset int) bool {
	if offset < 0 || offset+4 > len(data) {
		return false
	}
	stored := binary.LittleEndian.Uint32(data[offset:])
	tmp := append([]byte{}, data...)
	return Fix_checksum(tmp, offset) == stored
}

// Write_file writes the whole file in one go.
func Write_file(filename string, data []byte) error {
	err := os.WriteFile(filename, data, 0644)
	if err != nil {
		return errors.Wrapf(err, "write %v", filename)
	}
	return nil
}

// Saver refuses to start a write while another one is running, or while Gate
// (typically the game process writing the same directory) says a save is in progress.
type Saver struct {
	Gate func() bool
	busy atomic.Bool
}

func (s *Saver) Save(filename string, data []byte) error {
	if s.Gate != nil && s.Gate() {
		return errors.Wrapf(types.ErrSaveInProgress, "not writing %v", filename)
	}
	if !s.busy.CompareAndSwap(false, true) {
		return errors.Wrapf(types.ErrSaveInProgress, "not writing %v", filename)
	}
	defer s.busy.Store(false)

	return Write_file(filename, data)
}

func (s *Saver) Busy() bool {
	return s.busy.Load()
}
