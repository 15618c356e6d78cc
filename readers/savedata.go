package readers

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"chrdig/types"
)

type Options struct {
	// Platform to decode with. Ignored when Detect is set, except as the starting point.
	Platform types.Platform
	// Switch to mobile when the file turns out to be a mobile save.
	Detect bool
	// Optional; nil means quiet.
	Logger *slog.Logger
}

// Default_options decode desktop saves and detect mobile ones.
func Default_options() Options {
	return Options{Platform: types.PF_DESKTOP, Detect: true}
}

// Read_savedata decodes a whole save from memory.
//
// Structural problems and unknown variables abort the load; version problems are
// reported as *types.IncompatibleError before any block is decoded.
// buf is kept (not copied) and must not be changed afterwards.
func Read_savedata(buf []byte, opts Options) (*types.Savedata, error) {
	if len(buf) < types.MIN_FILE_SIZE {
		return nil, &types.StructuralError{Msg: fmt.Sprintf("file is too small (%v bytes) to be a savegame", len(buf))}
	}

	blocks, order, err := Scan_blocks(buf)
	if err != nil {
		return nil, err
	}

	rr := new_record_reader(buf, blocks, opts)
	hb, header, err := read_header(buf, header_limit(buf, order), rr)
	if err != nil {
		return nil, err
	}
	if err := Check_compatible(header); err != nil {
		return nil, err
	}

	for _, start := range order {
		b := blocks[start]
		from, to := content_range(b)
		if err := rr.read_records(b, start, from, to); err != nil {
			return nil, err
		}
	}

	// The registry may have changed while reading, so use the final one.
	for _, start := range order {
		assign_positional(blocks[start], buf, rr.reg)
	}
	assign_positional(hb, buf, rr.reg)

	blocks[types.HEADER_OFFSET] = hb
	sd := &types.Savedata{
		Buf:      buf,
		Platform: rr.platform(),
		Header:   header,
		Blocks:   blocks,
		Order:    order,
	}
	sd.Build_index()

	return sd, nil
}

// Load_file reads filename completely and decodes it.
func Load_file(filename string, opts Options) (*types.Savedata, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "load %v", filename)
	}
	sd, err := Read_savedata(bs, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "load %v", filename)
	}
	return sd, nil
}
