package readers

import (
	"bytes"
	"slices"

	"chrdig/types"
)

// Read_header decodes only the header: the records before the first block.
func Read_header(buf []byte, opts Options) (*types.Block, types.Header, error) {
	return read_header(buf, header_limit(buf, nil), new_record_reader(buf, nil, opts))
}

// read_header decodes the header pseudo-block. It has no markers; it runs from the
// start of the file up to limit.
func read_header(buf []byte, limit int, rr *record_reader) (*types.Block, types.Header, error) {
	hb := &types.Block{Start: 0, End: limit - 1}
	h := types.Header{Checksum_offset: -1}

	err := rr.read_records(hb, types.HEADER_OFFSET, 0, limit)
	if err != nil {
		return nil, h, err
	}

	get_int := func(name string) (int, bool) {
		v := hb.Get(name)
		if v == nil || v.Type != types.VT_INT {
			return 0, false
		}
		return int(v.Int), true
	}

	version, ok := get_int("headerVersion")
	if !ok {
		return nil, h, &types.StructuralError{Msg: "header has no headerVersion", Offsets: []int{0}}
	}
	h.Version = version
	h.Player_version, _ = get_int("playerVersion")
	h.Level, _ = get_int("playerLevel")
	if v := hb.Get("playerCharacterClass"); v != nil {
		h.Class = v.Str
	}
	if v := hb.Get("playerClassTag"); v != nil {
		h.Class_tag = v.Str
	}
	if v := hb.Get("uniqueId"); v != nil {
		h.Uid = v.Uid
	}
	if v := hb.Get("streamData"); v != nil {
		h.Stream = v.Stream
	}
	if v := hb.Get("checksum"); v != nil && v.Type == types.VT_INT {
		h.Has_checksum = true
		h.Checksum = uint32(v.Int)
		h.Checksum_offset = v.Val_offset
	}

	return hb, h, nil
}

// Check_compatible fails with *types.IncompatibleError for versions we can't edit.
func Check_compatible(h types.Header) error {
	if !slices.Contains(types.Header_versions, h.Version) {
		return &types.IncompatibleError{Field: "headerVersion", Value: h.Version, Supported: types.Header_versions}
	}
	if !slices.Contains(types.Player_versions, h.Player_version) {
		return &types.IncompatibleError{Field: "playerVersion", Value: h.Player_version, Supported: types.Player_versions}
	}
	return nil
}

// header_limit is where the first block begins, or the end of the file.
func header_limit(buf []byte, order []int) int {
	if len(order) > 0 {
		return order[0]
	}
	if i := bytes.Index(buf, types.BEGIN_MARKER); i >= 0 {
		return i
	}
	return len(buf)
}
