package readers

import (
	"fmt"
	"log/slog"

	"chrdig/tables"
	"chrdig/types"
	"chrdig/utils"
)

// record_reader decodes the records of one file. It starts on one platform's
// registry and may switch to mobile once, when a desktop lookup fails but a mobile
// one works, or when a wide string only makes sense at mobile width.
type record_reader struct {
	buf    []byte
	blocks map[int]*types.Block
	reg    *tables.Registry
	detect bool
	log    *slog.Logger
}

func new_record_reader(buf []byte, blocks map[int]*types.Block, opts Options) *record_reader {
	return &record_reader{
		buf:    buf,
		blocks: blocks,
		reg:    tables.For(opts.Platform),
		detect: opts.Detect && opts.Platform == types.PF_DESKTOP,
		log:    opts.Logger,
	}
}

func (rr *record_reader) platform() types.Platform {
	return rr.reg.Platform()
}

func (rr *record_reader) switch_to_mobile(why string, offset int) {
	rr.reg = tables.Mobile()
	rr.detect = false
	if rr.log != nil {
		rr.log.Info("switching to mobile format", "reason", why, "offset", offset)
	}
}

func (rr *record_reader) lookup(name string, offset int) (tables.Entry, error) {
	e, err := rr.reg.Lookup(name)
	if err == nil {
		return e, nil
	}
	if rr.detect && rr.platform() == types.PF_DESKTOP {
		if me, merr := tables.Mobile().Lookup(name); merr == nil {
			rr.switch_to_mobile("mobile-only variable "+name, offset)
			return me, nil
		}
	}
	return e, &types.InvalidVariableError{Name: name, Platform: rr.platform(), Offset: offset}
}

// read_records decodes the records in [from, to), skipping over child blocks,
// and adds them to into.
func (rr *record_reader) read_records(into *types.Block, key int, from int, to int) error {
	cur := from
	for cur < to {
		at := cur
		name, err := Read_name(rr.buf, &cur, to)
		if err != nil {
			return err
		}

		if name == types.BEGIN_NAME {
			// Children are decoded on their own; jump over this one.
			child := rr.blocks[at]
			if child == nil {
				return &types.StructuralError{Msg: "begin marker that is not a block", Offsets: []int{at}}
			}
			cur = child.End + 1
			continue
		}
		if name == types.END_NAME {
			return &types.StructuralError{Msg: "stray end marker", Offsets: []int{at}}
		}

		entry, err := rr.lookup(name, at)
		if err != nil {
			return err
		}
		v := &types.Variable{
			Name:         name,
			Key_offset:   at,
			Val_offset:   cur,
			Block_offset: key,
			Type:         entry.Type,
			Owner:        entry.Block_type,
		}
		if err := rr.read_value(v, &cur, to); err != nil {
			return err
		}
		into.Add(v)
	}
	if cur != to {
		return &types.StructuralError{Msg: fmt.Sprintf("record runs %v bytes past the end of its block", cur-to), Offsets: []int{to}}
	}
	return nil
}

func (rr *record_reader) read_value(v *types.Variable, cur *int, limit int) error {
	bs := rr.buf
	var err error
	switch v.Type {
	case types.VT_INT:
		v.Int, err = Read_int_le(bs, cur, limit)
		v.Set_val_size(1)

	case types.VT_FLOAT:
		v.Float, err = Read_float(bs, cur, limit)
		v.Set_val_size(1)

	case types.VT_UID:
		var raw []byte
		raw, err = Read_fixed(bs, cur, limit, 16, "uid")
		if err == nil {
			v.Uid = [16]byte(raw)
		}
		v.Set_val_size(1)

	case types.VT_STRING, types.VT_STREAM:
		var n int
		n, err = Read_count(bs, cur, limit, 1, v.Name)
		if err != nil {
			return err
		}
		raw, _ := Read_fixed(bs, cur, limit, n, v.Name)
		if v.Type == types.VT_STRING {
			v.Str = string(raw)
		} else {
			v.Stream = append([]byte{}, raw...)
		}
		v.Set_val_size(n)

	case types.VT_WSTRING16, types.VT_WSTRING32:
		return rr.read_wide(v, cur, limit)

	default:
		return fmt.Errorf("no decoder for %q (%v)", v.Name, v.Type)
	}
	return err
}

// read_wide decodes a wide string. While the platform is still undecided, a desktop
// string that is followed by garbage, but would be followed by a proper record at
// mobile width, means this is really a mobile save.
func (rr *record_reader) read_wide(v *types.Variable, cur *int, limit int) error {
	start := *cur
	width := v.Type.Width()

	if rr.detect && v.Type == types.VT_WSTRING16 {
		n, err := Read_count(rr.buf, cur, limit, 2, v.Name)
		if err != nil {
			return err
		}
		if !plausible_next(rr.buf, *cur+2*n, limit) && int64(n)*4 <= int64(limit-*cur) && plausible_next(rr.buf, *cur+4*n, limit) {
			rr.switch_to_mobile("wide string width of "+v.Name, start)
			v.Type = types.VT_WSTRING32
			width = 4
		}
		*cur = start
	}

	n, err := Read_count(rr.buf, cur, limit, width, v.Name)
	if err != nil {
		return err
	}
	raw, _ := Read_fixed(rr.buf, cur, limit, n*width, v.Name)
	v.Str, err = utils.Decode_wide(raw, width)
	if err != nil {
		return &types.StructuralError{Msg: fmt.Sprintf("bad wide string %q: %v", v.Name, err), Offsets: []int{start}}
	}
	v.Set_val_size(n)
	return nil
}

// plausible_next reports whether a record, a marker, or the end of the block is at cur.
func plausible_next(bs []byte, cur int, limit int) bool {
	return cur == limit || plausible_name(bs, cur, limit)
}

// assign_positional gives aliases (and, for names with several types, the final
// type) to runs of same-named records, based on how many there are in the block.
func assign_positional(b *types.Block, buf []byte, reg *tables.Registry) {
	for name, vs := range b.Variables {
		entry, err := reg.Lookup(name)
		if err != nil {
			continue
		}
		rule, ok := tables.Positional(name, len(vs))
		if !ok {
			continue
		}
		for i, v := range vs {
			v.Alias = rule.Aliases[i]
			if b.Aliases == nil {
				b.Aliases = map[string]*types.Variable{}
			}
			b.Aliases[v.Alias] = v
			if entry.Is_multiple() && v.Type != rule.Type {
				v.Type = rule.Type
				redecode_fixed(v, buf)
			}
		}
	}
}

// redecode_fixed re-reads a 4-byte value after its type changed.
func redecode_fixed(v *types.Variable, buf []byte) {
	cur := v.Val_offset
	switch v.Type {
	case types.VT_INT:
		v.Int, _ = Read_int_le(buf, &cur, len(buf))
		v.Float = 0
	case types.VT_FLOAT:
		v.Float, _ = Read_float(buf, &cur, len(buf))
		v.Int = 0
	}
}

// Decode_value decodes a lone value of type vt from the start of bs, as found in a
// patch. Wide strings are taken at the width vt says.
func Decode_value(name string, vt types.VariableType, bs []byte) (*types.Variable, error) {
	rr := &record_reader{buf: bs}
	v := &types.Variable{Name: name, Type: vt}
	cur := 0
	if err := rr.read_value(v, &cur, len(bs)); err != nil {
		return nil, err
	}
	if cur != len(bs) {
		return nil, &types.StructuralError{Msg: fmt.Sprintf("%v bytes left over after %q", len(bs)-cur, name), Offsets: []int{cur}}
	}
	return v, nil
}
