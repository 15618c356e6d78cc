package patches

import (
	"github.com/pkg/errors"

	"chrdig/readers"
	"chrdig/types"
	"chrdig/writers"
)

// resolve finds the single record called name.
func (t *Table) resolve(name string) (*types.Variable, error) {
	return t.sd.Unique(name)
}

func (t *Table) resolve_at(block int, name string, n int) (*types.Variable, error) {
	return t.sd.Find(block, name, n)
}

// Current returns v as it would be written now: a copy carrying the pending value,
// if there is one. A record inside a removed range gives an ErrRemoved error.
func (t *Table) Current(v *types.Variable) (*types.Variable, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current(v)
}

func (t *Table) current(v *types.Variable) (*types.Variable, error) {
	if o, ok := t.is_removed(v); ok {
		return nil, errors.Wrapf(types.ErrRemoved, "%q at 0x%x is removed by the edit at 0x%x", v.Name, v.Key_offset, o)
	}
	e, ok := t.entries[v.Val_offset]
	if !ok || len(e.Data) == 0 {
		return v, nil
	}
	nv, err := readers.Decode_value(v.Name, e.Type, e.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "pending value of %q", v.Name)
	}
	nv.Alias = v.Alias
	nv.Key_offset = v.Key_offset
	nv.Val_offset = v.Val_offset
	nv.Block_offset = v.Block_offset
	nv.Owner = v.Owner
	return nv, nil
}

func (t *Table) get(v *types.Variable, err error, want types.VariableType) (*types.Variable, error) {
	if err != nil {
		return nil, err
	}
	cur, err := t.Current(v)
	if err != nil {
		return nil, err
	}
	ok := cur.Type == want || (want.Is_wide() && cur.Type.Is_wide())
	if !ok {
		return nil, &types.WrongTypeError{Name: v.Display_name(), Block: v.Block_offset, Expected: want, Actual: cur.Type}
	}
	return cur, nil
}

func (t *Table) Get_int(name string) (int32, error) {
	v, err := t.resolve(name)
	cur, err := t.get(v, err, types.VT_INT)
	if err != nil {
		return 0, err
	}
	return cur.Int, nil
}

func (t *Table) Get_int_at(block int, name string, n int) (int32, error) {
	v, err := t.resolve_at(block, name, n)
	cur, err := t.get(v, err, types.VT_INT)
	if err != nil {
		return 0, err
	}
	return cur.Int, nil
}

func (t *Table) Get_float(name string) (float32, error) {
	v, err := t.resolve(name)
	cur, err := t.get(v, err, types.VT_FLOAT)
	if err != nil {
		return 0, err
	}
	return cur.Float, nil
}

func (t *Table) Get_float_at(block int, name string, n int) (float32, error) {
	v, err := t.resolve_at(block, name, n)
	cur, err := t.get(v, err, types.VT_FLOAT)
	if err != nil {
		return 0, err
	}
	return cur.Float, nil
}

// Get_string reads an 8-bit or wide string.
func (t *Table) Get_string(name string) (string, error) {
	v, err := t.resolve(name)
	return t.get_string(v, err)
}

func (t *Table) Get_string_at(block int, name string, n int) (string, error) {
	v, err := t.resolve_at(block, name, n)
	return t.get_string(v, err)
}

func (t *Table) get_string(v *types.Variable, err error) (string, error) {
	if err != nil {
		return "", err
	}
	want := types.VT_STRING
	if v.Type.Is_wide() {
		want = v.Type
	}
	cur, err := t.get(v, nil, want)
	if err != nil {
		return "", err
	}
	return cur.Str, nil
}

func (t *Table) Get_uid(name string) ([16]byte, error) {
	v, err := t.resolve(name)
	cur, err := t.get(v, err, types.VT_UID)
	if err != nil {
		return [16]byte{}, err
	}
	return cur.Uid, nil
}

func (t *Table) Get_uid_at(block int, name string, n int) ([16]byte, error) {
	v, err := t.resolve_at(block, name, n)
	cur, err := t.get(v, err, types.VT_UID)
	if err != nil {
		return [16]byte{}, err
	}
	return cur.Uid, nil
}

func (t *Table) Get_stream(name string) ([]byte, error) {
	v, err := t.resolve(name)
	cur, err := t.get(v, err, types.VT_STREAM)
	if err != nil {
		return nil, err
	}
	return cur.Stream, nil
}

// Set_value replaces the value of v with the value held by nv.
//
// nv.Type must match v.Type, except that any wide string may replace any wide string:
// wide values are always encoded at the table's current platform width. The patch
// goes at v's value offset and consumes the original encoded value, count included.
func (t *Table) Set_value(v *types.Variable, nv *types.Variable) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.set_value(v, nv)
}

func (t *Table) set_value(v *types.Variable, nv *types.Variable) error {
	want := nv.Type
	if want.Is_wide() {
		if !v.Type.Is_wide() {
			return &types.WrongTypeError{Name: v.Display_name(), Block: v.Block_offset, Expected: want, Actual: v.Type}
		}
		nv = &types.Variable{Name: v.Name, Type: t.platform.Wide_type(), Str: nv.Str}
	} else if want != v.Type {
		return &types.WrongTypeError{Name: v.Display_name(), Block: v.Block_offset, Expected: want, Actual: v.Type}
	}

	data, err := writers.Encode_value(nv)
	if err != nil {
		return err
	}
	prev := v.Encoded_len()
	if err := t.check_free(v.Val_offset, prev); err != nil {
		return err
	}
	e := &Entry{Data: data, Previous_length: prev, Type: nv.Type}
	if old, ok := t.entries[v.Val_offset]; ok {
		e.Inserts = old.Inserts
	}
	t.entries[v.Val_offset] = e
	return nil
}

func (t *Table) set(v *types.Variable, err error, nv *types.Variable) error {
	if err != nil {
		return err
	}
	return t.Set_value(v, nv)
}

func (t *Table) Set_int(name string, i int32) error {
	v, err := t.resolve(name)
	return t.set(v, err, &types.Variable{Name: name, Type: types.VT_INT, Int: i})
}

func (t *Table) Set_int_at(block int, name string, n int, i int32) error {
	v, err := t.resolve_at(block, name, n)
	return t.set(v, err, &types.Variable{Name: name, Type: types.VT_INT, Int: i})
}

func (t *Table) Set_float(name string, f float32) error {
	v, err := t.resolve(name)
	return t.set(v, err, &types.Variable{Name: name, Type: types.VT_FLOAT, Float: f})
}

func (t *Table) Set_float_at(block int, name string, n int, f float32) error {
	v, err := t.resolve_at(block, name, n)
	return t.set(v, err, &types.Variable{Name: name, Type: types.VT_FLOAT, Float: f})
}

func string_value(name string, s string, wide bool, p types.Platform) *types.Variable {
	vt := types.VT_STRING
	if wide {
		vt = p.Wide_type()
	}
	return &types.Variable{Name: name, Type: vt, Str: s}
}

// Set_string sets an 8-bit string, or a wide one if wide is set.
func (t *Table) Set_string(name string, s string, wide bool) error {
	v, err := t.resolve(name)
	return t.set(v, err, string_value(name, s, wide, t.Platform()))
}

func (t *Table) Set_string_at(block int, name string, n int, s string, wide bool) error {
	v, err := t.resolve_at(block, name, n)
	return t.set(v, err, string_value(name, s, wide, t.Platform()))
}

func (t *Table) Set_uid(name string, id [16]byte) error {
	v, err := t.resolve(name)
	return t.set(v, err, &types.Variable{Name: name, Type: types.VT_UID, Uid: id})
}

func (t *Table) Set_uid_at(block int, name string, n int, id [16]byte) error {
	v, err := t.resolve_at(block, name, n)
	return t.set(v, err, &types.Variable{Name: name, Type: types.VT_UID, Uid: id})
}

func (t *Table) Set_stream(name string, data []byte) error {
	v, err := t.resolve(name)
	return t.set(v, err, &types.Variable{Name: name, Type: types.VT_STREAM, Stream: data})
}
