package writers

import (
	"chrdig/types"
)

// Builder writes a save from scratch, record by record.
// Errors are sticky: the first one is returned by Bytes.
type Builder struct {
	buf   []byte
	depth int
	err   error
}

func (b *Builder) record(v *types.Variable) *Builder {
	if b.err != nil {
		return b
	}
	rec, err := Encode_record(v)
	if err != nil {
		b.err = err
		return b
	}
	b.buf = append(b.buf, rec...)
	return b
}

func (b *Builder) Int(name string, i int32) *Builder {
	return b.record(&types.Variable{Name: name, Type: types.VT_INT, Int: i})
}

func (b *Builder) Float(name string, f float32) *Builder {
	return b.record(&types.Variable{Name: name, Type: types.VT_FLOAT, Float: f})
}

func (b *Builder) String(name string, s string) *Builder {
	return b.record(&types.Variable{Name: name, Type: types.VT_STRING, Str: s})
}

// Wide writes a wide string in the platform's width.
func (b *Builder) Wide(name string, s string, p types.Platform) *Builder {
	return b.record(&types.Variable{Name: name, Type: p.Wide_type(), Str: s})
}

func (b *Builder) Uid(name string, id [16]byte) *Builder {
	return b.record(&types.Variable{Name: name, Type: types.VT_UID, Uid: id})
}

func (b *Builder) Stream(name string, data []byte) *Builder {
	return b.record(&types.Variable{Name: name, Type: types.VT_STREAM, Stream: data})
}

// Begin opens a block.
func (b *Builder) Begin() *Builder {
	b.buf = append(b.buf, types.BEGIN_MARKER...)
	b.depth++
	return b
}

// End closes the innermost block, trailer included.
func (b *Builder) End() *Builder {
	b.buf = append(b.buf, types.END_MARKER...)
	b.buf = Write_uint32_le(b.buf, types.END_TRAILER_VALUE)
	b.depth--
	return b
}

// Raw appends bytes as they are.
func (b *Builder) Raw(data []byte) *Builder {
	b.buf = append(b.buf, data...)
	return b
}

func (b *Builder) Len() int {
	return len(b.buf)
}

func (b *Builder) Depth() int {
	return b.depth
}

func (b *Builder) Bytes() ([]byte, error) {
	return b.buf, b.err
}
