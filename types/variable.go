package types

import (
	"fmt"
	"strconv"

	"chrdig/utils"
)

// Variable is one typed record found inside a block.
//
// Key_offset is where the name length begins. Val_offset is where the value
// begins, which for length-prefixed types is the element count.
// Exactly one of the value fields is meaningful, chosen by Type.
type Variable struct {
	Name         string
	Alias        string
	Key_offset   int
	Val_offset   int
	Block_offset int
	Type         VariableType
	Owner        BlockType

	Int    int32
	Float  float32
	Str    string
	Uid    [16]byte
	Stream []byte

	val_size int
	size_set bool
}

// Val_size is the element count: characters for strings, bytes for streams, 1 otherwise.
func (v *Variable) Val_size() int {
	return v.val_size
}

// Set_val_size may only be called once per record.
func (v *Variable) Set_val_size(n int) {
	if v.size_set {
		panic(fmt.Sprintf("val_size of %q at %d set twice", v.Name, v.Key_offset))
	}
	v.val_size = n
	v.size_set = true
}

// Byte_len is the length of the payload (without any count prefix).
func (v *Variable) Byte_len() int {
	return v.val_size * v.Type.Width()
}

// Encoded_len is the length of the value as stored, count prefix included.
func (v *Variable) Encoded_len() int {
	if v.Type.Has_prefix() {
		return 4 + v.Byte_len()
	}
	return v.Byte_len()
}

// Record_len is the length of the whole record: name length, name and value.
func (v *Variable) Record_len() int {
	return v.Val_offset - v.Key_offset + v.Encoded_len()
}

// Payload_offset is where the value bytes start, after any count prefix.
func (v *Variable) Payload_offset() int {
	if v.Type.Has_prefix() {
		return v.Val_offset + 4
	}
	return v.Val_offset
}

// End is one past the last byte of the record.
func (v *Variable) End() int {
	return v.Val_offset + v.Encoded_len()
}

// Display_name prefers the positional alias.
func (v *Variable) Display_name() string {
	if v.Alias != "" {
		return v.Alias
	}
	return v.Name
}

func (v *Variable) Value_string() string {
	switch v.Type {
	case VT_INT:
		return strconv.Itoa(int(v.Int))
	case VT_FLOAT:
		return strconv.FormatFloat(float64(v.Float), 'g', -1, 32)
	case VT_STRING, VT_WSTRING16, VT_WSTRING32:
		return strconv.Quote(v.Str)
	case VT_UID:
		return utils.Uid_string(v.Uid)
	case VT_STREAM:
		return fmt.Sprintf("[%d bytes]", len(v.Stream))
	}
	return "?"
}
