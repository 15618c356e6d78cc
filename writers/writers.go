package writers

// Functions for turning values into save bytes.

import (
	"encoding/binary"
	"fmt"
	"math"

	"chrdig/types"
	"chrdig/utils"
)

func Write_uint32_le(out []byte, i uint32) []byte {
	return binary.LittleEndian.AppendUint32(out, i)
}

func Encode_int(i int32) []byte {
	return Write_uint32_le(nil, uint32(i))
}

func Encode_float(f float32) []byte {
	return Write_uint32_le(nil, math.Float32bits(f))
}

// Encode_string encodes an 8-bit string with its character count.
func Encode_string(s string) []byte {
	out := Write_uint32_le(nil, uint32(len(s)))
	return append(out, s...)
}

// Encode_wide encodes a wide string at width 2 or 4 with its character count.
func Encode_wide(s string, width int) ([]byte, error) {
	payload, count, err := utils.Encode_wide(s, width)
	if err != nil {
		return nil, err
	}
	out := Write_uint32_le(nil, uint32(count))
	return append(out, payload...), nil
}

func Encode_uid(id [16]byte) []byte {
	return append([]byte{}, id[:]...)
}

func Encode_stream(b []byte) []byte {
	out := Write_uint32_le(nil, uint32(len(b)))
	return append(out, b...)
}

// Encode_value encodes the value slot of v that matches v.Type.
func Encode_value(v *types.Variable) ([]byte, error) {
	switch v.Type {
	case types.VT_INT:
		return Encode_int(v.Int), nil
	case types.VT_FLOAT:
		return Encode_float(v.Float), nil
	case types.VT_STRING:
		return Encode_string(v.Str), nil
	case types.VT_WSTRING16, types.VT_WSTRING32:
		return Encode_wide(v.Str, v.Type.Width())
	case types.VT_UID:
		return Encode_uid(v.Uid), nil
	case types.VT_STREAM:
		return Encode_stream(v.Stream), nil
	}
	return nil, fmt.Errorf("cannot encode %q: type %v", v.Name, v.Type)
}

// Encode_record encodes a whole record: name length, name, value.
func Encode_record(v *types.Variable) ([]byte, error) {
	if v.Name == "" || len(v.Name) > types.MAX_NAME_LEN {
		return nil, fmt.Errorf("cannot encode record with name %q", v.Name)
	}
	val, err := Encode_value(v)
	if err != nil {
		return nil, err
	}
	out := Encode_string(v.Name)
	return append(out, val...), nil
}
