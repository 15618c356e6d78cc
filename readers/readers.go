package readers

import (
	"encoding/binary"
	"fmt"
	"math"

	"chrdig/types"
)

// The Read_* functions read at *cur and advance it. Running past limit is a
// structural error: the file is truncated or a length field lies.

func need(limit int, cur int, n int, what string) error {
	if n < 0 || cur+n > limit {
		return &types.StructuralError{Msg: fmt.Sprintf("truncated %v: need %v bytes, %v left", what, n, limit-cur), Offsets: []int{cur}}
	}
	return nil
}

func Read_uint32(bs []byte, cur *int, limit int) (uint32, error) {
	if err := need(limit, *cur, 4, "integer"); err != nil {
		return 0, err
	}
	out := binary.LittleEndian.Uint32(bs[*cur:])
	*cur += 4
	return out, nil
}

func Read_int_le(bs []byte, cur *int, limit int) (int32, error) {
	u, err := Read_uint32(bs, cur, limit)
	return int32(u), err
}

func Read_float(bs []byte, cur *int, limit int) (float32, error) {
	u, err := Read_uint32(bs, cur, limit)
	return math.Float32frombits(u), err
}

func Read_fixed(bs []byte, cur *int, limit int, n int, what string) ([]byte, error) {
	if err := need(limit, *cur, n, what); err != nil {
		return nil, err
	}
	out := bs[*cur : *cur+n]
	*cur += n
	return out, nil
}

// Read_count reads an element count and checks that count*width bytes follow.
func Read_count(bs []byte, cur *int, limit int, width int, what string) (int, error) {
	start := *cur
	n, err := Read_uint32(bs, cur, limit)
	if err != nil {
		return 0, err
	}
	if int64(n)*int64(width) > int64(limit-*cur) {
		return 0, &types.StructuralError{Msg: fmt.Sprintf("%v claims %v elements of %v bytes, only %v bytes left", what, n, width, limit-*cur), Offsets: []int{start}}
	}
	return int(n), nil
}

// Read_name reads a length-prefixed record name.
func Read_name(bs []byte, cur *int, limit int) (string, error) {
	start := *cur
	n, err := Read_uint32(bs, cur, limit)
	if err != nil {
		return "", err
	}
	if n == 0 || n > types.MAX_NAME_LEN {
		return "", &types.StructuralError{Msg: fmt.Sprintf("implausible name length %v", n), Offsets: []int{start}}
	}
	name, err := Read_fixed(bs, cur, limit, int(n), "name")
	if err != nil {
		return "", err
	}
	return string(name), nil
}

// plausible_name reports whether a record name (or a marker) could start at cur.
func plausible_name(bs []byte, cur int, limit int) bool {
	if cur+4 > limit {
		return false
	}
	n := int(binary.LittleEndian.Uint32(bs[cur:]))
	if n == 0 || n > types.MAX_NAME_LEN || cur+4+n > limit {
		return false
	}
	for _, c := range bs[cur+4 : cur+4+n] {
		if c < 0x21 || c > 0x7e {
			return false
		}
	}
	return true
}
