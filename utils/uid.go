package utils

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// UIDs are stored as four little-endian uint32 words w1..w4 and written by
// humans as "w4-w3-w2-w1".

func Is_zero_uid(b [16]byte) bool {
	return b == [16]byte{}
}

// Bytes_to_uid renders a UID. The all-zero UID is absent: it returns "" and false.
func Bytes_to_uid(b [16]byte) (string, bool) {
	if Is_zero_uid(b) {
		return "", false
	}
	words := make([]string, 4)
	for i := 0; i < 4; i++ {
		w := binary.LittleEndian.Uint32(b[4*i:])
		words[3-i] = strconv.FormatUint(uint64(w), 10)
	}
	return strings.Join(words, "-"), true
}

// Uid_string is Bytes_to_uid for display; absent UIDs show as "(none)".
func Uid_string(b [16]byte) string {
	s, ok := Bytes_to_uid(b)
	if !ok {
		return "(none)"
	}
	return s
}

// Uid_to_bytes parses "w4-w3-w2-w1". The empty string is the absent (all-zero) UID.
func Uid_to_bytes(s string) ([16]byte, error) {
	out := [16]byte{}
	s = strings.TrimSpace(s)
	if s == "" {
		return out, nil
	}
	parts := strings.Split(s, "-")
	if len(parts) != 4 {
		return out, fmt.Errorf("malformed uid %q: expected 4 dash-separated words, got %v", s, len(parts))
	}
	for i, p := range parts {
		w, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return out, fmt.Errorf("malformed uid %q: word %v: %w", s, i+1, err)
		}
		binary.LittleEndian.PutUint32(out[4*(3-i):], uint32(w))
	}
	return out, nil
}

// New_uid returns a fresh random UID (never the absent one).
func New_uid() [16]byte {
	for {
		id := [16]byte(uuid.New())
		if !Is_zero_uid(id) {
			return id
		}
	}
}
