package utils

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Wide strings are UTF-16LE (2 bytes per unit) on desktop and UTF-32LE on mobile.
// Lengths on the wire count units, not bytes.

func wide_encoding(width int) (encoding.Encoding, error) {
	switch width {
	case 2:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case 4:
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), nil
	}
	return nil, fmt.Errorf("no wide encoding with %v bytes per character", width)
}

// Decode_wide decodes a wide payload of the given width.
func Decode_wide(payload []byte, width int) (string, error) {
	enc, err := wide_encoding(width)
	if err != nil {
		return "", err
	}
	if len(payload)%width != 0 {
		return "", fmt.Errorf("wide string payload of %v bytes is not a multiple of %v", len(payload), width)
	}
	out, err := enc.NewDecoder().Bytes(payload)
	if err != nil {
		return "", err
	}
	// The decoder turns unpaired surrogates and out-of-range code points into U+FFFD.
	// Such a string could not be written back as it was.
	back, err := enc.NewEncoder().Bytes(out)
	if err != nil || !bytes.Equal(back, payload) {
		return "", fmt.Errorf("wide string is not valid %v-byte unicode", width)
	}
	return string(out), nil
}

// Encode_wide encodes s at the given width and returns the payload and its unit count.
func Encode_wide(s string, width int) ([]byte, int, error) {
	enc, err := wide_encoding(width)
	if err != nil {
		return nil, 0, err
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, 0, err
	}
	return out, len(out) / width, nil
}
