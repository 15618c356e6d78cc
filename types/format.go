package types

import "encoding/binary"

// Wire format constants. Everything is little-endian.
const (
	BEGIN_NAME = "begin_block"
	END_NAME   = "end_block"

	// Bytes after the end marker that still belong to the block.
	END_TRAILER = 4
	// What the game writes into the trailer.
	END_TRAILER_VALUE = 0xDEADC0DE

	// Key of the header pseudo-block.
	HEADER_OFFSET = -1
	// Used in errors about names looked up in no particular block.
	NO_BLOCK = -2

	// Anything shorter cannot hold a header and one block.
	MIN_FILE_SIZE = 64

	MAX_NAME_LEN = 256
)

var (
	BEGIN_MARKER = marker(BEGIN_NAME)
	END_MARKER   = marker(END_NAME)
)

func marker(name string) []byte {
	out := binary.LittleEndian.AppendUint32(nil, uint32(len(name)))
	return append(out, name...)
}

// Supported version fields.
var (
	Header_versions = []int{2, 3}
	Player_versions = []int{5, 6}
)
