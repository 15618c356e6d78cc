package readers

import (
	"sort"

	"chrdig/types"
)

// advance moves a partial-match counter on by one byte.
// Restarting on the current byte is enough because neither marker's first byte
// (its length) appears again in the marker.
func advance(marker []byte, matched int, c byte) int {
	if marker[matched] == c {
		return matched + 1
	}
	if marker[0] == c {
		return 1
	}
	return 0
}

// Scan_blocks finds every block in one pass over buf.
//
// It knows nothing about records: it only looks for begin and end markers, keeping
// the starts of open blocks on a stack. Blocks are returned by start offset, together
// with the ascending list of starts.
func Scan_blocks(buf []byte) (map[int]*types.Block, []int, error) {
	blocks := map[int]*types.Block{}
	stack := []int{}
	begin, end := 0, 0

	for i, c := range buf {
		begin = advance(types.BEGIN_MARKER, begin, c)
		if begin == len(types.BEGIN_MARKER) {
			begin = 0
			stack = append(stack, i+1-len(types.BEGIN_MARKER))
		}

		end = advance(types.END_MARKER, end, c)
		if end == len(types.END_MARKER) {
			end = 0
			at := i + 1 - len(types.END_MARKER)
			if len(stack) == 0 {
				return nil, nil, &types.StructuralError{Msg: "end of block without a beginning", Offsets: []int{at}}
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			b := &types.Block{Start: start, End: i + types.END_TRAILER}
			if b.End >= len(buf) {
				return nil, nil, &types.StructuralError{Msg: "block trailer runs past the end of the file", Offsets: []int{start}}
			}
			if len(stack) > 0 {
				b.Parent = stack[len(stack)-1]
				b.Has_parent = true
			}
			blocks[start] = b
		}
	}

	if len(stack) > 0 {
		return nil, nil, &types.StructuralError{Msg: "unterminated block", Offsets: stack}
	}

	order := make([]int, 0, len(blocks))
	for start := range blocks {
		order = append(order, start)
	}
	sort.Ints(order)
	for _, start := range order {
		b := blocks[start]
		if b.Has_parent {
			p := blocks[b.Parent]
			p.Children = append(p.Children, start)
		}
	}

	return blocks, order, nil
}

// content_range is the part of a block between its markers.
func content_range(b *types.Block) (int, int) {
	return b.Start + len(types.BEGIN_MARKER), b.End + 1 - types.END_TRAILER - len(types.END_MARKER)
}
