package patches

// The patch table: pending edits to a loaded save, kept apart from the original bytes.
//
// Every edit is an Entry at an offset of the original buffer: "emit Data (and any
// inserted records), then skip Previous_length original bytes". Nothing is resized in
// place; writers.Merge does the rest.

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"chrdig/types"
	"chrdig/writers"
)

// Insert is a whole record added by Insert_variable.
type Insert struct {
	Name  string
	Bytes []byte
}

type Entry struct {
	Data            []byte
	Previous_length int
	// Wire type of Data, when Data is a value. VT_UNKNOWN for removals.
	Type    types.VariableType
	Inserts []Insert
}

func (e *Entry) empty() bool {
	return len(e.Data) == 0 && e.Previous_length == 0 && len(e.Inserts) == 0
}

func (e *Entry) bytes() []byte {
	out := append([]byte{}, e.Data...)
	for _, ins := range e.Inserts {
		out = append(out, ins.Bytes...)
	}
	return out
}

// Table holds the pending edits for one loaded save.
// It is safe to call from several goroutines, but edits are meant to come from one.
type Table struct {
	mu       sync.Mutex
	sd       *types.Savedata
	platform types.Platform
	entries  map[int]*Entry
}

func New(sd *types.Savedata) *Table {
	return &Table{sd: sd, platform: sd.Platform, entries: map[int]*Entry{}}
}

func (t *Table) Savedata() *types.Savedata {
	return t.sd
}

// Platform is the platform new values are encoded for. It starts as the file's own.
func (t *Table) Platform() types.Platform {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.platform
}

func (t *Table) Set_platform(p types.Platform) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.platform = p
}

// Entries returns the patched offsets, ascending.
func (t *Table) Entries() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.offsets()
}

func (t *Table) offsets() []int {
	out := make([]int, 0, len(t.entries))
	for off := range t.entries {
		out = append(out, off)
	}
	sort.Ints(out)
	return out
}

// Entry returns a copy of the entry at offset.
func (t *Table) Entry(offset int) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[offset]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = map[int]*Entry{}
}

// Patches lists the entries in the form writers.Merge wants.
func (t *Table) Patches() []writers.Patch {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := []writers.Patch{}
	for _, off := range t.offsets() {
		e := t.entries[off]
		out = append(out, writers.Patch{Offset: off, Data: e.bytes(), Previous_length: e.Previous_length})
	}
	return out
}

// Build merges the original bytes with every pending edit.
func (t *Table) Build(checksum bool) ([]byte, error) {
	h := t.sd.Header
	return writers.Merge(t.sd.Buf, t.Patches(), writers.Options{
		Checksum:        checksum,
		Has_checksum:    h.Has_checksum,
		Checksum_offset: h.Checksum_offset,
	})
}

// Write builds the file and writes it to filename.
func (t *Table) Write(filename string, checksum bool) error {
	out, err := t.Build(checksum)
	if err != nil {
		return errors.Wrapf(err, "build %v", filename)
	}
	return writers.Write_file(filename, out)
}

// covering returns the offset of an entry that swallows original byte offset off
// (not counting an entry starting exactly there), or false.
func (t *Table) covering(off int) (int, bool) {
	for o, e := range t.entries {
		if o < off && off < o+e.Previous_length {
			return o, true
		}
	}
	return 0, false
}

// check_free fails if a new patch consuming [off, off+prev) would collide with
// another entry.
func (t *Table) check_free(off int, prev int) error {
	if off < 0 || off+prev > len(t.sd.Buf) {
		return fmt.Errorf("patch at 0x%x (%v bytes) is outside the file", off, prev)
	}
	if o, ok := t.covering(off); ok {
		return errors.Wrapf(types.ErrRemoved, "offset 0x%x is inside the edit at 0x%x", off, o)
	}
	for o := range t.entries {
		if o > off && o < off+prev {
			return fmt.Errorf("patch at 0x%x (%v bytes) would swallow the edit at 0x%x", off, prev, o)
		}
	}
	return nil
}

// purge drops every entry with offset in [from, to].
func (t *Table) purge(from int, to int) {
	for o := range t.entries {
		if o >= from && o <= to {
			delete(t.entries, o)
		}
	}
}

func (t *Table) is_removed(v *types.Variable) (int, bool) {
	for o, e := range t.entries {
		if e.Previous_length > 0 && o <= v.Key_offset && v.End() <= o+e.Previous_length {
			return o, true
		}
	}
	return 0, false
}
