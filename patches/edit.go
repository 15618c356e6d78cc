package patches

import (
	"fmt"

	"github.com/pkg/errors"

	"chrdig/types"
	"chrdig/writers"
)

// Remove_block soft-deletes the block starting at start, children included.
// Pending edits inside the block are dropped first. Records inserted before the
// block (at its start offset) are kept and still written.
func (t *Table) Remove_block(start int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	b := t.sd.Block(start)
	if b == nil || start == types.HEADER_OFFSET {
		return fmt.Errorf("no block starts at 0x%x", start)
	}
	if o, ok := t.covering(start); ok {
		return errors.Wrapf(types.ErrRemoved, "block 0x%x is inside the edit at 0x%x", start, o)
	}

	var inserts []Insert
	if e, ok := t.entries[b.Start]; ok {
		inserts = e.Inserts
	}
	t.purge(b.Start, b.End)
	t.entries[b.Start] = &Entry{Previous_length: b.Size(), Inserts: inserts}
	return nil
}

// Remove_variable soft-deletes a whole record, name and value.
// Records inserted at the same offset are kept and still written.
func (t *Table) Remove_variable(v *types.Variable) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if o, ok := t.is_removed(v); ok {
		if o == v.Key_offset && t.entries[o].Previous_length == v.Record_len() {
			return nil
		}
		return errors.Wrapf(types.ErrRemoved, "%q at 0x%x is inside the edit at 0x%x", v.Name, v.Key_offset, o)
	}
	if o, ok := t.covering(v.Key_offset); ok {
		return errors.Wrapf(types.ErrRemoved, "%q at 0x%x is inside the edit at 0x%x", v.Name, v.Key_offset, o)
	}

	// Everything after the key offset and up to the record's last byte goes.
	t.purge(v.Key_offset+1, v.End()-1)
	e, ok := t.entries[v.Key_offset]
	if !ok {
		e = &Entry{}
		t.entries[v.Key_offset] = e
	}
	e.Data = nil
	e.Type = types.VT_UNKNOWN
	e.Previous_length = v.Record_len()
	return nil
}

// Restore_variable undoes Remove_variable.
func (t *Table) Restore_variable(v *types.Variable) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[v.Key_offset]
	if !ok || len(e.Data) > 0 || e.Previous_length != v.Record_len() {
		return false
	}
	e.Previous_length = 0
	if e.empty() {
		delete(t.entries, v.Key_offset)
	}
	return true
}

// Insert_variable adds a new record before the original byte at offset.
// Several inserts at one offset are written in the order they were made.
// nv needs a name, a type and a value; its offsets are ignored.
func (t *Table) Insert_variable(offset int, nv *types.Variable) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if nv.Type.Is_wide() {
		nv = &types.Variable{Name: nv.Name, Type: t.platform.Wide_type(), Str: nv.Str}
	}
	rec, err := writers.Encode_record(nv)
	if err != nil {
		return err
	}
	if err := t.check_free(offset, 0); err != nil {
		return err
	}

	e, ok := t.entries[offset]
	if !ok {
		e = &Entry{}
		t.entries[offset] = e
	}
	e.Inserts = append(e.Inserts, Insert{Name: nv.Name, Bytes: rec})
	return nil
}

// Drop_inserts forgets every pending insert of a record called name and returns
// how many there were.
func (t *Table) Drop_inserts(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for o, e := range t.entries {
		kept := []Insert{}
		for _, ins := range e.Inserts {
			if ins.Name == name {
				n++
			} else {
				kept = append(kept, ins)
			}
		}
		if len(kept) == len(e.Inserts) {
			continue
		}
		e.Inserts = kept
		if len(e.Inserts) == 0 {
			e.Inserts = nil
		}
		if e.empty() {
			delete(t.entries, o)
		}
	}
	return n
}

// Inserted lists the names of pending inserts at offset, in write order.
func (t *Table) Inserted(offset int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := []string{}
	if e, ok := t.entries[offset]; ok {
		for _, ins := range e.Inserts {
			out = append(out, ins.Name)
		}
	}
	return out
}
