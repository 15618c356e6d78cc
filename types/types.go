package types

import (
	"fmt"
	"sort"
	"strings"
)

type Platform int

const (
	PF_DESKTOP Platform = iota
	PF_MOBILE
)

func (p Platform) String() string {
	switch p {
	case PF_DESKTOP:
		return "desktop"
	case PF_MOBILE:
		return "mobile"
	}
	return fmt.Sprintf("platform(%d)", int(p))
}

// Wide_width is the number of bytes per character of a wide string on this platform.
func (p Platform) Wide_width() int {
	if p == PF_MOBILE {
		return 4
	}
	return 2
}

// Wide_type is the wire type of a wide string on this platform.
func (p Platform) Wide_type() VariableType {
	if p == PF_MOBILE {
		return VT_WSTRING32
	}
	return VT_WSTRING16
}

func Parse_platform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desktop", "pc":
		return PF_DESKTOP, nil
	case "mobile":
		return PF_MOBILE, nil
	}
	return PF_DESKTOP, fmt.Errorf("unknown platform %q (use desktop|mobile)", s)
}

type VariableType int

const (
	VT_UNKNOWN VariableType = iota
	VT_INT
	VT_FLOAT
	VT_STRING
	VT_WSTRING16
	VT_WSTRING32
	VT_UID
	VT_STREAM
)

func (t VariableType) String() string {
	names := []string{"unknown", "int", "float", "string", "wstring16", "wstring32", "uid", "stream"}
	if int(t) < 0 || int(t) >= len(names) {
		return fmt.Sprintf("vartype(%d)", int(t))
	}
	return names[t]
}

// Width is the number of bytes per element.
func (t VariableType) Width() int {
	switch t {
	case VT_INT, VT_FLOAT, VT_WSTRING32:
		return 4
	case VT_WSTRING16:
		return 2
	case VT_STRING, VT_STREAM:
		return 1
	case VT_UID:
		return 16
	}
	return 0
}

// Has_prefix reports whether values of this type carry a 4-byte element count.
func (t VariableType) Has_prefix() bool {
	switch t {
	case VT_STRING, VT_WSTRING16, VT_WSTRING32, VT_STREAM:
		return true
	}
	return false
}

func (t VariableType) Is_wide() bool {
	return t == VT_WSTRING16 || t == VT_WSTRING32
}

func (t VariableType) Is_string() bool {
	return t == VT_STRING || t.Is_wide()
}

// BlockType is the role of a block, taken from the registry entry of its first record.
type BlockType int

const (
	BT_UNKNOWN BlockType = iota
	BT_HEADER
	BT_CHARACTER
	BT_TUTORIAL
	BT_TELEPORTS
	BT_RESPAWNS
	BT_MARKERS
	BT_MOVEMENT
	BT_STATS
	BT_SKILLS
	BT_SKILL
	BT_INVENTORY
	BT_SACK
	BT_ITEM
	BT_EQUIPMENT
	BT_JOURNAL
	BT_UI
)

func (t BlockType) String() string {
	names := []string{"unknown", "header", "character", "tutorial", "teleports", "respawns", "markers", "movement",
		"stats", "skills", "skill", "inventory", "sack", "item", "equipment", "journal", "ui"}
	if int(t) < 0 || int(t) >= len(names) {
		return fmt.Sprintf("blocktype(%d)", int(t))
	}
	return names[t]
}

// Block is a byte range [Start, End] delimited by begin/end markers.
// End is the last byte of the end marker's trailer.
// Blocks refer to each other by start offset only.
type Block struct {
	Start      int
	End        int
	Parent     int
	Has_parent bool
	Children   []int

	// Filled once by the record pass, never changed after.
	Variables map[string][]*Variable
	Aliases   map[string]*Variable
	Records   []*Variable // file order
}

func (b *Block) Size() int {
	return b.End - b.Start + 1
}

func (b *Block) Contains(offset int) bool {
	return offset >= b.Start && offset <= b.End
}

// Type resolves the block type from the first record.
func (b *Block) Type() BlockType {
	if len(b.Records) == 0 {
		return BT_UNKNOWN
	}
	return b.Records[0].Owner
}

// Get returns the first record called name (or aliased name), or nil.
func (b *Block) Get(name string) *Variable {
	if vs := b.Variables[name]; len(vs) > 0 {
		return vs[0]
	}
	return b.Aliases[name]
}

// Count returns how many records in this block are called name.
func (b *Block) Count(name string) int {
	if vs := b.Variables[name]; len(vs) > 0 {
		return len(vs)
	}
	if b.Aliases[name] != nil {
		return 1
	}
	return 0
}

func (b *Block) Add(v *Variable) {
	if b.Variables == nil {
		b.Variables = map[string][]*Variable{}
	}
	b.Variables[v.Name] = append(b.Variables[v.Name], v)
	b.Records = append(b.Records, v)
}

type Header struct {
	Version         int
	Class           string
	Uid             [16]byte
	Stream          []byte
	Class_tag       string
	Level           int
	Player_version  int
	Has_checksum    bool
	Checksum        uint32
	Checksum_offset int // value offset of the checksum record
}

// Savedata is a fully loaded save: the original bytes plus everything found in them.
// The original buffer is never modified.
type Savedata struct {
	Buf      []byte
	Platform Platform
	Header   Header

	// Blocks by start offset. The header pseudo-block is stored at HEADER_OFFSET.
	Blocks map[int]*Block
	Order  []int // real block starts, ascending

	// Index maps record names and aliases to the start offsets of the blocks holding them.
	Index map[string][]int
}

func (sd *Savedata) Block(offset int) *Block {
	return sd.Blocks[offset]
}

func (sd *Savedata) Header_block() *Block {
	return sd.Blocks[HEADER_OFFSET]
}

// Top_level returns the starts of blocks without a parent.
func (sd *Savedata) Top_level() []int {
	out := []int{}
	for _, off := range sd.Order {
		if !sd.Blocks[off].Has_parent {
			out = append(out, off)
		}
	}
	return out
}

// All returns every record called name (or aliased name), in file order.
func (sd *Savedata) All(name string) []*Variable {
	out := []*Variable{}
	for _, off := range sd.Index[name] {
		b := sd.Blocks[off]
		if vs := b.Variables[name]; len(vs) > 0 {
			out = append(out, vs...)
		} else if a := b.Aliases[name]; a != nil {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key_offset < out[j].Key_offset })
	return out
}

// Unique finds the one and only record called name.
func (sd *Savedata) Unique(name string) (*Variable, error) {
	offs := sd.Index[name]
	if len(offs) == 0 {
		return nil, &NotFoundError{Name: name, Block: NO_BLOCK}
	}
	if len(offs) > 1 {
		return nil, &MultipleDefinitionsError{Name: name, Blocks: append([]int{}, offs...)}
	}
	b := sd.Blocks[offs[0]]
	if n := b.Count(name); n > 1 {
		return nil, &MultipleDefinitionsError{Name: name, Blocks: []int{offs[0]}, Count: n}
	}
	return b.Get(name), nil
}

// Find returns the n-th record called name in the block starting at block.
func (sd *Savedata) Find(block int, name string, n int) (*Variable, error) {
	b := sd.Blocks[block]
	if b == nil {
		return nil, &NotFoundError{Name: name, Block: block}
	}
	if vs := b.Variables[name]; n >= 0 && n < len(vs) {
		return vs[n], nil
	}
	if a := b.Aliases[name]; a != nil && n == 0 {
		return a, nil
	}
	return nil, &NotFoundError{Name: name, Block: block}
}

// Build_index fills Index from the blocks' records.
func (sd *Savedata) Build_index() {
	sd.Index = map[string][]int{}
	add := func(name string, off int) {
		offs := sd.Index[name]
		if len(offs) > 0 && offs[len(offs)-1] == off {
			return
		}
		sd.Index[name] = append(offs, off)
	}
	starts := append([]int{HEADER_OFFSET}, sd.Order...)
	for _, off := range starts {
		b := sd.Blocks[off]
		if b == nil {
			continue
		}
		for _, v := range b.Records {
			add(v.Name, off)
		}
		aliases := make([]string, 0, len(b.Aliases))
		for a := range b.Aliases {
			aliases = append(aliases, a)
		}
		sort.Strings(aliases)
		for _, a := range aliases {
			add(a, off)
		}
	}
}
