package readers

import (
	"errors"
	"testing"

	"chrdig/fixtures"
	"chrdig/types"
	"chrdig/writers"
)

func header_only() *writers.Builder {
	b := &writers.Builder{}
	b.Int("headerVersion", 2).
		String("playerCharacterClass", "Warrior").
		Int("playerLevel", 3).
		Int("playerVersion", 5)
	return b
}

func must_bytes(t *testing.T, b *writers.Builder) []byte {
	t.Helper()
	out, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func Test_scan_nested(t *testing.T) {
	b := header_only()
	h := b.Len()
	b.Begin().Int("max", 1)
	inner := b.Len()
	b.Begin().Int("skillLevel", 1).End()
	inner_end := b.Len() - 1
	b.End()
	outer_end := b.Len() - 1
	second := b.Len()
	b.Begin().End()
	buf := must_bytes(t, b)

	blocks, order, err := Scan_blocks(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 3 || order[0] != h || order[1] != inner || order[2] != second {
		t.Fatalf("order %v", order)
	}
	outer := blocks[h]
	if outer.Has_parent || outer.End != outer_end || len(outer.Children) != 1 || outer.Children[0] != inner {
		t.Errorf("outer block %+v", outer)
	}
	child := blocks[inner]
	if !child.Has_parent || child.Parent != h || child.End != inner_end {
		t.Errorf("inner block %+v", child)
	}
	if blocks[second].Has_parent || blocks[second].Size() != 15+13+4 {
		t.Errorf("empty block %+v", blocks[second])
	}
}

func Test_scan_unterminated(t *testing.T) {
	b := header_only()
	first := b.Len()
	b.Begin().Int("max", 1)
	second := b.Len()
	b.Begin().Int("skillLevel", 1)
	buf := must_bytes(t, b)

	_, _, err := Scan_blocks(buf)
	var se *types.StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("expected a structural error, got %v", err)
	}
	if len(se.Offsets) != 2 || se.Offsets[0] != first || se.Offsets[1] != second {
		t.Errorf("unmatched offsets %v", se.Offsets)
	}
}

func Test_scan_end_without_begin(t *testing.T) {
	b := header_only()
	b.Begin().End().End()
	_, _, err := Scan_blocks(must_bytes(t, b))
	if !errors.Is(err, types.ErrStructural) {
		t.Errorf("expected a structural error, got %v", err)
	}
}

func Test_scan_missing_trailer(t *testing.T) {
	b := header_only()
	b.Begin().Int("max", 1).Raw(types.END_MARKER)
	_, _, err := Scan_blocks(must_bytes(t, b))
	if !errors.Is(err, types.ErrStructural) {
		t.Errorf("expected a structural error, got %v", err)
	}
}

func Test_read_character(t *testing.T) {
	opts := fixtures.Default()
	sd, err := Read_savedata(fixtures.Character(opts), Default_options())
	if err != nil {
		t.Fatal(err)
	}

	if sd.Platform != types.PF_DESKTOP {
		t.Errorf("platform %v", sd.Platform)
	}
	h := sd.Header
	if h.Version != 2 || h.Player_version != 5 || h.Level != 12 || h.Class != "Warrior" || h.Uid != fixtures.Character_uid {
		t.Errorf("header %+v", h)
	}
	if h.Has_checksum {
		t.Error("checksum found where there is none")
	}

	name, err := sd.Unique("myPlayerName")
	if err != nil || name.Str != opts.Name || name.Type != types.VT_WSTRING16 || name.Val_size() != 6 {
		t.Errorf("myPlayerName: %+v, %v", name, err)
	}
	if b := sd.Block(name.Block_offset); b.Type() != types.BT_CHARACTER {
		t.Errorf("character block is %v", b.Type())
	}

	str, err := sd.Unique("str")
	if err != nil || str.Type != types.VT_FLOAT || str.Float != 54 || str.Name != "temp" {
		t.Errorf("str: %+v, %v", str, err)
	}
	mana, err := sd.Unique("mana")
	if err != nil || mana.Float != 300 {
		t.Errorf("mana: %+v, %v", mana, err)
	}
	diff, err := sd.Unique("difficulty")
	if err != nil || diff.Type != types.VT_INT || diff.Int != 1 {
		t.Errorf("difficulty: %+v, %v", diff, err)
	}
	if _, err := sd.Unique("temp"); !errors.Is(err, types.ErrMultipleDefinitions) {
		t.Errorf("temp: %v", err)
	}

	uids := sd.All("teleportUID")
	if len(uids) != 7 {
		t.Errorf("%v teleport uids", len(uids))
	}
	if len(sd.Index["teleportUidsSize"]) != 3 {
		t.Errorf("teleportUidsSize in %v", sd.Index["teleportUidsSize"])
	}
	if uids[0].Uid != fixtures.Teleport_uid(0, 0) {
		t.Errorf("first teleport %v", uids[0].Value_string())
	}

	// Every record must end where the next one starts (or at a marker).
	for _, start := range sd.Order {
		b := sd.Block(start)
		for i := 1; i < len(b.Records); i++ {
			prev, v := b.Records[i-1], b.Records[i]
			if prev.End() > v.Key_offset {
				t.Errorf("%v overlaps %v", prev.Name, v.Name)
			}
		}
	}
}

func Test_read_mobile(t *testing.T) {
	opts := fixtures.Default()
	opts.Platform = types.PF_MOBILE
	buf := fixtures.Character(opts)

	sd, err := Read_savedata(buf, Default_options())
	if err != nil {
		t.Fatal(err)
	}
	if sd.Platform != types.PF_MOBILE {
		t.Fatalf("platform %v", sd.Platform)
	}
	name, err := sd.Unique("myPlayerName")
	if err != nil || name.Str != opts.Name || name.Type != types.VT_WSTRING32 {
		t.Errorf("myPlayerName: %+v, %v", name, err)
	}
	id, err := sd.Unique("mySaveId")
	if err != nil || id.Str != fixtures.SAVE_ID {
		t.Errorf("mySaveId: %+v, %v", id, err)
	}
	quest, err := sd.Unique("questNote")
	if err != nil || quest.Str != "Find the Oracle" {
		t.Errorf("questNote: %+v, %v", quest, err)
	}

	forced, err := Read_savedata(buf, Options{Platform: types.PF_MOBILE})
	if err != nil || forced.Platform != types.PF_MOBILE {
		t.Errorf("forced mobile: %v", err)
	}
	if _, err := Read_savedata(buf, Options{Platform: types.PF_DESKTOP}); err == nil {
		t.Error("mobile save read as desktop without detection")
	}
}

// A mobile-only name is enough to switch, even without wide strings to go by.
func Test_detect_by_name(t *testing.T) {
	b := header_only()
	b.Begin().String("mySaveId", "1-2-3-4").Int("money", 5).End()
	sd, err := Read_savedata(must_bytes(t, b), Default_options())
	if err != nil {
		t.Fatal(err)
	}
	if sd.Platform != types.PF_MOBILE {
		t.Errorf("platform %v", sd.Platform)
	}
}

func Test_incompatible(t *testing.T) {
	for _, c := range []struct{ header, player int32 }{{1, 5}, {4, 5}, {2, 4}, {3, 7}} {
		opts := fixtures.Default()
		opts.Header_version = c.header
		opts.Player_version = c.player
		_, err := Read_savedata(fixtures.Character(opts), Default_options())
		var ie *types.IncompatibleError
		if !errors.As(err, &ie) {
			t.Errorf("%v/%v: expected incompatible, got %v", c.header, c.player, err)
			continue
		}
		if errors.Is(err, types.ErrStructural) {
			t.Errorf("%v/%v: incompatible save reported as structural", c.header, c.player)
		}
	}
	for _, c := range []struct{ header, player int32 }{{2, 5}, {3, 6}, {2, 6}} {
		opts := fixtures.Default()
		opts.Header_version = c.header
		opts.Player_version = c.player
		if _, err := Read_savedata(fixtures.Character(opts), Default_options()); err != nil {
			t.Errorf("%v/%v: %v", c.header, c.player, err)
		}
	}
}

func Test_too_small(t *testing.T) {
	_, err := Read_savedata(make([]byte, types.MIN_FILE_SIZE-1), Default_options())
	if !errors.Is(err, types.ErrStructural) {
		t.Errorf("expected a structural error, got %v", err)
	}
}

func Test_unknown_variable(t *testing.T) {
	b := header_only()
	b.Begin().Int("money", 5).Int("noSuchThing", 1).End()
	_, err := Read_savedata(must_bytes(t, b), Default_options())
	var ive *types.InvalidVariableError
	if !errors.As(err, &ive) || ive.Name != "noSuchThing" {
		t.Errorf("expected invalid variable, got %v", err)
	}
}

func Test_lying_length(t *testing.T) {
	b := header_only()
	b.Begin().Int("money", 5).
		Raw(writers.Encode_string("playerTexture")).
		Raw(writers.Write_uint32_le(nil, 1000)).
		Raw([]byte("tex")).
		End()
	_, err := Read_savedata(must_bytes(t, b), Default_options())
	if !errors.Is(err, types.ErrStructural) {
		t.Errorf("expected a structural error, got %v", err)
	}
}

func Test_checksum_header(t *testing.T) {
	opts := fixtures.Default()
	opts.Checksum = true
	buf := fixtures.Character(opts)
	sd, err := Read_savedata(buf, Default_options())
	if err != nil {
		t.Fatal(err)
	}
	h := sd.Header
	if !h.Has_checksum || h.Checksum_offset < 0 {
		t.Fatalf("header %+v", h)
	}
	if !writers.Checksum_ok(buf, h.Checksum_offset) {
		t.Error("fixture checksum does not verify")
	}
}

func Test_decode_value(t *testing.T) {
	data, _ := writers.Encode_wide("Hi", 4)
	v, err := Decode_value("questNote", types.VT_WSTRING32, data)
	if err != nil || v.Str != "Hi" || v.Val_size() != 2 {
		t.Errorf("%+v, %v", v, err)
	}
	if _, err := Decode_value("money", types.VT_INT, []byte{1, 2, 3, 4, 5}); err == nil {
		t.Error("left over bytes accepted")
	}
}

func Test_read_header_only(t *testing.T) {
	buf := fixtures.Character(fixtures.Default())
	hb, h, err := Read_header(buf, Default_options())
	if err != nil {
		t.Fatal(err)
	}
	if h.Version != 2 || h.Class_tag != "tagCClass01" || len(hb.Records) != 7 {
		t.Errorf("header %+v with %v records", h, len(hb.Records))
	}
	_, order, _ := Scan_blocks(buf)
	if hb.End != order[0]-1 {
		t.Errorf("header ends at %v, first block at %v", hb.End, order[0])
	}
}

// A wide string that is not valid UTF-16 can't be written back unchanged, so the
// save is refused rather than loaded with the name replaced.
func Test_bad_wide_string(t *testing.T) {
	b := header_only()
	b.Begin().
		Raw(writers.Encode_string("myPlayerName")).
		Raw(writers.Write_uint32_le(nil, 2)).
		Raw([]byte{'A', 0, 0x00, 0xd8}).
		Int("money", 5).
		End()
	_, err := Read_savedata(must_bytes(t, b), Default_options())
	if !errors.Is(err, types.ErrStructural) {
		t.Errorf("expected a structural error, got %v", err)
	}
}

// A partial marker inside a value must not hide a real marker right after it.
func Test_scan_partial_marker(t *testing.T) {
	b := header_only()
	outer := b.Len()
	b.Begin().Stream("hotSlotBitmap", types.BEGIN_MARKER[:5])
	inner := b.Len()
	b.Begin().Int("skillLevel", 1).End()
	b.End()
	buf := must_bytes(t, b)

	blocks, order, err := Scan_blocks(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != outer || order[1] != inner {
		t.Fatalf("order %v", order)
	}
	if !blocks[inner].Has_parent || blocks[inner].Parent != outer {
		t.Errorf("inner block %+v", blocks[inner])
	}
	if _, err := Read_savedata(buf, Default_options()); err != nil {
		t.Error(err)
	}
}
