package converters

import (
	"bytes"
	"errors"
	"testing"

	"chrdig/fixtures"
	"chrdig/patches"
	"chrdig/readers"
	"chrdig/types"
	"chrdig/utils"
)

func load(t *testing.T, buf []byte) *patches.Table {
	t.Helper()
	sd, err := readers.Read_savedata(buf, readers.Default_options())
	if err != nil {
		t.Fatal(err)
	}
	return patches.New(sd)
}

func build(t *testing.T, table *patches.Table) []byte {
	t.Helper()
	out, err := table.Build(true)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func Test_desktop_to_mobile(t *testing.T) {
	opts := fixtures.Default()
	table := load(t, fixtures.Character(opts))

	if err := Convert_platform(table, types.PF_MOBILE); err != nil {
		t.Fatal(err)
	}
	mobile := load(t, build(t, table))
	sd := mobile.Savedata()
	if sd.Platform != types.PF_MOBILE {
		t.Fatalf("converted save reads as %v", sd.Platform)
	}
	name, err := sd.Unique(PLAYER_NAME)
	if err != nil || name.Str != opts.Name || name.Type != types.VT_WSTRING32 {
		t.Errorf("name %+v, %v", name, err)
	}
	quest, _ := sd.Unique("questNote")
	monster, _ := sd.Unique("greatestMonsterKilledName")
	if quest.Type != types.VT_WSTRING32 || monster.Type != types.VT_WSTRING32 || monster.Str != "Cyclops" {
		t.Errorf("quest %v, monster %v %q", quest.Type, monster.Type, monster.Str)
	}

	id, err := sd.Unique(SAVE_ID)
	if err != nil {
		t.Fatal(err)
	}
	if id.Key_offset != name.End() {
		t.Errorf("%v at 0x%x, player name ends at 0x%x", SAVE_ID, id.Key_offset, name.End())
	}
	if _, err := utils.Uid_to_bytes(id.Str); err != nil || id.Str == "" {
		t.Errorf("%v is %q: %v", SAVE_ID, id.Str, err)
	}

	// Converting again does nothing.
	before := build(t, table)
	if err := Convert_platform(table, types.PF_MOBILE); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, build(t, table)) {
		t.Error("second conversion changed the file")
	}
}

func Test_round_trip_desktop(t *testing.T) {
	opts := fixtures.Default()
	opts.Checksum = true
	buf := fixtures.Character(opts)
	table := load(t, buf)

	if err := Convert_platform(table, types.PF_MOBILE); err != nil {
		t.Fatal(err)
	}
	if err := Convert_platform(table, types.PF_DESKTOP); err != nil {
		t.Fatal(err)
	}
	out := build(t, table)
	if !bytes.Equal(out, buf) {
		t.Error("desktop -> mobile -> desktop changed the file")
	}
	sd := load(t, out).Savedata()
	if name, _ := sd.Unique(PLAYER_NAME); name.Str != opts.Name {
		t.Errorf("name %q", name.Str)
	}
	if _, err := sd.Unique(SAVE_ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("%v left behind: %v", SAVE_ID, err)
	}
}

func Test_round_trip_mobile(t *testing.T) {
	opts := fixtures.Default()
	opts.Platform = types.PF_MOBILE
	buf := fixtures.Character(opts)
	table := load(t, buf)

	if err := Convert_platform(table, types.PF_DESKTOP); err != nil {
		t.Fatal(err)
	}
	desktop := load(t, build(t, table)).Savedata()
	if desktop.Platform != types.PF_DESKTOP {
		t.Errorf("converted save reads as %v", desktop.Platform)
	}
	if _, err := desktop.Unique(SAVE_ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("%v still there: %v", SAVE_ID, err)
	}
	if name, _ := desktop.Unique(PLAYER_NAME); name.Str != opts.Name || name.Type != types.VT_WSTRING16 {
		t.Errorf("name %q (%v)", name.Str, name.Type)
	}

	// Going back restores the original id rather than making a new one.
	if err := Convert_platform(table, types.PF_MOBILE); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(build(t, table), buf) {
		t.Error("mobile -> desktop -> mobile changed the file")
	}
}

func Test_convert_keeps_edits(t *testing.T) {
	table := load(t, fixtures.Character(fixtures.Default()))
	table.Set_string(PLAYER_NAME, "Renamed", true)
	table.Set_int("money", 9)

	if err := Convert_platform(table, types.PF_MOBILE); err != nil {
		t.Fatal(err)
	}
	if s, _ := table.Get_string(PLAYER_NAME); s != "Renamed" {
		t.Errorf("name %q", s)
	}
	sd := load(t, build(t, table)).Savedata()
	name, _ := sd.Unique(PLAYER_NAME)
	money, _ := sd.Unique("money")
	if name.Str != "Renamed" || money.Int != 9 {
		t.Errorf("name %q, money %v", name.Str, money.Int)
	}
}

func Test_convert_skips_removed(t *testing.T) {
	table := load(t, fixtures.Character(fixtures.Default()))
	quest, _ := table.Savedata().Unique("questNote")
	table.Remove_block(quest.Block_offset)

	if err := Convert_platform(table, types.PF_MOBILE); err != nil {
		t.Fatal(err)
	}
	sd := load(t, build(t, table)).Savedata()
	if _, err := sd.Unique("questNote"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("questNote: %v", err)
	}
}
