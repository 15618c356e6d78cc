package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/ini.v1"

	"chrdig/fixtures"
	"chrdig/readers"
	"chrdig/types"
)

// The fixture list: one section per kind of save, each naming the files to make.
var files_ini = `
[desktop]
files = Player.chr, _Sigrun.chr
platform = desktop

[desktop_checksum]
files = Checked.chr
platform = desktop
checksum = true

[mobile]
files = Mobile.chr
platform = mobile
checksum = true
`

// setup makes a save directory full of fixtures, and points the editor's config and
// stash files into it.
func setup(t *testing.T) (string, map[string][]byte) {
	t.Helper()
	dir := t.TempDir()

	g_stash_filename = filepath.Join(dir, "chrdig.tmp")
	g_config_filename = filepath.Join(dir, "chrdig.ini")
	err := os.WriteFile(g_config_filename, []byte("quiet_ms = 0\nbackup = true\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	inifile, err := ini.Load([]byte(files_ini))
	if err != nil {
		t.Fatalf("can't even read ini file: %v", err)
	}
	files := map[string][]byte{}
	for _, s := range inifile.Sections() {
		if s.Name() == ini.DefaultSection {
			continue
		}
		opts := fixtures.Default()
		opts.Platform, err = types.Parse_platform(s.Key("platform").String())
		if err != nil {
			t.Fatal(err)
		}
		opts.Checksum = s.Key("checksum").MustBool(false)
		for _, name := range s.Key("files").Strings(",") {
			buf := fixtures.Character(opts)
			files[name] = buf
			if err := os.WriteFile(filepath.Join(dir, name), buf, 0644); err != nil {
				t.Fatal(err)
			}
		}
	}
	if len(files) == 0 {
		// An empty fixture list would let every test below pass without checking anything.
		t.Fatal("fixture list names no files")
	}
	return dir, files
}

func run(t *testing.T, dir string, args ...string) error {
	t.Helper()
	return main2(append([]string{"--dir", dir}, args...))
}

// chrdig load followed by chrdig save must give back the same bytes.
func Test_LoadStashRetrieveSave(t *testing.T) {
	dir, files := setup(t)

	error_count := 0
	success_count := 0
	for name, original := range files {
		if err := run(t, dir, "load", name); err != nil {
			t.Logf("failed to load file %v, %v", name, err)
			error_count++
			continue
		}
		if err := run(t, dir, "save"); err != nil {
			t.Logf("failed to save file %v, %v", name, err)
			error_count++
			continue
		}
		saved, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Logf("failed to read back %v, %v", name, err)
			error_count++
			continue
		}
		if !bytes.Equal(saved, original) {
			t.Logf("Data Mangled by load->stash->retrieve->save (%v)", name)
			error_count++
			continue
		}
		backup := filepath.Join(dir, strings.TrimSuffix(name, ".chr")+".old")
		if _, err := os.Stat(backup); err != nil {
			t.Logf("no backup for %v: %v", name, err)
			error_count++
			continue
		}
		if _, err := os.Stat(g_stash_filename); !os.IsNotExist(err) {
			t.Logf("stash left behind after saving %v", name)
			error_count++
			continue
		}
		success_count++
	}

	if error_count > 0 {
		t.Errorf("Errors! (%v errors, %v successes)", error_count, success_count)
	}
}

func Test_edit_session(t *testing.T) {
	dir, _ := setup(t)

	steps := [][]string{
		{"load", "Player.chr"},
		{"set", "money", "123456"},
		{"set", "str", "300.5"},
		{"set", "myplayername", "Renamed"},
		{"get", "money"},
		{"list", "teleport"},
		{"dump"},
	}
	for _, step := range steps {
		if err := run(t, dir, step...); err != nil {
			t.Fatalf("%v: %v", step, err)
		}
	}

	// Ambiguous names need a block.
	if err := run(t, dir, "set", "teleportUidsSize", "1"); err == nil {
		t.Error("set of a name in several blocks succeeded")
	}
	if err := run(t, dir, "set", "money", "lots"); err == nil {
		t.Error("set money to lots succeeded")
	}

	if err := run(t, dir, "save"); err != nil {
		t.Fatal(err)
	}
	sd, err := readers.Load_file(filepath.Join(dir, "Player.chr"), readers.Default_options())
	if err != nil {
		t.Fatal(err)
	}
	for name, want := range map[string]string{"money": "123456", "str": "300.5", "myPlayerName": `"Renamed"`} {
		v, err := sd.Unique(name)
		if err != nil || v.Value_string() != want {
			t.Errorf("%v: %v, %v", name, v.Value_string(), err)
		}
	}
}

func Test_remove_and_convert(t *testing.T) {
	dir, _ := setup(t)

	if err := run(t, dir, "load", "_Sigrun.chr"); err != nil {
		t.Fatal(err)
	}
	sd, _ := readers.Load_file(filepath.Join(dir, "_Sigrun.chr"), readers.Default_options())
	tier := sd.Index["teleportUidsSize"][0]
	journal := sd.Index["questNote"][0]

	steps := [][]string{
		{"remove", "teleportUID", fmt.Sprintf("0x%x", tier), "1"},
		{"set", "teleportUidsSize", "3", fmt.Sprint(tier)},
		{"remove_block", fmt.Sprintf("0x%x", journal)},
		{"convert", "mobile"},
		{"save"},
	}
	for _, step := range steps {
		if err := run(t, dir, step...); err != nil {
			t.Fatalf("%v: %v", step, err)
		}
	}

	after, err := readers.Load_file(filepath.Join(dir, "_Sigrun.chr"), readers.Default_options())
	if err != nil {
		t.Fatal(err)
	}
	if after.Platform != types.PF_MOBILE {
		t.Errorf("platform %v", after.Platform)
	}
	if _, err := after.Unique("mySaveId"); err != nil {
		t.Error(err)
	}
	if _, err := after.Unique("questNote"); err == nil {
		t.Error("journal still there")
	}
	first := after.Block(after.Index["teleportUidsSize"][0])
	if first.Count("teleportUID") != 3 || first.Get("teleportUidsSize").Int != 3 {
		t.Errorf("tier 0 has %v teleports, size %v", first.Count("teleportUID"), first.Get("teleportUidsSize").Int)
	}
}

func Test_nothing_loaded(t *testing.T) {
	dir, _ := setup(t)
	if err := run(t, dir, "get", "money"); err == nil {
		t.Error("get without load succeeded")
	}
	if err := run(t, dir, "frobnicate"); err == nil {
		t.Error("unknown command succeeded")
	}
	if err := run(t, dir); err != nil {
		t.Errorf("help: %v", err)
	}
}
