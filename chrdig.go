package main

// Character save editor
//
// example usage:
//
// chrdig load _0Sigrun/Player.chr
// chrdig get money
// chrdig set money 1000000
// chrdig set str 300
// chrdig set myPlayerName Brunhild
// chrdig get teleportUID
// chrdig remove teleportUID 0x1f3 2
// chrdig convert mobile
// chrdig save
//
// Edits are kept in chrdig.tmp between commands and only written by "save".
// The save directory is taken from --dir, then chrdig.ini, then the current directory.

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"chrdig/config"
	"chrdig/converters"
	"chrdig/patches"
	"chrdig/readers"
	"chrdig/save_watch"
	"chrdig/types"
	"chrdig/utils"
	"chrdig/writers"
)

// Evil global variables
var g_stash_filename = "chrdig.tmp"
var g_config_filename = config.DEFAULT_FILENAME

// split_args takes "--dir (dir)" off the front of the arguments.
func split_args(args []string) (string, []string) {
	if len(args) > 1 && args[0] == "--dir" {
		return args[1], args[2:]
	}
	return "", args
}

func get_dir(override string, cfg *config.Config) string {
	// dir from command line
	if override != "" {
		return override
	}

	//dir from ini file
	if cfg.Dir != "" {
		return cfg.Dir
	}

	wd, _ := os.Getwd()
	return wd
}

func reader_options(cfg *config.Config) readers.Options {
	opts := readers.Default_options()
	if cfg.Force_platform {
		opts.Platform = cfg.Platform
		opts.Detect = false
	}
	return opts
}

func main() {
	err := main2(os.Args[1:])
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main2(all_args []string) error {
	dir_override, args := split_args(all_args)

	cfg, err := config.Load(g_config_filename)
	if err != nil {
		return err
	}
	dir := get_dir(dir_override, cfg)

	arg := "help"
	if len(args) < 1 {
		fmt.Println("No args detected - falling back to \"help\", since you clearly need it...")
	} else {
		arg = args[0]
	}

	switch arg {
	case "help":
		help_text := []string{
			"Character Save File Editor",
			"",
			"Commands:",
			"help: display this text",
			"load (filename): load a file from the save directory",
			"list [filter]: list the variables in the loaded file",
			"dump: show every block and variable",
			"get (what) [block [n]]: display a variable",
			"set (what) (to) [block [n]]: set a variable",
			"remove (what) (block) [n]: remove a variable",
			"remove_block (block): remove a block and everything in it",
			"convert (desktop|mobile): convert the loaded file to another platform",
			"save: save the file (the original is kept as .old)",
			"watch: report saves made by the game",
			"",
			"Notes:",
			"   Blocks are given by start offset, e.g. 0x1f3.",
			"   A variable that appears more than once must be given with its block,",
			"and an index if the block has several of them.",
			"   It is usually not necessary to type the full name of something",
			"e.g. \"greatestmon\" will be recognized as \"greatestMonsterKilledName\".",
		}
		for _, ht := range help_text {
			fmt.Println(ht)
		}

	case "load":
		if len(args) < 2 {
			return errors.New("Load what?  Filename expected.")
		}

		full_filename := filepath.Join(dir, args[1])
		sd, err := readers.Load_file(full_filename, reader_options(cfg))
		if err != nil {
			return err
		}
		h := sd.Header
		fmt.Printf("Loaded %v (%v, level %v %v, %v blocks)\n", full_filename, sd.Platform, h.Level, h.Class, len(sd.Order))

		return stash(full_filename, patches.New(sd))

	case "list":
		_, table, err := retrieve(cfg)
		if err != nil {
			return err
		}
		filter := ""
		if len(args) > 1 {
			filter = strings.ToUpper(utils.Smash(args[1]))
		}
		for _, line := range list_variables(table.Savedata(), filter) {
			fmt.Println(line)
		}

	case "dump":
		_, table, err := retrieve(cfg)
		if err != nil {
			return err
		}
		for _, line := range dump(table) {
			fmt.Println(line)
		}

	case "get":
		if len(args) < 2 {
			return errors.New("Get what?  Try \"list\".")
		}
		_, table, err := retrieve(cfg)
		if err != nil {
			return err
		}
		lines, err := get(table, args[1], args[2:])
		if err != nil {
			return err
		}
		for _, line := range lines {
			fmt.Println(line)
		}

	case "set":
		if len(args) < 3 {
			return errors.New("Set what to what?  Usage: set (what) (to) [block [n]]")
		}
		filename, table, err := retrieve(cfg)
		if err != nil {
			return err
		}
		str, err := set(table, args[1], args[2], args[3:])
		if err != nil {
			return err
		}
		fmt.Println(str)
		return stash(filename, table)

	case "remove":
		if len(args) < 3 {
			return errors.New("Remove what?  Usage: remove (what) (block) [n]")
		}
		filename, table, err := retrieve(cfg)
		if err != nil {
			return err
		}
		v, err := resolve(table.Savedata(), args[1], args[2:])
		if err != nil {
			return err
		}
		err = table.Remove_variable(v)
		if err != nil {
			return err
		}
		fmt.Printf("%v at 0x%x removed\n", v.Display_name(), v.Key_offset)
		return stash(filename, table)

	case "remove_block":
		if len(args) < 2 {
			return errors.New("Remove which block?  Block start offset expected.")
		}
		filename, table, err := retrieve(cfg)
		if err != nil {
			return err
		}
		start, err := parse_offset(args[1])
		if err != nil {
			return err
		}
		err = table.Remove_block(start)
		if err != nil {
			return err
		}
		fmt.Printf("Block 0x%x removed\n", start)
		return stash(filename, table)

	case "convert":
		if len(args) < 2 {
			return errors.New("Convert to what?  desktop or mobile.")
		}
		target, err := types.Parse_platform(args[1])
		if err != nil {
			return err
		}
		filename, table, err := retrieve(cfg)
		if err != nil {
			return err
		}
		err = converters.Convert_platform(table, target)
		if err != nil {
			return err
		}
		fmt.Println("Converted to", target)
		return stash(filename, table)

	case "save":
		filename, table, err := retrieve(cfg)
		if err != nil {
			return err
		}
		return save(filename, table, cfg)

	case "watch":
		return watch(dir, cfg)

	default:
		return errors.New("Unknown command " + arg + " (try \"help\")")
	}

	return nil
}

func stash(filename string, table *patches.Table) error {
	f, err := os.Create(g_stash_filename)
	if err != nil {
		return err
	}
	defer f.Close()

	err = table.Save_stash(f, filename)
	if err != nil {
		return err
	}
	return f.Sync()
}

// retrieve loads the stashed file again and puts the stashed edits back on it.
func retrieve(cfg *config.Config) (string, *patches.Table, error) {
	f, err := os.Open(g_stash_filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, errors.New("Nothing loaded.  Use \"load\" first.")
		}
		return "", nil, err
	}
	defer f.Close()

	s, err := patches.Read_stash(f)
	if err != nil {
		return "", nil, err
	}
	sd, err := readers.Load_file(s.Filename, reader_options(cfg))
	if err != nil {
		return "", nil, err
	}
	table, err := s.Restore(sd)
	if err != nil {
		return "", nil, err
	}
	return s.Filename, table, nil
}

func save(filename string, table *patches.Table, cfg *config.Config) error {
	out, err := table.Build(cfg.Checksum)
	if err != nil {
		return err
	}

	// Don't write while the game is writing. The only way to know is to watch for a while.
	gate := save_watch.New_watcher(filepath.Dir(filename), cfg.Quiet)
	err = gate.Start_watching(nil)
	if err != nil {
		return err
	}
	defer gate.Stop_watching()
	if cfg.Quiet > 0 {
		fmt.Println("Making sure the game is not saving...")
		wait_quiet(gate, cfg.Quiet)
	}
	saver := &writers.Saver{Gate: gate.Is_saving}
	if gate.Is_saving() {
		return fmt.Errorf("%v: %w", filename, types.ErrSaveInProgress)
	}

	// Keep the original as .old; it is put back if the write fails.
	newname := ""
	if cfg.Backup {
		newname = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".old"
		err = os.Rename(filename, newname)
		if err != nil {
			return err
		}
		fmt.Println(filename, "renamed to", newname)
	}

	err = saver.Save(filename, out)
	if err != nil {
		if newname != "" {
			os.Rename(newname, filename)
		}
		return err
	}
	fmt.Println("New file written to", filename)

	err = os.Remove(g_stash_filename)
	if err != nil {
		return err
	}
	fmt.Println("Temporary data cleaned up")
	return nil
}

func parse_offset(s string) (int, error) {
	if strings.EqualFold(s, "header") {
		return types.HEADER_OFFSET, nil
	}
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bad block offset %q", s)
	}
	return int(n), nil
}

// match_name fuzzily matches input against every name and alias in the file.
func match_name(sd *types.Savedata, input string) (string, error) {
	candidates := make([]string, 0, len(sd.Index))
	for name := range sd.Index {
		candidates = append(candidates, name)
	}
	return utils.Fuzzy_match(candidates, input, "variable")
}

// resolve finds a single record from (what) [block [n]].
func resolve(sd *types.Savedata, what string, where []string) (*types.Variable, error) {
	name, err := match_name(sd, what)
	if err != nil {
		return nil, err
	}
	if len(where) == 0 {
		return sd.Unique(name)
	}
	block, err := parse_offset(where[0])
	if err != nil {
		return nil, err
	}
	n := 0
	if len(where) > 1 {
		n, err = strconv.Atoi(where[1])
		if err != nil {
			return nil, fmt.Errorf("bad index %q", where[1])
		}
	}
	return sd.Find(block, name, n)
}

func describe(table *patches.Table, v *types.Variable) string {
	where := fmt.Sprintf("[block 0x%x]", v.Block_offset)
	if v.Block_offset == types.HEADER_OFFSET {
		where = "[header]"
	}
	cur, err := table.Current(v)
	if err != nil {
		return fmt.Sprintf("%v %v: %v", v.Display_name(), where, err)
	}
	return fmt.Sprintf("%v %v (%v) = %v", v.Display_name(), where, cur.Type, cur.Value_string())
}

func get(table *patches.Table, what string, where []string) ([]string, error) {
	sd := table.Savedata()
	if len(where) > 0 {
		v, err := resolve(sd, what, where)
		if err != nil {
			return nil, err
		}
		return []string{describe(table, v)}, nil
	}

	name, err := match_name(sd, what)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, v := range sd.All(name) {
		out = append(out, describe(table, v))
	}
	return out, nil
}

// parse_value turns the command line into a value of the record's type.
func parse_value(v *types.Variable, to string) (*types.Variable, error) {
	nv := &types.Variable{Name: v.Name, Type: v.Type}
	switch v.Type {
	case types.VT_INT:
		i, err := strconv.ParseInt(to, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("%v needs an integer: %w", v.Display_name(), err)
		}
		nv.Int = int32(i)
	case types.VT_FLOAT:
		f, err := strconv.ParseFloat(to, 32)
		if err != nil {
			return nil, fmt.Errorf("%v needs a number: %w", v.Display_name(), err)
		}
		nv.Float = float32(f)
	case types.VT_STRING, types.VT_WSTRING16, types.VT_WSTRING32:
		nv.Str = to
	case types.VT_UID:
		id, err := utils.Uid_to_bytes(to)
		if err != nil {
			return nil, err
		}
		nv.Uid = id
	case types.VT_STREAM:
		data, err := hex.DecodeString(to)
		if err != nil {
			return nil, fmt.Errorf("%v needs hex bytes: %w", v.Display_name(), err)
		}
		nv.Stream = data
	default:
		return nil, fmt.Errorf("%v has type %v and can't be set", v.Display_name(), v.Type)
	}
	return nv, nil
}

func set(table *patches.Table, what string, to string, where []string) (string, error) {
	v, err := resolve(table.Savedata(), what, where)
	if err != nil {
		return "", err
	}
	nv, err := parse_value(v, to)
	if err != nil {
		return "", err
	}
	err = table.Set_value(v, nv)
	if err != nil {
		return "", err
	}
	return v.Display_name() + " set to " + nv.Value_string(), nil
}

func list_variables(sd *types.Savedata, filter string) []string {
	names := []string{}
	for name := range sd.Index {
		if filter == "" || strings.Contains(strings.ToUpper(utils.Smash(name)), filter) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := []string{}
	for _, name := range names {
		n := len(sd.All(name))
		if n == 1 {
			out = append(out, name)
		} else {
			out = append(out, fmt.Sprintf("%v (x%v in %v blocks)", name, n, len(sd.Index[name])))
		}
	}
	return out
}
