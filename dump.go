package main

import (
	"fmt"
	"time"

	"chrdig/config"
	"chrdig/patches"
	"chrdig/save_watch"
	"chrdig/types"
)

// dump lists the header and every block, children indented under their parents.
func dump(table *patches.Table) []string {
	sd := table.Savedata()
	h := sd.Header
	out := []string{}

	out = append(out, fmt.Sprintf("File size: %v (%v)", len(sd.Buf), sd.Platform))
	out = append(out, fmt.Sprintf("Header version %v, player version %v", h.Version, h.Player_version))
	if h.Has_checksum {
		out = append(out, fmt.Sprintf("Checksum: %08x at 0x%x", h.Checksum, h.Checksum_offset))
	}
	if n := table.Len(); n > 0 {
		out = append(out, fmt.Sprintf("Pending edits: %v", n))
	}
	out = append(out, "")

	out = append(out, dump_block(table, sd.Header_block(), "Header")...)
	for _, start := range sd.Top_level() {
		out = append(out, dump_tree(table, start)...)
	}
	return out
}

func dump_tree(table *patches.Table, start int) []string {
	sd := table.Savedata()
	b := sd.Block(start)
	out := dump_block(table, b, fmt.Sprintf("Block 0x%x-0x%x (%v)", b.Start, b.End, b.Type()))

	for _, child := range b.Children {
		sub := dump_tree(table, child)
		for k := range sub {
			sub[k] = "   " + sub[k]
		}
		out = append(out, sub...)
	}
	return out
}

func dump_block(table *patches.Table, b *types.Block, title string) []string {
	out := []string{title}
	for _, v := range b.Records {
		cur, err := table.Current(v)
		if err != nil {
			out = append(out, fmt.Sprintf("   %v: %v", v.Key_offset, err))
			continue
		}
		out = append(out, fmt.Sprintf("   %v: %v = %v", v.Key_offset, v.Display_name(), cur.Value_string()))
	}
	return out
}

// wait_quiet returns once the watcher has seen no save for a whole quiet period.
func wait_quiet(w save_watch.Save_watch, quiet time.Duration) {
	time.Sleep(quiet)
	for w.Is_saving() {
		time.Sleep(quiet / 4)
	}
}

// watch reports every save the game makes, until killed.
func watch(dir string, cfg *config.Config) error {
	w := save_watch.New_watcher(dir, cfg.Quiet)
	saves := make(chan string)
	err := w.Start_watching(saves)
	if err != nil {
		return err
	}
	defer w.Stop_watching()

	fmt.Println("Watching", dir)
	for filename := range saves {
		fmt.Println(time.Now().Format(time.TimeOnly), "game saved", filename)
	}
	return nil
}
