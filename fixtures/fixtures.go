package fixtures

// Synthetic character saves, for tests and for trying the editor without the game.

import (
	"encoding/binary"

	"chrdig/types"
	"chrdig/writers"
)

type Options struct {
	Platform       types.Platform
	Name           string
	Header_version int32
	Player_version int32
	// Write a checksum record into the header and fill it in.
	Checksum bool
	// Number of teleport UIDs in each difficulty tier.
	Teleports [3]int
	Str       float32
}

func Default() Options {
	return Options{
		Platform:       types.PF_DESKTOP,
		Name:           "Sigrún",
		Header_version: 2,
		Player_version: 5,
		Teleports:      [3]int{4, 2, 1},
		Str:            54,
	}
}

// Teleport_uid is the UID of the n-th teleport of a tier.
func Teleport_uid(tier int, n int) [16]byte {
	out := [16]byte{}
	binary.LittleEndian.PutUint32(out[0:], uint32(n+1))
	binary.LittleEndian.PutUint32(out[4:], uint32(tier+1))
	binary.LittleEndian.PutUint32(out[8:], 0x7e1e)
	binary.LittleEndian.PutUint32(out[12:], 0x90f7)
	return out
}

var Character_uid = [16]byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0, 4, 0, 0, 0}

// Mobile saves carry this in mySaveId.
const SAVE_ID = "1-2-3-4"

// header writes the header records and returns where the checksum value is, or -1.
func header(b *writers.Builder, opts Options) int {
	b.Int("headerVersion", opts.Header_version).
		String("playerCharacterClass", "Warrior").
		Uid("uniqueId", Character_uid).
		Stream("streamData", []byte{0xca, 0xfe, 0x01}).
		String("playerClassTag", "tagCClass01").
		Int("playerLevel", 12).
		Int("playerVersion", opts.Player_version)
	if !opts.Checksum {
		return -1
	}
	at := b.Len() + 4 + len("checksum")
	b.Int("checksum", 0)
	return at
}

func character(b *writers.Builder, opts Options) {
	b.Begin().Wide("myPlayerName", opts.Name, opts.Platform)
	if opts.Platform == types.PF_MOBILE {
		b.String("mySaveId", SAVE_ID)
	}
	b.Int("isInMainQuest", 1).
		Int("temp", 1). // difficulty
		Int("money", 31337).
		String("playerTexture", "").
		End()
}

func teleports(b *writers.Builder, opts Options) {
	b.Begin().Int("versionCheckTeleportInfo", 1)
	for tier, n := range opts.Teleports {
		b.Begin().Int("teleportUidsSize", int32(n))
		for i := 0; i < n; i++ {
			b.Uid("teleportUID", Teleport_uid(tier, i))
		}
		b.End()
	}
	b.End()
}

func stats(b *writers.Builder, opts Options) {
	b.Begin().
		Float("temp", opts.Str).
		Float("temp", 40).
		Float("temp", 50).
		Float("temp", 300).
		Float("temp", 300).
		Int("modifierPoints", 0).
		Wide("greatestMonsterKilledName", "Cyclops", opts.Platform).
		Int("numberOfKills", 10).
		End()
}

func skills(b *writers.Builder) {
	b.Begin().Int("max", 2)
	for _, s := range []string{"Skills/Defensive/Defensive.dbr", "Skills/Warfare/Warfare.dbr"} {
		b.Begin().String("skillName", s).Int("skillLevel", 1).Int("skillEnabled", 1).End()
	}
	b.End()
}

func journal(b *writers.Builder, opts Options) {
	b.Begin().
		Int("journalEntriesSize", 1).
		Wide("questNote", "Find the Oracle", opts.Platform).
		String("questTokenName", "").
		End()
}

func finish(b *writers.Builder, checksum_at int) []byte {
	out, err := b.Bytes()
	if err != nil {
		// Only happens if the fixture itself is broken.
		panic(err)
	}
	if checksum_at >= 0 {
		writers.Fix_checksum(out, checksum_at)
	}
	return out
}

// Character builds a small but complete save.
func Character(opts Options) []byte {
	b := &writers.Builder{}
	ck := header(b, opts)
	character(b, opts)
	teleports(b, opts)
	stats(b, opts)
	skills(b)
	journal(b, opts)
	return finish(b, ck)
}

// Big builds a save of exactly size bytes with about n nested blocks: a character
// block, stats, and an inventory of sacks full of items, padded with a stream.
func Big(opts Options, n int, size int) []byte {
	b := &writers.Builder{}
	ck := header(b, opts)
	character(b, opts)
	stats(b, opts)

	const per_sack = 999
	b.Begin().Int("itemPositionsSavedAsGridCoords", 1).Int("numberOfSacks", int32(n/per_sack+1))
	for made := 0; made < n; {
		b.Begin().Int("tempBool", 0)
		for i := 0; i < per_sack && made < n; i++ {
			b.Begin().Int("seed", int32(made)).End()
			made++
		}
		b.End()
	}
	b.End()

	// begin, "hotSlotBitmap" with its count, end and trailer
	pad := size - b.Len() - (len(types.BEGIN_MARKER) + 4 + len("hotSlotBitmap") + 4 + len(types.END_MARKER) + types.END_TRAILER)
	if pad >= 0 {
		b.Begin().Stream("hotSlotBitmap", make([]byte, pad)).End()
	}
	return finish(b, ck)
}
