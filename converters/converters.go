package converters

// Moving a save between the desktop and mobile versions of the game.
//
// The two only differ in the width of wide strings and in mySaveId, which mobile
// saves carry right after the player name. Everything here is done with patches, so
// a conversion can be mixed freely with other edits and is only written on save.

import (
	"slices"

	"github.com/pkg/errors"

	"chrdig/patches"
	"chrdig/types"
	"chrdig/utils"
)

const SAVE_ID = "mySaveId"
const PLAYER_NAME = "myPlayerName"

// Convert_platform rewrites the pending state of t for target.
// Converting to the platform the table is already on does nothing.
func Convert_platform(t *patches.Table, target types.Platform) error {
	from := t.Platform()
	if from == target {
		return nil
	}
	sd := t.Savedata()

	var name *types.Variable
	if target == types.PF_MOBILE {
		var err error
		name, err = sd.Unique(PLAYER_NAME)
		if err != nil {
			return err
		}
	}

	wides, err := wide_strings(t, sd)
	if err != nil {
		return err
	}

	t.Set_platform(target)
	for _, w := range wides {
		err := t.Set_value(w.v, &types.Variable{Name: w.v.Name, Type: target.Wide_type(), Str: w.value})
		if err != nil {
			return err
		}
	}

	if target == types.PF_MOBILE {
		return add_save_id(t, sd, name)
	}
	return drop_save_id(t, sd)
}

type wide_string struct {
	v     *types.Variable
	value string
}

// wide_strings collects every wide string that is still going to be written, with its
// current value.
func wide_strings(t *patches.Table, sd *types.Savedata) ([]wide_string, error) {
	out := []wide_string{}
	starts := append([]int{types.HEADER_OFFSET}, sd.Order...)
	for _, start := range starts {
		b := sd.Block(start)
		if b == nil {
			continue
		}
		for _, v := range b.Records {
			if !v.Type.Is_wide() {
				continue
			}
			cur, err := t.Current(v)
			if errors.Is(err, types.ErrRemoved) {
				continue
			}
			if err != nil {
				return nil, err
			}
			out = append(out, wide_string{v, cur.Str})
		}
	}
	return out, nil
}

func add_save_id(t *patches.Table, sd *types.Savedata, name *types.Variable) error {
	// A mobile save converted earlier still has its own id; bring it back.
	existing := sd.All(SAVE_ID)
	for _, v := range existing {
		t.Restore_variable(v)
	}
	if len(existing) > 0 || slices.Contains(t.Inserted(name.End()), SAVE_ID) {
		return nil
	}

	id, _ := utils.Bytes_to_uid(utils.New_uid())
	return t.Insert_variable(name.End(), &types.Variable{Name: SAVE_ID, Type: types.VT_STRING, Str: id})
}

func drop_save_id(t *patches.Table, sd *types.Savedata) error {
	t.Drop_inserts(SAVE_ID)
	for _, v := range sd.All(SAVE_ID) {
		err := t.Remove_variable(v)
		if err != nil && !errors.Is(err, types.ErrRemoved) {
			return err
		}
	}
	return nil
}
