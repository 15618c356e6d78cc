package tables

import (
	"errors"
	"testing"

	"chrdig/types"
)

func Test_platform_differences(t *testing.T) {
	d, m := Desktop(), Mobile()

	for _, name := range []string{"myPlayerName", "greatestMonsterKilledName", "questNote"} {
		de, err := d.Lookup(name)
		if err != nil || de.Type != types.VT_WSTRING16 {
			t.Errorf("desktop %v: %v, %v", name, de.Type, err)
		}
		me, err := m.Lookup(name)
		if err != nil || me.Type != types.VT_WSTRING32 {
			t.Errorf("mobile %v: %v, %v", name, me.Type, err)
		}
	}

	if d.Has("mySaveId") {
		t.Error("desktop knows mySaveId")
	}
	e, err := m.Lookup("mySaveId")
	if err != nil || e.Type != types.VT_STRING || e.Block_type != types.BT_CHARACTER {
		t.Errorf("mobile mySaveId: %+v, %v", e, err)
	}

	// Everything else is the same.
	if m.Len() != d.Len()+1 {
		t.Errorf("mobile has %v entries, desktop %v", m.Len(), d.Len())
	}
	for _, name := range d.Names() {
		de, _ := d.Lookup(name)
		me, err := m.Lookup(name)
		if err != nil {
			t.Errorf("%v missing on mobile", name)
			continue
		}
		if !de.Type.Is_wide() && de.Type != me.Type {
			t.Errorf("%v: desktop %v, mobile %v", name, de.Type, me.Type)
		}
	}
}

func Test_lookup_miss(t *testing.T) {
	_, err := Desktop().Lookup("noSuchThing")
	var ive *types.InvalidVariableError
	if !errors.As(err, &ive) {
		t.Fatalf("expected InvalidVariableError, got %v", err)
	}
	if ive.Name != "noSuchThing" || ive.Platform != types.PF_DESKTOP {
		t.Errorf("error names %v on %v", ive.Name, ive.Platform)
	}
	if !errors.Is(err, types.ErrUnknownVariable) {
		t.Error("not an ErrUnknownVariable")
	}
}

func Test_registries_are_shared(t *testing.T) {
	if Desktop() != Desktop() || Mobile() != For(types.PF_MOBILE) || Desktop() == Mobile() {
		t.Error("registries are rebuilt or mixed up")
	}
	if New(types.PF_MOBILE) == Mobile() {
		t.Error("New returned the shared registry")
	}
}

func Test_multiple(t *testing.T) {
	e, err := Desktop().Lookup("temp")
	if err != nil {
		t.Fatal(err)
	}
	if !e.Is_multiple() || e.Type != types.VT_FLOAT {
		t.Errorf("temp: %+v", e)
	}
	for _, vt := range e.Variants {
		if vt.Width() != 4 {
			t.Errorf("temp variant %v is %v bytes wide", vt, vt.Width())
		}
	}
}

func Test_positional(t *testing.T) {
	rule, ok := Positional("temp", 5)
	if !ok || rule.Type != types.VT_FLOAT || len(rule.Aliases) != 5 || rule.Aliases[0] != "str" || rule.Aliases[4] != "mana" {
		t.Errorf("temp x5: %+v, %v", rule, ok)
	}
	rule, ok = Positional("temp", 1)
	if !ok || rule.Type != types.VT_INT || rule.Aliases[0] != "difficulty" {
		t.Errorf("temp x1: %+v, %v", rule, ok)
	}
	if _, ok := Positional("temp", 3); ok {
		t.Error("temp x3 has a rule")
	}
	if _, ok := Positional("money", 1); ok {
		t.Error("money has a rule")
	}

	for _, rule := range positional {
		if len(rule.Aliases) != rule.Count {
			t.Errorf("%v x%v has %v aliases", rule.Name, rule.Count, len(rule.Aliases))
		}
	}
}

func Test_no_wide_placeholders_left(t *testing.T) {
	for _, r := range []*Registry{Desktop(), Mobile()} {
		for _, name := range r.Names() {
			e, _ := r.Lookup(name)
			if e.Type == types.VT_UNKNOWN {
				t.Errorf("%v: %v has no type", r.Platform(), name)
			}
		}
	}
}
