package tables

import (
	"sort"
	"sync"

	"chrdig/types"
)

type Entry struct {
	Type       types.VariableType
	Block_type types.BlockType
	// Non-empty for names reused with different types; Type is then the first variant.
	Variants []types.VariableType
}

func (e Entry) Is_multiple() bool {
	return len(e.Variants) > 1
}

// Registry maps record names to their types for one platform.
// A Registry is immutable once built.
type Registry struct {
	platform types.Platform
	entries  map[string]Entry
}

func New(p types.Platform) *Registry {
	r := &Registry{platform: p, entries: map[string]Entry{}}
	for _, group := range shared {
		for name, vt := range group.vars {
			if vt == wide {
				vt = p.Wide_type()
			}
			r.entries[name] = Entry{Type: vt, Block_type: group.block}
		}
	}
	for name, m := range multiple {
		r.entries[name] = Entry{Type: m.variants[0], Block_type: m.block, Variants: m.variants}
	}
	if p == types.PF_MOBILE {
		for name, m := range mobile_only {
			r.entries[name] = Entry{Type: m.vtype, Block_type: m.block}
		}
	}
	return r
}

var (
	desktop = sync.OnceValue(func() *Registry { return New(types.PF_DESKTOP) })
	mobile  = sync.OnceValue(func() *Registry { return New(types.PF_MOBILE) })
)

func Desktop() *Registry { return desktop() }
func Mobile() *Registry  { return mobile() }

func For(p types.Platform) *Registry {
	if p == types.PF_MOBILE {
		return Mobile()
	}
	return Desktop()
}

func (r *Registry) Platform() types.Platform {
	return r.platform
}

// Lookup fails with *types.InvalidVariableError when name is unknown on this platform.
func (r *Registry) Lookup(name string) (Entry, error) {
	e, ok := r.entries[name]
	if !ok {
		return Entry{}, &types.InvalidVariableError{Name: name, Platform: r.platform, Offset: -1}
	}
	return e, nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

func (r *Registry) Len() int {
	return len(r.entries)
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.entries))
	for n := range r.entries {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Positional_rule gives meaning to a fixed-size run of same-named records in one block.
type Positional_rule struct {
	Name    string
	Count   int
	Aliases []string
	Type    types.VariableType
}

// Positional finds the rule for count occurrences of name within a single block.
func Positional(name string, count int) (Positional_rule, bool) {
	for _, rule := range positional {
		if rule.Name == name && rule.Count == count {
			return rule, true
		}
	}
	return Positional_rule{}, false
}

// Aliases lists every positional alias, for name completion.
func Aliases() []string {
	out := []string{}
	for _, rule := range positional {
		out = append(out, rule.Aliases...)
	}
	return out
}
