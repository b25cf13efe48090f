package registry

import (
	"sort"
	"strings"
)

// DeriveInfo describes one trait the compiler can synthesize.
type DeriveInfo struct {
	Name string
	Desc string
}

// Derives is the curated registry of trait names accepted by @derive(...).
// The trait set is finite and curated, so dependency expansion is a fixed
// table plus closure computation, not dynamic dispatch. Matching is
// case-sensitive.
type Derives struct {
	infos    []DeriveInfo
	byName   map[string]int
	requires map[string][]string
}

// NewDerives builds the standard derive registry.
func NewDerives() *Derives {
	d := &Derives{
		byName: make(map[string]int),
		requires: map[string][]string{
			"Ord":  {"Eq"},
			"Hash": {"Eq"},
			"Copy": {"Clone"},
		},
	}
	for _, info := range []DeriveInfo{
		{"Show", "debug-style string representation"},
		{"Display", "user-facing string formatting"},
		{"Eq", "equality comparisons"},
		{"Ord", "ordering comparisons"},
		{"Hash", "hashing support for map/set keys"},
		{"Clone", "deep duplication"},
		{"Copy", "trivial-copy semantics for simple value types"},
		{"Default", "a default value constructor"},
		{"Serialize", "serialization support"},
		{"Deserialize", "deserialization support"},
		{"Validate", "validated construction via TypeName.new(...)"},
	} {
		d.byName[info.Name] = len(d.infos)
		d.infos = append(d.infos, info)
	}
	return d
}

// Known reports whether name is a registered derive.
func (d *Derives) Known(name string) bool {
	_, ok := d.byName[name]
	return ok
}

// Names returns the valid derive names, sorted.
func (d *Derives) Names() []string {
	out := make([]string, 0, len(d.infos))
	for _, info := range d.infos {
		out = append(out, info.Name)
	}
	sort.Strings(out)
	return out
}

// NamesList renders the valid-name set for diagnostics.
func (d *Derives) NamesList() string {
	return strings.Join(d.Names(), ", ")
}

// Closest returns the registered name nearest to the misspelling, or ""
// when nothing is within editing distance 2.
func (d *Derives) Closest(name string) string {
	return ClosestName(name, d.Names())
}

// Expand computes the dependency closure of the requested traits:
// an ordering trait implies equality, hashing implies equality, and the
// trivial-copy marker implies duplication. The result keeps request order
// and appends implied traits in deterministic order.
func (d *Derives) Expand(requested []string) []string {
	out := make([]string, 0, len(requested)+2)
	seen := make(map[string]bool, len(requested)+2)
	queue := make([]string, 0, len(requested))

	for _, name := range requested {
		if !d.Known(name) || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
		queue = append(queue, name)
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		for _, dep := range d.requires[name] {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			out = append(out, dep)
			queue = append(queue, dep)
		}
	}
	return out
}
