package refindex

import (
	"sort"

	"github.com/buildforge/depscope/pkg/project"
)

// ReferenceTable is a bidirectional many-to-many association between module
// IDs and resource keys. Both directions are kept consistent as one logical
// structure: a (module, key) pair is present in one index iff it is present in
// the other.
type ReferenceTable struct {
	byKey    map[ResourceKey]map[project.ModuleID]struct{}
	byModule map[project.ModuleID]map[ResourceKey]struct{}
}

// NewReferenceTable creates an empty table.
func NewReferenceTable() *ReferenceTable {
	return &ReferenceTable{
		byKey:    make(map[ResourceKey]map[project.ModuleID]struct{}),
		byModule: make(map[project.ModuleID]map[ResourceKey]struct{}),
	}
}

// Add inserts a (module, key) pair. It reports whether the key had zero
// referrers immediately before the insert. Inserting an already-present pair
// is a no-op returning false.
func (t *ReferenceTable) Add(id project.ModuleID, key ResourceKey) bool {
	mods, exists := t.byKey[key]
	if !exists {
		mods = make(map[project.ModuleID]struct{})
		t.byKey[key] = mods
	}
	if _, dup := mods[id]; dup {
		return false
	}
	first := len(mods) == 0
	mods[id] = struct{}{}

	keys, exists := t.byModule[id]
	if !exists {
		keys = make(map[ResourceKey]struct{})
		t.byModule[id] = keys
	}
	keys[key] = struct{}{}
	return first
}

// Remove deletes a (module, key) pair. It reports whether the key now has zero
// referrers. Removing an absent pair is a no-op returning false.
func (t *ReferenceTable) Remove(id project.ModuleID, key ResourceKey) bool {
	mods, exists := t.byKey[key]
	if !exists {
		return false
	}
	if _, present := mods[id]; !present {
		return false
	}
	delete(mods, id)
	last := len(mods) == 0
	if last {
		delete(t.byKey, key)
	}

	if keys, ok := t.byModule[id]; ok {
		delete(keys, key)
		if len(keys) == 0 {
			delete(t.byModule, id)
		}
	}
	return last
}

// HasReferrers reports whether any module currently references the key.
func (t *ReferenceTable) HasReferrers(key ResourceKey) bool {
	return len(t.byKey[key]) > 0
}

// ReferrerCount returns the number of modules referencing the key.
func (t *ReferenceTable) ReferrerCount(key ResourceKey) int {
	return len(t.byKey[key])
}

// Referrers returns the modules referencing the key, in stable order.
func (t *ReferenceTable) Referrers(key ResourceKey) []project.ModuleID {
	mods := t.byKey[key]
	out := make([]project.ModuleID, 0, len(mods))
	for id := range mods {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Keys returns every resource key referenced by the module.
func (t *ReferenceTable) Keys(id project.ModuleID) []ResourceKey {
	keys := t.byModule[id]
	out := make([]ResourceKey, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// KeysByKind returns every currently-referenced key of one kind.
func (t *ReferenceTable) KeysByKind(kind ResourceKind) []ResourceKey {
	out := make([]ResourceKey, 0)
	for k := range t.byKey {
		if k.Kind == kind {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// LevelInUse reports whether any referenced key of the given kind sits at the
// given level. Listener attachment is derived from this rather than from a
// separate counter, so the two can never diverge.
func (t *ReferenceTable) LevelInUse(kind ResourceKind, level string) bool {
	for k, mods := range t.byKey {
		if k.Kind == kind && k.Level == level && len(mods) > 0 {
			return true
		}
	}
	return false
}

// KindInUse reports whether any key of the given kind is referenced.
func (t *ReferenceTable) KindInUse(kind ResourceKind) bool {
	for k, mods := range t.byKey {
		if k.Kind == kind && len(mods) > 0 {
			return true
		}
	}
	return false
}

// CountByKind returns the number of distinct referenced keys per kind.
func (t *ReferenceTable) CountByKind(kind ResourceKind) int {
	n := 0
	for k := range t.byKey {
		if k.Kind == kind {
			n++
		}
	}
	return n
}

// Counts returns the referrer count of every referenced key.
func (t *ReferenceTable) Counts() map[ResourceKey]int {
	out := make(map[ResourceKey]int, len(t.byKey))
	for k, mods := range t.byKey {
		out[k] = len(mods)
	}
	return out
}

// Clear drops every entry.
func (t *ReferenceTable) Clear() {
	t.byKey = make(map[ResourceKey]map[project.ModuleID]struct{})
	t.byModule = make(map[project.ModuleID]map[ResourceKey]struct{})
}
