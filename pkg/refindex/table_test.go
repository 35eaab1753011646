package refindex

import (
	"testing"

	"github.com/buildforge/depscope/pkg/project"
)

func TestReferenceTableAddReportsFirstReferrer(t *testing.T) {
	refs := NewReferenceTable()
	key := LibraryKey("project", "guava")

	if !refs.Add("mod-a", key) {
		t.Error("expected first insert to report a zero-to-one transition")
	}
	if refs.Add("mod-b", key) {
		t.Error("expected second insert to report no transition")
	}
	if refs.Add("mod-a", key) {
		t.Error("expected duplicate insert to be a no-op")
	}
	if got := refs.ReferrerCount(key); got != 2 {
		t.Errorf("expected 2 referrers, got %d", got)
	}
}

func TestReferenceTableRemoveReportsLastReferrer(t *testing.T) {
	refs := NewReferenceTable()
	key := SdkKey("corretto-17", "jdk")
	refs.Add("mod-a", key)
	refs.Add("mod-b", key)

	if refs.Remove("mod-a", key) {
		t.Error("expected removal with a remaining referrer to report no transition")
	}
	if !refs.Remove("mod-b", key) {
		t.Error("expected last removal to report a one-to-zero transition")
	}
	if refs.Remove("mod-b", key) {
		t.Error("expected removal of an absent pair to be a no-op")
	}
	if refs.HasReferrers(key) {
		t.Error("expected key to be gone after last removal")
	}
}

func TestReferenceTableBothDirectionsStayConsistent(t *testing.T) {
	refs := NewReferenceTable()
	lib := LibraryKey("project", "guava")
	sdk := SdkKey("corretto-17", "jdk")
	refs.Add("mod-a", lib)
	refs.Add("mod-a", sdk)
	refs.Add("mod-b", lib)

	if got := len(refs.Keys("mod-a")); got != 2 {
		t.Fatalf("expected 2 keys for mod-a, got %d", got)
	}
	if got := refs.Referrers(lib); len(got) != 2 || got[0] != "mod-a" || got[1] != "mod-b" {
		t.Fatalf("unexpected referrers for library key: %v", got)
	}

	refs.Remove("mod-a", lib)
	refs.Remove("mod-a", sdk)
	if got := len(refs.Keys("mod-a")); got != 0 {
		t.Errorf("expected mod-a to have no keys, got %d", got)
	}
	if !refs.HasReferrers(lib) {
		t.Error("expected mod-b's reference to survive")
	}
}

func TestReferenceTableOccupancyQueries(t *testing.T) {
	refs := NewReferenceTable()
	refs.Add("mod-a", LibraryKey("project", "guava"))
	refs.Add("mod-a", LibraryKey("application", "log4j"))
	refs.Add("mod-b", SdkKey("corretto-17", "jdk"))

	if !refs.LevelInUse(KindLibrary, "project") {
		t.Error("expected project level to be in use")
	}
	if refs.LevelInUse(KindLibrary, "module") {
		t.Error("expected module level to be unused")
	}
	if !refs.KindInUse(KindSdk) {
		t.Error("expected sdk kind to be in use")
	}
	if got := refs.CountByKind(KindLibrary); got != 2 {
		t.Errorf("expected 2 distinct library keys, got %d", got)
	}

	refs.Remove("mod-b", SdkKey("corretto-17", "jdk"))
	if refs.KindInUse(KindSdk) {
		t.Error("expected sdk kind to be unused after last removal")
	}
}

func TestReferenceTableClear(t *testing.T) {
	refs := NewReferenceTable()
	refs.Add("mod-a", LibraryKey("project", "guava"))
	refs.Clear()

	if refs.HasReferrers(LibraryKey("project", "guava")) {
		t.Error("expected cleared table to hold nothing")
	}
	if len(refs.Counts()) != 0 {
		t.Error("expected no counts after clear")
	}
}

func TestKeyForTrackedKinds(t *testing.T) {
	cases := []struct {
		item    project.DependencyItem
		tracked bool
		key     ResourceKey
	}{
		{project.ModuleLocalLibrary{Name: "gen"}, false, LibraryKey("module", "gen")},
		{project.SharedLibrary{Level: "project", Name: "guava"}, true, LibraryKey("project", "guava")},
		{project.NamedSdk{Name: "corretto-17", Type: "jdk"}, true, SdkKey("corretto-17", "jdk")},
		{project.InheritedSdk{}, true, InheritedSdkKey()},
	}
	for _, tc := range cases {
		key, tracked := keyFor(tc.item)
		if tracked != tc.tracked || key != tc.key {
			t.Errorf("keyFor(%s) = (%v, %v), want (%v, %v)", tc.item, key, tracked, tc.key, tc.tracked)
		}
	}
}

func TestModuleLocalKeyDetection(t *testing.T) {
	if !LibraryKey("module", "gen").IsModuleLocal() {
		t.Error("expected module-level library key to be module-local")
	}
	if LibraryKey("project", "guava").IsModuleLocal() {
		t.Error("expected project-level library key to not be module-local")
	}
	if InheritedSdkKey().IsModuleLocal() {
		t.Error("expected sdk key to not be module-local")
	}
}
