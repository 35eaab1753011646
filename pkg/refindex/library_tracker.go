package refindex

import (
	"github.com/sirupsen/logrus"

	"github.com/buildforge/depscope/pkg/project"
	"github.com/buildforge/depscope/pkg/registry"
)

// libraryTracker maintains reference-table entries for shared-library
// dependency items and surfaces registry-level events for them.
//
// A table listener is attached the first time any module references a library
// at that level and detached when the level's last reference goes away. The
// watched set holds every library identity for which an unpaired
// DependencyAdded has been emitted; it is what keeps a rename from producing
// a spurious remove/add pair when the rewrite flows back through the index.
type libraryTracker struct {
	tables *registry.LibraryTables
	refs   *ReferenceTable
	events *dispatcher
	model  *project.Model
	log    *logrus.Logger

	attached map[string]*registry.LibraryTable
	watched  map[*registry.Library]struct{}
}

func newLibraryTracker(tables *registry.LibraryTables, refs *ReferenceTable, events *dispatcher, model *project.Model, log *logrus.Logger) *libraryTracker {
	t := &libraryTracker{
		tables:   tables,
		refs:     refs,
		events:   events,
		model:    model,
		log:      log,
		attached: make(map[string]*registry.LibraryTable),
		watched:  make(map[*registry.Library]struct{}),
	}
	// A table can be registered after modules already reference its level;
	// attach immediately so libraries appearing in it are observed.
	tables.OnRegister(func(table *registry.LibraryTable) {
		level := table.Level()
		if !t.refs.LevelInUse(KindLibrary, level) {
			return
		}
		if _, ok := t.attached[level]; ok {
			return
		}
		table.AddListener(t)
		t.attached[level] = table
		t.log.WithField("level", level).Debug("attached library table listener")
	})
	return t
}

func (t *libraryTracker) track(id project.ModuleID, dep project.SharedLibrary) {
	key := LibraryKey(dep.Level, dep.Name)
	first := t.refs.Add(id, key)

	table := t.tables.Table(dep.Level)
	if table == nil {
		// Tracked structurally; events start once the table is registered.
		t.log.WithFields(logrus.Fields{
			"level":  dep.Level,
			"name":   dep.Name,
			"module": id,
		}).Debug("no library table registered for level, dependency tracked unresolved")
		return
	}

	if _, ok := t.attached[dep.Level]; !ok {
		table.AddListener(t)
		t.attached[dep.Level] = table
		t.log.WithField("level", dep.Level).Debug("attached library table listener")
	}

	lib := table.Get(dep.Name)
	if lib == nil {
		t.log.WithFields(logrus.Fields{
			"level": dep.Level,
			"name":  dep.Name,
		}).Debug("library not present in table, dependency tracked unresolved")
		return
	}

	if first {
		if _, already := t.watched[lib]; !already {
			t.watched[lib] = struct{}{}
			t.events.dependencyAdded(lib)
		}
	}
}

func (t *libraryTracker) untrack(id project.ModuleID, dep project.SharedLibrary) {
	key := LibraryKey(dep.Level, dep.Name)
	last := t.refs.Remove(id, key)

	table := t.tables.Table(dep.Level)
	if table != nil && last {
		if lib := table.Get(dep.Name); lib != nil {
			// The unpaired DependencyAdded is matched by name, not identity:
			// the watched entry may belong to an older object that was removed
			// and re-added under the same name, and the pairing closes against
			// whatever object currently answers to it.
			if t.dropWatchedByName(dep.Level, dep.Name) {
				t.events.dependencyRemoved(lib)
			}
		} else {
			// The object is gone from the table; its disappearance was already
			// surfaced as ObservedRemoved, so the stale entry clears silently.
			t.dropWatchedByName(dep.Level, dep.Name)
		}
	}

	if table != nil && !t.refs.LevelInUse(KindLibrary, dep.Level) {
		if _, ok := t.attached[dep.Level]; ok {
			table.RemoveListener(t)
			delete(t.attached, dep.Level)
			t.log.WithField("level", dep.Level).Debug("detached library table listener")
		}
	}
}

// dropWatchedByName removes every watched entry currently answering to the
// given name and reports whether any was present.
func (t *libraryTracker) dropWatchedByName(level, name string) bool {
	dropped := false
	for lib := range t.watched {
		if lib.Level() == level && lib.Name() == name {
			delete(t.watched, lib)
			dropped = true
		}
	}
	return dropped
}

// LibraryAdded implements registry.LibraryListener. A library appearing after
// it was declared is surfaced to observers; the referrer count saw no
// transition, so no dependency event fires.
func (t *libraryTracker) LibraryAdded(lib *registry.Library) {
	if t.refs.HasReferrers(LibraryKey(lib.Level(), lib.Name())) {
		t.events.observedAdded(lib)
	}
}

// LibraryRemoved implements registry.LibraryListener.
func (t *libraryTracker) LibraryRemoved(lib *registry.Library) {
	if t.refs.HasReferrers(LibraryKey(lib.Level(), lib.Name())) {
		t.events.observedRemoved(lib)
	}
}

// LibraryRenamed implements registry.LibraryListener. Every module referencing
// the old name gets its dependency record rewritten in one transactional model
// edit. The table is not touched here: the model's change notification flows
// back through the index as an ordinary edit and re-derives it, leaving the
// net reference count invariant.
func (t *libraryTracker) LibraryRenamed(lib *registry.Library, oldName string) {
	oldKey := LibraryKey(lib.Level(), oldName)
	referrers := t.refs.Referrers(oldKey)
	if len(referrers) == 0 {
		return
	}

	rewrites := make(map[project.ModuleID][]project.DependencyItem, len(referrers))
	for _, id := range referrers {
		mod, ok := t.model.Get(id)
		if !ok {
			continue
		}
		deps := make([]project.DependencyItem, len(mod.Dependencies))
		for i, item := range mod.Dependencies {
			if sl, isShared := item.(project.SharedLibrary); isShared &&
				sl.Level == lib.Level() && sl.Name == oldName {
				deps[i] = project.SharedLibrary{Level: sl.Level, Name: lib.Name()}
				continue
			}
			deps[i] = item
		}
		rewrites[id] = deps
	}

	t.log.WithFields(logrus.Fields{
		"level":    lib.Level(),
		"old_name": oldName,
		"new_name": lib.Name(),
		"modules":  len(rewrites),
	}).Info("propagating library rename to dependency records")

	if err := t.model.RewriteDependencies(rewrites); err != nil {
		t.log.WithError(err).Error("library rename propagation failed")
	}
}

// dispose emits a final DependencyRemoved for every still-watched library,
// detaches all table listeners and clears state. Safe to call when nothing was
// ever tracked.
func (t *libraryTracker) dispose() {
	for lib := range t.watched {
		t.events.dependencyRemoved(lib)
	}
	t.watched = make(map[*registry.Library]struct{})

	for level, table := range t.attached {
		table.RemoveListener(t)
		delete(t.attached, level)
	}
}
