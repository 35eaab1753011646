package registry

import "fmt"

// Library table levels. Module-level libraries are owned by a single module and
// never appear in any table here.
const (
	LevelProject     = "project"
	LevelApplication = "application"
	LevelModule      = "module"
)

// Library is one shared library object. Its identity is the object itself;
// the name can change over its lifetime via Rename.
type Library struct {
	name  string
	level string
}

// Name returns the library's current name.
func (l *Library) Name() string { return l.name }

// Level returns the level of the table owning this library.
func (l *Library) Level() string { return l.level }

// ResourceName implements the refindex resource contract.
func (l *Library) ResourceName() string { return l.name }

// ResourceKindName implements the refindex resource contract.
func (l *Library) ResourceKindName() string { return "library" }

// LibraryListener observes mutations of one library table.
type LibraryListener interface {
	LibraryAdded(lib *Library)
	LibraryRemoved(lib *Library)
	LibraryRenamed(lib *Library, oldName string)
}

// LibraryTable is the set of shared libraries at one level.
type LibraryTable struct {
	level     string
	byName    map[string]*Library
	listeners []LibraryListener
}

// NewLibraryTable creates an empty table for the given level.
func NewLibraryTable(level string) *LibraryTable {
	return &LibraryTable{
		level:  level,
		byName: make(map[string]*Library),
	}
}

// Level returns the level this table serves.
func (t *LibraryTable) Level() string { return t.level }

// Get returns the library with the given name, or nil.
func (t *LibraryTable) Get(name string) *Library {
	return t.byName[name]
}

// Libraries returns every library in the table.
func (t *LibraryTable) Libraries() []*Library {
	out := make([]*Library, 0, len(t.byName))
	for _, lib := range t.byName {
		out = append(out, lib)
	}
	return out
}

// Add creates a library under the given name.
func (t *LibraryTable) Add(name string) (*Library, error) {
	if name == "" {
		return nil, fmt.Errorf("library name is required")
	}
	if _, exists := t.byName[name]; exists {
		return nil, fmt.Errorf("library %q already exists at level %q", name, t.level)
	}

	lib := &Library{name: name, level: t.level}
	t.byName[name] = lib
	for _, l := range t.snapshotListeners() {
		l.LibraryAdded(lib)
	}
	return lib, nil
}

// Remove deletes the library with the given name.
func (t *LibraryTable) Remove(name string) error {
	lib, exists := t.byName[name]
	if !exists {
		return fmt.Errorf("library %q not found at level %q", name, t.level)
	}

	delete(t.byName, name)
	for _, l := range t.snapshotListeners() {
		l.LibraryRemoved(lib)
	}
	return nil
}

// Rename changes a library's name in place. The object keeps its identity;
// listeners receive the old name alongside it.
func (t *LibraryTable) Rename(oldName, newName string) error {
	lib, exists := t.byName[oldName]
	if !exists {
		return fmt.Errorf("library %q not found at level %q", oldName, t.level)
	}
	if newName == "" {
		return fmt.Errorf("library name is required")
	}
	if _, taken := t.byName[newName]; taken {
		return fmt.Errorf("library %q already exists at level %q", newName, t.level)
	}

	delete(t.byName, oldName)
	lib.name = newName
	t.byName[newName] = lib
	for _, l := range t.snapshotListeners() {
		l.LibraryRenamed(lib, oldName)
	}
	return nil
}

// AddListener subscribes a listener to table mutations.
func (t *LibraryTable) AddListener(l LibraryListener) {
	t.listeners = append(t.listeners, l)
}

// RemoveListener unsubscribes a previously added listener.
func (t *LibraryTable) RemoveListener(l LibraryListener) {
	for i, existing := range t.listeners {
		if existing == l {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return
		}
	}
}

// snapshotListeners copies the listener list so callbacks may attach or detach
// listeners without corrupting an in-flight dispatch.
func (t *LibraryTable) snapshotListeners() []LibraryListener {
	out := make([]LibraryListener, len(t.listeners))
	copy(out, t.listeners)
	return out
}

// LibraryTables resolves a level to its library table.
type LibraryTables struct {
	byLevel map[string]*LibraryTable
	hooks   []func(*LibraryTable)
}

// NewLibraryTables creates an empty registrar.
func NewLibraryTables() *LibraryTables {
	return &LibraryTables{byLevel: make(map[string]*LibraryTable)}
}

// OnRegister runs fn for every table registered from now on. Re-registering an
// existing level does not fire.
func (r *LibraryTables) OnRegister(fn func(*LibraryTable)) {
	r.hooks = append(r.hooks, fn)
}

// Register creates (or returns) the table for a level.
func (r *LibraryTables) Register(level string) *LibraryTable {
	if t, ok := r.byLevel[level]; ok {
		return t
	}
	t := NewLibraryTable(level)
	r.byLevel[level] = t
	for _, fn := range r.hooks {
		fn(t)
	}
	return t
}

// Table returns the table for a level, or nil when none is registered. A nil
// result models absence: dependencies naming an unknown level are tracked
// structurally but produce no events until the table appears.
func (r *LibraryTables) Table(level string) *LibraryTable {
	return r.byLevel[level]
}

// Tables returns every registered table.
func (r *LibraryTables) Tables() []*LibraryTable {
	out := make([]*LibraryTable, 0, len(r.byLevel))
	for _, t := range r.byLevel {
		out = append(out, t)
	}
	return out
}
