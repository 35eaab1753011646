package project

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ModuleID is the stable identity of a module. It is assigned when the module
// is first declared and survives every later edit of the module.
type ModuleID string

// NewModuleID allocates a fresh module identifier.
func NewModuleID() ModuleID {
	return ModuleID(uuid.New().String())
}

// Module is one build module and its declared dependencies.
type Module struct {
	ID           ModuleID
	Name         string
	Dependencies []DependencyItem
}

func (m *Module) clone() *Module {
	c := &Module{ID: m.ID, Name: m.Name}
	if len(m.Dependencies) > 0 {
		c.Dependencies = make([]DependencyItem, len(m.Dependencies))
		copy(c.Dependencies, m.Dependencies)
	}
	return c
}

// ModuleChange describes one module touched by a committed batch. Old is nil
// for an added module, New is nil for a removed one, both are set for an edit.
type ModuleChange struct {
	Old *Module
	New *Module
}

// ChangeEvent carries every module touched by one committed batch.
type ChangeEvent struct {
	Modules []ModuleChange
}

// ChangeHandler receives committed change events. Handlers run synchronously
// while the model's write lock is held, so they must not apply further edits
// from within the callback; schedule a follow-up batch instead.
type ChangeHandler func(ChangeEvent)

// Batch is one transactional set of model edits. The whole batch commits
// atomically and produces a single ChangeEvent.
type Batch struct {
	Add    []Module
	Remove []ModuleID
	Update []Module
}

func (b Batch) empty() bool {
	return len(b.Add) == 0 && len(b.Remove) == 0 && len(b.Update) == 0
}

type handlerEntry struct {
	id int
	fn ChangeHandler
}

// Model owns the declared modules and their dependency records.
type Model struct {
	mu       sync.RWMutex
	modules  map[ModuleID]*Module
	handlers []handlerEntry
	nextID   int
	log      *logrus.Logger
}

// NewModel creates an empty structural model.
func NewModel(log *logrus.Logger) *Model {
	if log == nil {
		log = logrus.New()
	}
	return &Model{
		modules: make(map[ModuleID]*Module),
		log:     log,
	}
}

// Subscribe registers a change handler and returns a function that removes it.
// Handlers are invoked in registration order. Past events are not replayed.
func (m *Model) Subscribe(h ChangeHandler) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.handlers = append(m.handlers, handlerEntry{id: id, fn: h})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, e := range m.handlers {
			if e.id == id {
				m.handlers = append(m.handlers[:i], m.handlers[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns a copy of every declared module, sorted by name.
func (m *Model) Snapshot() []Module {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// WithSnapshot runs fn with a module snapshot while the read lock is held, so
// anything fn reads alongside the snapshot observes the same committed state.
func (m *Model) WithSnapshot(fn func(modules []Module)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn(m.snapshotLocked())
}

func (m *Model) snapshotLocked() []Module {
	out := make([]Module, 0, len(m.modules))
	for _, mod := range m.modules {
		out = append(out, *mod.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns a copy of the module with the given ID.
func (m *Model) Get(id ModuleID) (Module, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mod, ok := m.modules[id]
	if !ok {
		return Module{}, false
	}
	return *mod.clone(), true
}

// FindByName returns a copy of the module with the given name.
func (m *Model) FindByName(name string) (Module, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, mod := range m.modules {
		if mod.Name == name {
			return *mod.clone(), true
		}
	}
	return Module{}, false
}

// ReadLocked runs fn while holding the model's read lock. Queries that must
// observe fully-committed state only (and never a half-applied batch) go
// through here when called from outside a change handler.
func (m *Model) ReadLocked(fn func()) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn()
}

// Apply commits a batch of edits atomically. The batch is validated before any
// part of it is applied; on success a single ChangeEvent covering every touched
// module is delivered to all subscribed handlers, in registration order, while
// the write lock is still held.
func (m *Model) Apply(batch Batch) error {
	if batch.empty() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, mod := range batch.Add {
		if mod.ID == "" {
			return fmt.Errorf("add module %q: missing module ID", mod.Name)
		}
		if _, exists := m.modules[mod.ID]; exists {
			return fmt.Errorf("add module %q: ID %s already declared", mod.Name, mod.ID)
		}
	}
	for _, id := range batch.Remove {
		if _, exists := m.modules[id]; !exists {
			return fmt.Errorf("remove module: unknown ID %s", id)
		}
	}
	for _, mod := range batch.Update {
		if _, exists := m.modules[mod.ID]; !exists {
			return fmt.Errorf("update module %q: unknown ID %s", mod.Name, mod.ID)
		}
	}

	ev := ChangeEvent{}

	for _, mod := range batch.Add {
		stored := mod.clone()
		m.modules[mod.ID] = stored
		ev.Modules = append(ev.Modules, ModuleChange{New: stored.clone()})
	}
	for _, id := range batch.Remove {
		old := m.modules[id]
		delete(m.modules, id)
		ev.Modules = append(ev.Modules, ModuleChange{Old: old})
	}
	for _, mod := range batch.Update {
		old := m.modules[mod.ID]
		stored := mod.clone()
		m.modules[mod.ID] = stored
		ev.Modules = append(ev.Modules, ModuleChange{Old: old, New: stored.clone()})
	}

	m.log.WithFields(logrus.Fields{
		"added":   len(batch.Add),
		"removed": len(batch.Remove),
		"updated": len(batch.Update),
	}).Debug("structural model batch committed")

	m.notify(ev)
	return nil
}

// RewriteDependencies replaces the dependency list of every listed module in
// one atomic batch. This is the primitive rename propagation uses: the affected
// module set is computed first, then every record is rewritten in a single
// transaction so observers never see a half-renamed state.
func (m *Model) RewriteDependencies(rewrites map[ModuleID][]DependencyItem) error {
	if len(rewrites) == 0 {
		return nil
	}

	batch := Batch{}
	m.mu.RLock()
	for id, deps := range rewrites {
		mod, ok := m.modules[id]
		if !ok {
			m.mu.RUnlock()
			return fmt.Errorf("rewrite dependencies: unknown module ID %s", id)
		}
		updated := mod.clone()
		updated.Dependencies = deps
		batch.Update = append(batch.Update, *updated)
	}
	m.mu.RUnlock()

	// Deterministic ordering keeps the change event stable across runs.
	sort.Slice(batch.Update, func(i, j int) bool {
		return batch.Update[i].Name < batch.Update[j].Name
	})

	return m.Apply(batch)
}

// notify is called with the write lock held.
func (m *Model) notify(ev ChangeEvent) {
	handlers := make([]handlerEntry, len(m.handlers))
	copy(handlers, m.handlers)
	for _, e := range handlers {
		e.fn(ev)
	}
}
