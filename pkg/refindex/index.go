package refindex

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/buildforge/depscope/pkg/observability"
	"github.com/buildforge/depscope/pkg/project"
	"github.com/buildforge/depscope/pkg/registry"
)

// Index is the dependency index orchestrator. It subscribes to the structural
// model's change stream, routes dependency items to the library and SDK
// trackers, and owns the public query and listener surface.
type Index struct {
	model   *project.Model
	refs    *ReferenceTable
	events  *dispatcher
	libs    *libraryTracker
	sdks    *sdkTracker
	log     *logrus.Logger
	metrics *observability.Metrics

	unsubscribe func()
	disposed    bool
}

// New creates an index over the given model and registries. Call Setup once
// before trusting queries or incremental updates.
func New(model *project.Model, libTables *registry.LibraryTables, sdkTable *registry.SdkTable, log *logrus.Logger, metrics *observability.Metrics) *Index {
	if log == nil {
		log = logrus.New()
	}
	refs := NewReferenceTable()
	events := newDispatcher(metrics)
	return &Index{
		model:   model,
		refs:    refs,
		events:  events,
		libs:    newLibraryTracker(libTables, refs, events, model, log),
		sdks:    newSdkTracker(sdkTable, refs, events, model, log),
		log:     log,
		metrics: metrics,
	}
}

// AddListener registers an observer for dependency and observed events.
// Listeners may be added at any time; past events are not replayed.
func (ix *Index) AddListener(l Listener) {
	ix.events.addListener(l)
}

// Setup performs the initial full scan of every declared module's dependency
// list and subscribes to the model's change stream.
//
// Precondition: call exactly once, before any model edit that should be
// reflected incrementally. A second call would double-count references; this
// is a caller contract violation and is not re-validated at runtime.
func (ix *Index) Setup() {
	start := time.Now()

	modules := ix.model.Snapshot()
	for _, mod := range modules {
		ix.trackModule(mod.ID, mod.Dependencies)
	}
	ix.unsubscribe = ix.model.Subscribe(ix.onModulesChanged)
	ix.updateGauges()

	elapsed := time.Since(start)
	if ix.metrics != nil {
		ix.metrics.SetupDurationSeconds.Observe(elapsed.Seconds())
	}
	ix.log.WithFields(logrus.Fields{
		"modules":  len(modules),
		"duration": elapsed,
	}).Info("dependency index populated")
}

// HasDependencyOn reports whether any module currently references the key.
// Module-local library keys always answer true: a private library is owned 1:1
// by its module, so sharing never needs to be discovered through the table.
//
// Safe from any goroutine holding at least a read view of the model
// (Model.ReadLocked); reflects committed state only.
func (ix *Index) HasDependencyOn(key ResourceKey) bool {
	if key.IsModuleLocal() {
		return true
	}
	return ix.refs.HasReferrers(key)
}

// HasProjectSdkDependency reports whether at least one module currently holds
// an inherited-SDK dependency.
func (ix *Index) HasProjectSdkDependency() bool {
	return ix.refs.HasReferrers(InheritedSdkKey())
}

// ReferrerCount returns how many modules reference the key. Diagnostic.
func (ix *Index) ReferrerCount(key ResourceKey) int {
	return ix.refs.ReferrerCount(key)
}

// Dispose emits a final DependencyRemoved for every still-watched resource,
// detaches all registry listeners, unsubscribes from the model and clears the
// table. Idempotent, and safe to call even if Setup never ran.
func (ix *Index) Dispose() {
	if ix.disposed {
		return
	}
	ix.disposed = true

	if ix.unsubscribe != nil {
		ix.unsubscribe()
		ix.unsubscribe = nil
	}
	ix.libs.dispose()
	ix.sdks.dispose()
	ix.refs.Clear()
	ix.updateGauges()
	ix.log.Info("dependency index disposed")
}

// onModulesChanged applies one committed model batch. For every touched module
// the old version's items are untracked, then the new version's items are
// tracked. The per-module remove-then-add order is sufficient: when a resource
// stays referenced by an unrelated module, the transition-based event logic
// emits nothing.
func (ix *Index) onModulesChanged(ev project.ChangeEvent) {
	for _, mc := range ev.Modules {
		if mc.Old != nil {
			ix.untrackModule(mc.Old.ID, mc.Old.Dependencies)
		}
		if mc.New != nil {
			ix.trackModule(mc.New.ID, mc.New.Dependencies)
		}
	}
	ix.updateGauges()
}

func (ix *Index) trackModule(id project.ModuleID, items []project.DependencyItem) {
	for _, item := range items {
		switch it := item.(type) {
		case project.ModuleLocalLibrary:
			// Never reference-counted.
		case project.SharedLibrary:
			ix.libs.track(id, it)
		case project.NamedSdk:
			ix.sdks.track(id, it)
		case project.InheritedSdk:
			ix.sdks.track(id, it)
		}
	}
}

func (ix *Index) untrackModule(id project.ModuleID, items []project.DependencyItem) {
	for _, item := range items {
		switch it := item.(type) {
		case project.ModuleLocalLibrary:
		case project.SharedLibrary:
			ix.libs.untrack(id, it)
		case project.NamedSdk:
			ix.sdks.untrack(id, it)
		case project.InheritedSdk:
			ix.sdks.untrack(id, it)
		}
	}
}

func (ix *Index) updateGauges() {
	if ix.metrics == nil {
		return
	}
	ix.metrics.TrackedResources.WithLabelValues(string(KindLibrary)).Set(float64(ix.refs.CountByKind(KindLibrary)))
	ix.metrics.TrackedResources.WithLabelValues(string(KindSdk)).Set(float64(ix.refs.CountByKind(KindSdk)))
}
