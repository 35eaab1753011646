package refindex

import (
	"github.com/sirupsen/logrus"

	"github.com/buildforge/depscope/pkg/project"
	"github.com/buildforge/depscope/pkg/registry"
)

// sdkTracker maintains reference-table entries for SDK dependency items.
//
// Entries are indexed by the declared item (a named SDK, or the inherited-SDK
// sentinel) so that a dependency on a missing SDK is still tracked and can be
// matched when the SDK appears. The watched set is keyed by resolved object
// identity instead: an inherited dependency and a named dependency on the same
// SDK resolve to one identity, and dependency events must fire on transitions
// of that identity, not of the declared keys.
type sdkTracker struct {
	sdks   *registry.SdkTable
	refs   *ReferenceTable
	events *dispatcher
	model  *project.Model
	log    *logrus.Logger

	attached bool
	watched  map[*registry.Sdk]struct{}
}

func newSdkTracker(sdks *registry.SdkTable, refs *ReferenceTable, events *dispatcher, model *project.Model, log *logrus.Logger) *sdkTracker {
	return &sdkTracker{
		sdks:    sdks,
		refs:    refs,
		events:  events,
		model:   model,
		log:     log,
		watched: make(map[*registry.Sdk]struct{}),
	}
}

// resolve maps a declared SDK item to its concrete SDK object, or nil when
// absent. Inherited items consult the project default at call time; the result
// is never cached because the setting changes independently of module edits.
func (t *sdkTracker) resolve(item project.DependencyItem) *registry.Sdk {
	switch it := item.(type) {
	case project.NamedSdk:
		return t.sdks.Lookup(it.Name, it.Type)
	case project.InheritedSdk:
		return t.sdks.Default()
	default:
		return nil
	}
}

func (t *sdkTracker) track(id project.ModuleID, item project.DependencyItem) {
	key, tracked := keyFor(item)
	if !tracked || key.Kind != KindSdk {
		return
	}
	t.refs.Add(id, key)

	if !t.attached {
		t.sdks.AddListener(t)
		t.attached = true
		t.log.Debug("attached sdk table listener")
	}

	sdk := t.resolve(item)
	if sdk == nil {
		t.log.WithFields(logrus.Fields{
			"item":   item.String(),
			"module": id,
		}).Debug("sdk dependency tracked unresolved")
		return
	}

	if _, already := t.watched[sdk]; !already {
		t.watched[sdk] = struct{}{}
		t.events.dependencyAdded(sdk)
	}
}

func (t *sdkTracker) untrack(id project.ModuleID, item project.DependencyItem) {
	key, tracked := keyFor(item)
	if !tracked || key.Kind != KindSdk {
		return
	}
	t.refs.Remove(id, key)

	sdk := t.resolve(item)
	if sdk != nil {
		if _, ok := t.watched[sdk]; ok && !t.resolvedByAnyEntry(sdk) {
			delete(t.watched, sdk)
			t.events.dependencyRemoved(sdk)
		}
	}

	if t.attached && !t.refs.KindInUse(KindSdk) {
		t.sdks.RemoveListener(t)
		t.attached = false
		t.log.Debug("detached sdk table listener")
	}
}

// resolvedByAnyEntry reports whether any currently-referenced declared item
// resolves to the given SDK identity. Computed from the reference table on
// demand so the watched state cannot drift from table occupancy.
func (t *sdkTracker) resolvedByAnyEntry(sdk *registry.Sdk) bool {
	for _, key := range t.refs.KeysByKind(KindSdk) {
		if key == InheritedSdkKey() {
			if t.sdks.Default() == sdk {
				return true
			}
			continue
		}
		if t.sdks.Lookup(key.Name, key.Level) == sdk {
			return true
		}
	}
	return false
}

// SdkAdded implements registry.SdkListener. An SDK appearing after being
// declared (or becoming the project default while inherited dependencies
// exist) is both observed and, if its identity is newly referenced, a
// dependency transition.
func (t *sdkTracker) SdkAdded(sdk *registry.Sdk) {
	if !t.resolvedByAnyEntry(sdk) {
		return
	}
	t.events.observedAdded(sdk)
	if _, already := t.watched[sdk]; !already {
		t.watched[sdk] = struct{}{}
		t.events.dependencyAdded(sdk)
	}
}

// SdkRemoved implements registry.SdkListener, mirroring SdkAdded. The table
// keeps the default-SDK setting intact until listeners have run, so inherited
// records that resolved to the removed SDK are still recognizable here.
func (t *sdkTracker) SdkRemoved(sdk *registry.Sdk) {
	referenced := t.refs.HasReferrers(SdkKey(sdk.Name(), sdk.Type()))
	if t.sdks.Default() == sdk && t.refs.HasReferrers(InheritedSdkKey()) {
		referenced = true
	}
	if _, ok := t.watched[sdk]; ok {
		referenced = true
	}
	if !referenced {
		return
	}
	t.events.observedRemoved(sdk)
	if _, ok := t.watched[sdk]; ok {
		delete(t.watched, sdk)
		t.events.dependencyRemoved(sdk)
	}
}

// SdkRenamed implements registry.SdkListener. Only modules declaring exactly
// the old name and type are rewritten; inherited dependencies carry no literal
// name and are unaffected. The rewrite is one transactional model edit whose
// change notification re-derives the table, keeping the reference count
// invariant.
func (t *sdkTracker) SdkRenamed(sdk *registry.Sdk, oldName string) {
	oldKey := SdkKey(oldName, sdk.Type())
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
			if ns, isNamed := item.(project.NamedSdk); isNamed &&
				ns.Name == oldName && ns.Type == sdk.Type() {
				deps[i] = project.NamedSdk{Name: sdk.Name(), Type: ns.Type}
				continue
			}
			deps[i] = item
		}
		rewrites[id] = deps
	}

	t.log.WithFields(logrus.Fields{
		"type":     sdk.Type(),
		"old_name": oldName,
		"new_name": sdk.Name(),
		"modules":  len(rewrites),
	}).Info("propagating sdk rename to dependency records")

	if err := t.model.RewriteDependencies(rewrites); err != nil {
		t.log.WithError(err).Error("sdk rename propagation failed")
	}
}

// dispose emits a final DependencyRemoved for every still-watched SDK,
// detaches the table listener and clears state. Safe to call when nothing was
// ever tracked.
func (t *sdkTracker) dispose() {
	for sdk := range t.watched {
		t.events.dependencyRemoved(sdk)
	}
	t.watched = make(map[*registry.Sdk]struct{})

	if t.attached {
		t.sdks.RemoveListener(t)
		t.attached = false
	}
}
