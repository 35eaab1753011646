package refindex

import (
	"github.com/buildforge/depscope/pkg/observability"
)

// Resource is what dependency events carry: the concrete registry object
// (*registry.Library or *registry.Sdk) behind a minimal read surface.
type Resource interface {
	// ResourceName is the object's current display name.
	ResourceName() string
	// ResourceKindName is "library" or "sdk".
	ResourceKindName() string
}

// Listener observes index transitions. All four callbacks are delivered
// synchronously, in listener registration order, with no replay of events that
// happened before registration. Callbacks run while the structural-edit lock
// is held and must not apply further model edits.
type Listener interface {
	// DependencyAdded fires when a resource gains its first referrer, i.e. the
	// index itself starts caring about it.
	DependencyAdded(res Resource)
	// DependencyRemoved fires when a resource loses its last referrer.
	DependencyRemoved(res Resource)
	// ObservedAdded fires when a registry reports the appearance of a resource
	// the index already has at least one referrer for.
	ObservedAdded(res Resource)
	// ObservedRemoved fires when a registry reports the disappearance of a
	// resource the index has at least one referrer for.
	ObservedRemoved(res Resource)
}

// Event names as seen in metrics and the journal.
const (
	EventDependencyAdded   = "dependency_added"
	EventDependencyRemoved = "dependency_removed"
	EventObservedAdded     = "observed_added"
	EventObservedRemoved   = "observed_removed"
)

// dispatcher multicasts events to registered listeners.
type dispatcher struct {
	listeners []Listener
	metrics   *observability.Metrics
}

func newDispatcher(metrics *observability.Metrics) *dispatcher {
	return &dispatcher{metrics: metrics}
}

func (d *dispatcher) addListener(l Listener) {
	d.listeners = append(d.listeners, l)
}

func (d *dispatcher) dependencyAdded(res Resource) {
	d.count(EventDependencyAdded, res)
	for _, l := range d.snapshot() {
		l.DependencyAdded(res)
	}
}

func (d *dispatcher) dependencyRemoved(res Resource) {
	d.count(EventDependencyRemoved, res)
	for _, l := range d.snapshot() {
		l.DependencyRemoved(res)
	}
}

func (d *dispatcher) observedAdded(res Resource) {
	d.count(EventObservedAdded, res)
	for _, l := range d.snapshot() {
		l.ObservedAdded(res)
	}
}

func (d *dispatcher) observedRemoved(res Resource) {
	d.count(EventObservedRemoved, res)
	for _, l := range d.snapshot() {
		l.ObservedRemoved(res)
	}
}

// snapshot copies the listener list so a callback may register further
// listeners without corrupting the in-flight dispatch.
func (d *dispatcher) snapshot() []Listener {
	out := make([]Listener, len(d.listeners))
	copy(out, d.listeners)
	return out
}

func (d *dispatcher) count(event string, res Resource) {
	if d.metrics == nil {
		return
	}
	d.metrics.DependencyEventsTotal.WithLabelValues(event, res.ResourceKindName()).Inc()
}
