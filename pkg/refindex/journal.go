package refindex

import (
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// JournalEntry is the most recent event seen for one resource.
type JournalEntry struct {
	Kind  string    `json:"kind"`
	Name  string    `json:"name"`
	Event string    `json:"event"`
	At    time.Time `json:"at"`
}

// Journal is a bounded, expiring record of recent index events, kept for the
// diagnostics API. One entry per resource; old or excess entries fall out of
// the LRU. The journal is an ordinary Listener and observes no events from
// before it was registered.
type Journal struct {
	cache *lru.LRU[string, JournalEntry]
}

// NewJournal creates a journal holding at most size entries for at most ttl.
func NewJournal(size int, ttl time.Duration) *Journal {
	if size < 1 {
		size = 1
	}
	return &Journal{
		cache: lru.NewLRU[string, JournalEntry](size, nil, ttl),
	}
}

// DependencyAdded implements Listener.
func (j *Journal) DependencyAdded(res Resource) { j.record(EventDependencyAdded, res) }

// DependencyRemoved implements Listener.
func (j *Journal) DependencyRemoved(res Resource) { j.record(EventDependencyRemoved, res) }

// ObservedAdded implements Listener.
func (j *Journal) ObservedAdded(res Resource) { j.record(EventObservedAdded, res) }

// ObservedRemoved implements Listener.
func (j *Journal) ObservedRemoved(res Resource) { j.record(EventObservedRemoved, res) }

func (j *Journal) record(event string, res Resource) {
	entry := JournalEntry{
		Kind:  res.ResourceKindName(),
		Name:  res.ResourceName(),
		Event: event,
		At:    time.Now(),
	}
	j.cache.Add(entry.Kind+"/"+entry.Name, entry)
}

// Recent returns the journal contents, newest first. Safe from any goroutine;
// the underlying cache is internally synchronized.
func (j *Journal) Recent() []JournalEntry {
	entries := j.cache.Values()
	sort.Slice(entries, func(i, k int) bool {
		return entries[i].At.After(entries[k].At)
	})
	return entries
}
