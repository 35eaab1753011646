// Package refindex maintains the shared-resource dependency index: which build
// modules currently reference which externally-owned libraries and SDKs.
//
// # Overview
//
// The Index consumes the structural model's change stream and keeps a
// bidirectional reference table between module IDs and resource keys. Registry
// listeners are attached lazily, only while at least one module references a
// resource in that table, and detached again when the last reference goes away.
//
// Observers receive four event kinds, delivered synchronously in registration
// order:
//
//	DependencyAdded / DependencyRemoved: the index started/stopped caring
//	about a resource (exact 0<->nonzero referrer transitions)
//	ObservedAdded / ObservedRemoved: a registry reported that a resource the
//	index already cares about appeared or disappeared
//
// Renaming a referenced library or SDK rewrites every affected module's
// dependency record in one transactional model edit; the resulting change
// notification flows back through the index as an ordinary edit, so the
// reference count is invariant across a rename and observers see no spurious
// dependency events.
//
// # Concurrency
//
// The index performs no locking of its own. All mutation happens inside the
// structural model's write lock (change handlers run while it is held, and
// registry callbacks must not be triggered from inside one). Queries reflect
// committed state only; callers outside a change handler wrap them in
// Model.ReadLocked.
//
// # Usage Example
//
//	ix := refindex.New(model, libTables, sdkTable, logger, metrics)
//	ix.AddListener(observer)
//	ix.Setup() // one-shot full scan; call exactly once
//
//	var tracked bool
//	model.ReadLocked(func() {
//		tracked = ix.HasDependencyOn(refindex.LibraryKey("project", "commons"))
//	})
//
// # Related Packages
//
//   - pkg/project: the structural model and its change stream
//   - pkg/registry: the library and SDK tables being watched
package refindex
