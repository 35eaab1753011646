// Package project holds the structural model of a build workspace: the set of
// declared modules, their dependency records, and the change stream emitted when
// the model is edited.
//
// # Overview
//
// The Model is the single source of truth for module dependency declarations.
// All mutation goes through transactional batches (Apply), each of which commits
// atomically and then notifies subscribed change handlers with the old and new
// version of every touched module. The model's write lock doubles as the
// process-wide structural-edit lock: change handlers run while it is held, so
// everything they do is serialized against other edits.
//
// # Usage Example
//
// Declare a module and edit its dependencies:
//
//	model := project.NewModel(logger)
//	id := project.NewModuleID()
//	err := model.Apply(project.Batch{
//		Add: []project.Module{{
//			ID:   id,
//			Name: "app",
//			Dependencies: []project.DependencyItem{
//				project.SharedLibrary{Level: "project", Name: "commons"},
//				project.InheritedSdk{},
//			},
//		}},
//	})
//
// Subscribe to edits:
//
//	unsubscribe := model.Subscribe(func(ev project.ChangeEvent) {
//		for _, mc := range ev.Modules {
//			// mc.Old == nil: added; mc.New == nil: removed; both set: edited
//		}
//	})
//
// # Related Packages
//
//   - pkg/refindex: consumes the change stream to maintain the dependency index
//   - pkg/registry: the library/SDK tables referenced by dependency items
package project
