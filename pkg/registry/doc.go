// Package registry owns the shared resources modules can reference: libraries,
// grouped into per-level tables, and SDKs in one global table.
//
// # Overview
//
// Resources exist independently of any module. Tables support lookup by name,
// mutation (add, remove, rename), and listener subscription. Listeners are
// notified after the table's own mutation has completed, so a callback always
// observes the post-mutation table and may safely schedule follow-up edits
// elsewhere without re-entering a half-applied change.
//
// # Usage Example
//
//	tables := registry.NewLibraryTables()
//	projectLibs := tables.Register(registry.LevelProject)
//	lib, _ := projectLibs.Add("commons")
//
//	sdks := registry.NewSdkTable()
//	jdk, _ := sdks.Add("corretto-21", "jdk")
//	sdks.SetDefault(jdk)
//
// # Related Packages
//
//   - pkg/refindex: attaches listeners to tables while at least one module
//     references a resource in them
package registry
