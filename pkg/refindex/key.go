package refindex

import (
	"fmt"

	"github.com/buildforge/depscope/pkg/project"
	"github.com/buildforge/depscope/pkg/registry"
)

// ResourceKind discriminates the two tracked resource families.
type ResourceKind string

const (
	KindLibrary ResourceKind = "library"
	KindSdk     ResourceKind = "sdk"
)

// inheritedSdkName is the sentinel under which inherited-SDK dependencies are
// tracked. It is distinct from every concrete SDK name, which never contains
// angle brackets.
const inheritedSdkName = "<project-default>"

// ResourceKey identifies a shared resource: kind, scope and name. For library
// keys Level is the library table level; for SDK keys it carries the SDK type.
// Two keys are equal iff all three fields match.
type ResourceKey struct {
	Kind  ResourceKind
	Level string
	Name  string
}

// LibraryKey builds the key for a library at the given level.
func LibraryKey(level, name string) ResourceKey {
	return ResourceKey{Kind: KindLibrary, Level: level, Name: name}
}

// SdkKey builds the key for a named SDK.
func SdkKey(name, sdkType string) ResourceKey {
	return ResourceKey{Kind: KindSdk, Level: sdkType, Name: name}
}

// InheritedSdkKey is the sentinel key under which inherited-SDK dependencies
// are registered, separate from every concrete SDK name.
func InheritedSdkKey() ResourceKey {
	return ResourceKey{Kind: KindSdk, Name: inheritedSdkName}
}

// IsModuleLocal reports whether the key names a module-private library. Such
// libraries are owned 1:1 by their module and are never reference-counted.
func (k ResourceKey) IsModuleLocal() bool {
	return k.Kind == KindLibrary && k.Level == registry.LevelModule
}

func (k ResourceKey) String() string {
	if k == InheritedSdkKey() {
		return "sdk <project-default>"
	}
	return fmt.Sprintf("%s %q (%s)", k.Kind, k.Name, k.Level)
}

// keyFor maps a declared dependency item to its reference-table key. The
// second result is false for items the index never tracks (module-local
// libraries). The type switch is exhaustive over the closed DependencyItem set.
func keyFor(item project.DependencyItem) (ResourceKey, bool) {
	switch it := item.(type) {
	case project.ModuleLocalLibrary:
		return LibraryKey(registry.LevelModule, it.Name), false
	case project.SharedLibrary:
		return LibraryKey(it.Level, it.Name), true
	case project.NamedSdk:
		return SdkKey(it.Name, it.Type), true
	case project.InheritedSdk:
		return InheritedSdkKey(), true
	default:
		panic(fmt.Sprintf("unhandled dependency item %T", item))
	}
}
