package project

import "fmt"

// DependencyItem is one declared dependency of a module. It is a closed set of
// variants; code interpreting an item must type-switch over all of them so a new
// variant becomes a compile-visible obligation at every site.
type DependencyItem interface {
	dependencyItem()
	String() string
}

// ModuleLocalLibrary is a library owned exclusively by the declaring module.
// It is never shared between modules and never reference-counted.
type ModuleLocalLibrary struct {
	Name string
}

// SharedLibrary references a library from a scoped library table ("project",
// "application", ...). The library exists independently of any module.
type SharedLibrary struct {
	Level string
	Name  string
}

// NamedSdk references a concrete SDK by name and type.
type NamedSdk struct {
	Name string
	Type string
}

// InheritedSdk defers to whatever SDK the enclosing project currently
// designates as its default. It carries no literal name, so SDK renames never
// touch it.
type InheritedSdk struct{}

func (ModuleLocalLibrary) dependencyItem() {}
func (SharedLibrary) dependencyItem()      {}
func (NamedSdk) dependencyItem()           {}
func (InheritedSdk) dependencyItem()       {}

func (d ModuleLocalLibrary) String() string {
	return fmt.Sprintf("library %q (module-local)", d.Name)
}

func (d SharedLibrary) String() string {
	return fmt.Sprintf("library %q (%s)", d.Name, d.Level)
}

func (d NamedSdk) String() string {
	return fmt.Sprintf("sdk %q (%s)", d.Name, d.Type)
}

func (d InheritedSdk) String() string {
	return "inherited project sdk"
}
