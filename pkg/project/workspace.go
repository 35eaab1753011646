package project

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dependency item kinds accepted in workspace documents.
const (
	DepKindModuleLibrary = "module-library"
	DepKindSharedLibrary = "library"
	DepKindSdk           = "sdk"
	DepKindInheritedSdk  = "inherited-sdk"
)

// Workspace is the on-disk description of a build workspace: the shared
// resources that exist and the modules that reference them. It is daemon input,
// not a persistence format for the index; the index is always rebuilt from the
// model by a full scan.
type Workspace struct {
	Libraries  []WorkspaceLibrary `yaml:"libraries"`
	Sdks       []WorkspaceSdk     `yaml:"sdks"`
	DefaultSdk *WorkspaceSdk      `yaml:"default_sdk,omitempty"`
	Modules    []WorkspaceModule  `yaml:"modules"`
}

// WorkspaceLibrary declares one shared library in a scoped table. RenamedFrom
// marks the declaration as a rename of an existing library, which propagates
// into every referencing module's dependency record.
type WorkspaceLibrary struct {
	Name        string `yaml:"name"`
	Level       string `yaml:"level"`
	RenamedFrom string `yaml:"renamed_from,omitempty"`
}

// WorkspaceSdk declares one SDK in the global SDK table.
type WorkspaceSdk struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	RenamedFrom string `yaml:"renamed_from,omitempty"`
}

// WorkspaceModule declares one module and its dependency records.
type WorkspaceModule struct {
	Name         string                `yaml:"name"`
	Dependencies []WorkspaceDependency `yaml:"dependencies"`
}

// WorkspaceDependency is the yaml form of a DependencyItem.
type WorkspaceDependency struct {
	Kind  string `yaml:"kind"`
	Name  string `yaml:"name,omitempty"`
	Level string `yaml:"level,omitempty"`
	Type  string `yaml:"type,omitempty"`
}

// LoadWorkspace reads and validates a workspace document.
func LoadWorkspace(path string) (*Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace file: %w", err)
	}

	var ws Workspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("failed to parse workspace file: %w", err)
	}

	if err := ws.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workspace file %s: %w", path, err)
	}
	return &ws, nil
}

// Validate checks the document for structural problems. Dangling references
// (a module naming a library or SDK that is not declared) are deliberately
// allowed: the index tracks them structurally until the resource appears.
func (w *Workspace) Validate() error {
	seen := make(map[string]bool, len(w.Modules))
	for _, mod := range w.Modules {
		if mod.Name == "" {
			return fmt.Errorf("module with empty name")
		}
		if seen[mod.Name] {
			return fmt.Errorf("duplicate module %q", mod.Name)
		}
		seen[mod.Name] = true

		for _, dep := range mod.Dependencies {
			if _, err := dep.Item(); err != nil {
				return fmt.Errorf("module %q: %w", mod.Name, err)
			}
		}
	}
	for _, lib := range w.Libraries {
		if lib.Name == "" || lib.Level == "" {
			return fmt.Errorf("library declaration needs both name and level")
		}
	}
	for _, sdk := range w.Sdks {
		if sdk.Name == "" || sdk.Type == "" {
			return fmt.Errorf("sdk declaration needs both name and type")
		}
	}
	return nil
}

// Item converts the yaml form into a DependencyItem.
func (d WorkspaceDependency) Item() (DependencyItem, error) {
	switch d.Kind {
	case DepKindModuleLibrary:
		if d.Name == "" {
			return nil, fmt.Errorf("module-library dependency needs a name")
		}
		return ModuleLocalLibrary{Name: d.Name}, nil
	case DepKindSharedLibrary:
		if d.Name == "" || d.Level == "" {
			return nil, fmt.Errorf("library dependency needs both name and level")
		}
		return SharedLibrary{Level: d.Level, Name: d.Name}, nil
	case DepKindSdk:
		if d.Name == "" || d.Type == "" {
			return nil, fmt.Errorf("sdk dependency needs both name and type")
		}
		return NamedSdk{Name: d.Name, Type: d.Type}, nil
	case DepKindInheritedSdk:
		return InheritedSdk{}, nil
	default:
		return nil, fmt.Errorf("unknown dependency kind %q", d.Kind)
	}
}

// Items converts every dependency of a workspace module.
func (m WorkspaceModule) Items() ([]DependencyItem, error) {
	items := make([]DependencyItem, 0, len(m.Dependencies))
	for _, dep := range m.Dependencies {
		item, err := dep.Item()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
