package main

import (
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/buildforge/depscope/pkg/project"
	"github.com/buildforge/depscope/pkg/registry"
)

// syncer reconciles a loaded workspace document against the registries and
// the structural model. Registries are reconciled first so module tracking can
// resolve the objects it references; renames run through the tables so the
// index propagates them into dependency records before the module diff runs.
type syncer struct {
	model *project.Model
	libs  *registry.LibraryTables
	sdks  *registry.SdkTable
	log   *logrus.Logger
}

func newSyncer(model *project.Model, libs *registry.LibraryTables, sdks *registry.SdkTable, log *logrus.Logger) *syncer {
	return &syncer{model: model, libs: libs, sdks: sdks, log: log}
}

// apply brings registries and model in line with the workspace document.
func (s *syncer) apply(ws *project.Workspace) error {
	if err := s.syncLibraries(ws); err != nil {
		return fmt.Errorf("sync libraries: %w", err)
	}
	if err := s.syncSdks(ws); err != nil {
		return fmt.Errorf("sync sdks: %w", err)
	}
	if err := s.syncModules(ws); err != nil {
		return fmt.Errorf("sync modules: %w", err)
	}
	return nil
}

func (s *syncer) syncLibraries(ws *project.Workspace) error {
	desired := make(map[string]map[string]bool) // level -> name
	for _, lib := range ws.Libraries {
		if desired[lib.Level] == nil {
			desired[lib.Level] = make(map[string]bool)
		}
		desired[lib.Level][lib.Name] = true

		table := s.libs.Register(lib.Level)
		if table.Get(lib.Name) != nil {
			continue
		}
		if lib.RenamedFrom != "" && table.Get(lib.RenamedFrom) != nil {
			if err := table.Rename(lib.RenamedFrom, lib.Name); err != nil {
				return err
			}
			continue
		}
		if _, err := table.Add(lib.Name); err != nil {
			return err
		}
	}

	for _, table := range s.libs.Tables() {
		for _, lib := range table.Libraries() {
			if !desired[table.Level()][lib.Name()] {
				if err := table.Remove(lib.Name()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *syncer) syncSdks(ws *project.Workspace) error {
	desired := make(map[string]map[string]bool) // type -> name
	for _, sdk := range ws.Sdks {
		if desired[sdk.Type] == nil {
			desired[sdk.Type] = make(map[string]bool)
		}
		desired[sdk.Type][sdk.Name] = true

		if s.sdks.Lookup(sdk.Name, sdk.Type) != nil {
			continue
		}
		if sdk.RenamedFrom != "" && s.sdks.Lookup(sdk.RenamedFrom, sdk.Type) != nil {
			if err := s.sdks.Rename(sdk.RenamedFrom, sdk.Type, sdk.Name); err != nil {
				return err
			}
			continue
		}
		if _, err := s.sdks.Add(sdk.Name, sdk.Type); err != nil {
			return err
		}
	}

	for _, sdk := range s.sdks.Sdks() {
		if !desired[sdk.Type()][sdk.Name()] {
			if err := s.sdks.Remove(sdk.Name(), sdk.Type()); err != nil {
				return err
			}
		}
	}

	if ws.DefaultSdk == nil {
		return s.sdks.SetDefault(nil)
	}
	def := s.sdks.Lookup(ws.DefaultSdk.Name, ws.DefaultSdk.Type)
	if def == nil {
		s.log.WithFields(logrus.Fields{
			"name": ws.DefaultSdk.Name,
			"type": ws.DefaultSdk.Type,
		}).Warn("workspace default sdk is not declared, clearing default")
		return s.sdks.SetDefault(nil)
	}
	return s.sdks.SetDefault(def)
}

func (s *syncer) syncModules(ws *project.Workspace) error {
	current := make(map[string]project.Module)
	for _, mod := range s.model.Snapshot() {
		current[mod.Name] = mod
	}

	batch := project.Batch{}
	desired := make(map[string]bool, len(ws.Modules))

	for _, wsMod := range ws.Modules {
		desired[wsMod.Name] = true
		items, err := wsMod.Items()
		if err != nil {
			return err
		}

		existing, known := current[wsMod.Name]
		if !known {
			batch.Add = append(batch.Add, project.Module{
				ID:           project.NewModuleID(),
				Name:         wsMod.Name,
				Dependencies: items,
			})
			continue
		}
		if !reflect.DeepEqual(existing.Dependencies, items) {
			existing.Dependencies = items
			batch.Update = append(batch.Update, existing)
		}
	}

	for name, mod := range current {
		if !desired[name] {
			batch.Remove = append(batch.Remove, mod.ID)
		}
	}

	return s.model.Apply(batch)
}
