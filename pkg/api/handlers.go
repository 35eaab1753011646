package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/buildforge/depscope/pkg/httputil"
	"github.com/buildforge/depscope/pkg/project"
	"github.com/buildforge/depscope/pkg/refindex"
)

// getLibraryDependency handles GET /v1/dependencies/libraries/{level}/{name}.
func (s *Server) getLibraryDependency(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	key := refindex.LibraryKey(vars["level"], vars["name"])

	var tracked bool
	var referrers int
	s.model.ReadLocked(func() {
		tracked = s.index.HasDependencyOn(key)
		referrers = s.index.ReferrerCount(key)
	})

	httputil.WriteSuccess(w, map[string]interface{}{
		"kind":      "library",
		"level":     vars["level"],
		"name":      vars["name"],
		"tracked":   tracked,
		"referrers": referrers,
	})
}

// getSdkDependency handles GET /v1/dependencies/sdks/{type}/{name}.
func (s *Server) getSdkDependency(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	key := refindex.SdkKey(vars["name"], vars["type"])

	var tracked bool
	var referrers int
	s.model.ReadLocked(func() {
		tracked = s.index.HasDependencyOn(key)
		referrers = s.index.ReferrerCount(key)
	})

	httputil.WriteSuccess(w, map[string]interface{}{
		"kind":      "sdk",
		"type":      vars["type"],
		"name":      vars["name"],
		"tracked":   tracked,
		"referrers": referrers,
	})
}

// getProjectSdkDependency handles GET /v1/dependencies/sdk.
func (s *Server) getProjectSdkDependency(w http.ResponseWriter, r *http.Request) {
	var has bool
	s.model.ReadLocked(func() {
		has = s.index.HasProjectSdkDependency()
	})

	httputil.WriteSuccess(w, map[string]interface{}{
		"project_sdk_dependency": has,
	})
}

// moduleResponse is the JSON form of one declared module.
type moduleResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Dependencies []dependencyResponse `json:"dependencies"`
}

// dependencyResponse is the JSON form of one dependency record.
type dependencyResponse struct {
	Kind  string `json:"kind"`
	Name  string `json:"name,omitempty"`
	Level string `json:"level,omitempty"`
	Type  string `json:"type,omitempty"`
}

func dependencyJSON(item project.DependencyItem) dependencyResponse {
	switch it := item.(type) {
	case project.ModuleLocalLibrary:
		return dependencyResponse{Kind: project.DepKindModuleLibrary, Name: it.Name}
	case project.SharedLibrary:
		return dependencyResponse{Kind: project.DepKindSharedLibrary, Name: it.Name, Level: it.Level}
	case project.NamedSdk:
		return dependencyResponse{Kind: project.DepKindSdk, Name: it.Name, Type: it.Type}
	case project.InheritedSdk:
		return dependencyResponse{Kind: project.DepKindInheritedSdk}
	default:
		return dependencyResponse{Kind: "unknown"}
	}
}

// listModules handles GET /v1/modules.
func (s *Server) listModules(w http.ResponseWriter, r *http.Request) {
	modules := s.model.Snapshot()

	out := make([]moduleResponse, 0, len(modules))
	for _, mod := range modules {
		deps := make([]dependencyResponse, 0, len(mod.Dependencies))
		for _, item := range mod.Dependencies {
			deps = append(deps, dependencyJSON(item))
		}
		out = append(out, moduleResponse{
			ID:           string(mod.ID),
			Name:         mod.Name,
			Dependencies: deps,
		})
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"modules": out,
		"count":   len(out),
	})
}

// getRecentEvents handles GET /v1/events/recent.
func (s *Server) getRecentEvents(w http.ResponseWriter, r *http.Request) {
	entries := []refindex.JournalEntry{}
	if s.journal != nil {
		entries = s.journal.Recent()
	}
	httputil.WriteSuccess(w, map[string]interface{}{
		"events": entries,
		"count":  len(entries),
	})
}

// getAudit handles GET /v1/audit.
func (s *Server) getAudit(w http.ResponseWriter, r *http.Request) {
	report := s.index.Audit()
	httputil.WriteSuccess(w, report)
}
