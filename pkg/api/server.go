package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/buildforge/depscope/pkg/httputil"
	"github.com/buildforge/depscope/pkg/observability"
	"github.com/buildforge/depscope/pkg/project"
	"github.com/buildforge/depscope/pkg/refindex"
)

// Server serves the read-only dependency index API.
type Server struct {
	router  *mux.Router
	index   *refindex.Index
	model   *project.Model
	journal *refindex.Journal
	log     *logrus.Logger
}

// NewServer creates the API server. journal may be nil; the recent-events
// endpoint then answers with an empty list.
func NewServer(index *refindex.Index, model *project.Model, journal *refindex.Journal, log *logrus.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		index:   index,
		model:   model,
		journal: journal,
		log:     log,
	}
	s.router.Use(httputil.RecoveryMiddleware(log))
	s.router.Use(httputil.LoggingMiddleware(log))
	s.router.Use(httputil.MetricsMiddleware(metrics))
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	v1 := s.router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/dependencies/libraries/{level}/{name}", s.getLibraryDependency).Methods("GET")
	v1.HandleFunc("/dependencies/sdks/{type}/{name}", s.getSdkDependency).Methods("GET")
	v1.HandleFunc("/dependencies/sdk", s.getProjectSdkDependency).Methods("GET")
	v1.HandleFunc("/modules", s.listModules).Methods("GET")
	v1.HandleFunc("/events/recent", s.getRecentEvents).Methods("GET")
	v1.HandleFunc("/audit", s.getAudit).Methods("GET")
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
