// Command depscope runs the shared-resource dependency index as a daemon: it
// loads a workspace file, builds the structural model and registries from it,
// populates the index, and then keeps everything in sync while serving the
// read-only query API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/buildforge/depscope/pkg/api"
	"github.com/buildforge/depscope/pkg/config"
	"github.com/buildforge/depscope/pkg/observability"
	"github.com/buildforge/depscope/pkg/project"
	"github.com/buildforge/depscope/pkg/refindex"
	"github.com/buildforge/depscope/pkg/registry"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		observability.NewLogger("info", "text").Fatalf("Failed to load configuration: %v", err)
	}

	log := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(prometheus.NewRegistry())
	}

	// Structural model and registries, seeded from the workspace file.
	model := project.NewModel(log)
	libs := registry.NewLibraryTables()
	sdks := registry.NewSdkTable()
	sync := newSyncer(model, libs, sdks, log)

	ws, err := project.LoadWorkspace(cfg.Workspace.Path)
	if err != nil {
		log.Fatalf("Failed to load workspace: %v", err)
	}
	if err := sync.apply(ws); err != nil {
		log.Fatalf("Failed to apply workspace: %v", err)
	}

	// Dependency index: full scan once, incremental afterwards.
	index := refindex.New(model, libs, sdks, log, metrics)
	journal := refindex.NewJournal(cfg.Journal.Size, cfg.Journal.TTL)
	index.AddListener(journal)
	index.Setup()

	health := observability.NewHealthChecker()
	health.AddCheck("index", func(ctx context.Context) error {
		report := index.Audit()
		if !report.Clean() {
			return fmt.Errorf("dependency index drift on %d keys", len(report.Drift))
		}
		return nil
	})

	apiServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      api.NewServer(index, model, journal, log, metrics),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", health.Liveness)
	healthMux.HandleFunc("/readyz", health.Readiness)
	if metrics != nil {
		healthMux.Handle("/metrics", metrics.Handler())
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	// Periodic consistency audit.
	scheduler := cron.New()
	if cfg.Audit.Enabled {
		if _, err := scheduler.AddFunc(cfg.Audit.Schedule, func() {
			report := index.Audit()
			result := "clean"
			if !report.Clean() {
				result = "drift"
			}
			if metrics != nil {
				metrics.AuditRunsTotal.WithLabelValues(result).Inc()
			}
		}); err != nil {
			log.Fatalf("Invalid audit schedule %q: %v", cfg.Audit.Schedule, err)
		}
		scheduler.Start()
		log.WithField("schedule", cfg.Audit.Schedule).Info("consistency audit scheduled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := newWorkspaceWatcher(cfg.Workspace.Path, cfg.Workspace.ReloadDebounce, sync, log, metrics)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", apiServer.Addr).Info("dependency index API listening")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.WithField("addr", healthServer.Addr).Info("health server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return watcher.run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()

		shutdown := observability.NewShutdownManager(log, cfg.Server.ShutdownTimeout)
		shutdown.Register(apiServer.Shutdown)
		shutdown.Register(healthServer.Shutdown)
		shutdown.Register(func(context.Context) error {
			scheduler.Stop()
			return nil
		})
		shutdown.Register(func(context.Context) error {
			index.Dispose()
			return nil
		})
		return shutdown.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("depscope exited with error: %v", err)
	}
	log.Info("depscope stopped")
}
