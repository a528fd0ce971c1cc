package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vulnguard/vulnguard/internal/adapters/graphstore"
	"github.com/vulnguard/vulnguard/internal/adapters/reporting"
	"github.com/vulnguard/vulnguard/internal/adapters/storage"
	"github.com/vulnguard/vulnguard/internal/adapters/vulndb"
	webserver "github.com/vulnguard/vulnguard/internal/adapters/web/server"
	"github.com/vulnguard/vulnguard/internal/config"
	"github.com/vulnguard/vulnguard/internal/core/services/graph"
	"github.com/vulnguard/vulnguard/internal/core/services/match"
	"github.com/vulnguard/vulnguard/internal/core/services/report"
	"github.com/vulnguard/vulnguard/internal/core/services/risk"
	"github.com/vulnguard/vulnguard/internal/telemetry"
)

// Application holds the core components of the platform. It acts as the
// facade for the entire system, orchestrating services and infrastructure.
type Application struct {
	Config *config.Config

	Store     *storage.SQLiteAdapter
	VulnRepo  *vulndb.SQLiteRepository
	Runner    *match.Runner
	Refresher *graph.Refresher
	Analyzer  *graph.Analyzer
	WebServer *webserver.Server

	log *slog.Logger
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config, log *slog.Logger) (*Application, error) {
	app := &Application{
		Config: cfg,
		log:    log,
	}

	if err := app.bootstrap(); err != nil {
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}

	return app, nil
}

// bootstrap orchestrates the initialization sequence.
func (app *Application) bootstrap() error {
	// 1. Foundation & Infrastructure
	telemetry.InitMetrics()

	if err := app.initStorage(); err != nil {
		return err
	}
	if err := app.initVulnDB(); err != nil {
		return err
	}

	// 2. Domain Services
	scorer := risk.NewEngine()
	matcher := match.NewEngine(match.DefaultCanonicalizer())
	app.Runner = match.NewRunner(app.Store, app.VulnRepo, app.Store, matcher, scorer)

	graphStore := graphstore.NewMemoryStore()
	builder := graph.NewBuilder(graphStore, app.log)
	app.Analyzer = graph.NewAnalyzer(graphStore, app.log)
	app.Refresher = graph.NewRefresher(app.Store, app.VulnRepo, app.Store, builder)

	generator := report.NewGenerator(app.Store, app.VulnRepo, app.Store, app.Analyzer, app.log)

	// 3. Server
	app.WebServer = webserver.NewServer(app.Config.Addr, webserver.Deps{
		Assets:    app.Store,
		Vulns:     app.VulnRepo,
		Matches:   app.Store,
		Runner:    app.Runner,
		Scorer:    scorer,
		Analyzer:  app.Analyzer,
		Rebuilder: app.Refresher,
		Generator: generator,
		Exporter:  reporting.NewPDFExporter(),
		Log:       app.log,
	})

	return nil
}

func (app *Application) initStorage() error {
	if err := os.MkdirAll(filepath.Dir(app.Config.AssetDBPath), 0755); err != nil {
		return fmt.Errorf("failed to create asset DB directory: %w", err)
	}

	store, err := storage.NewSQLiteAdapter(app.Config.AssetDBPath)
	if err != nil {
		return fmt.Errorf("failed to init asset storage: %w", err)
	}
	app.Store = store
	return nil
}

func (app *Application) initVulnDB() error {
	if err := os.MkdirAll(filepath.Dir(app.Config.VulnDBPath), 0755); err != nil {
		return fmt.Errorf("failed to create vulnerability DB directory: %w", err)
	}

	repo, err := vulndb.NewSQLiteRepository(app.Config.VulnDBPath)
	if err != nil {
		return fmt.Errorf("failed to init vulnerability storage: %w", err)
	}
	app.VulnRepo = repo

	if app.Config.SeedFile != "" {
		loader := vulndb.NewSeedLoader(repo, app.log)
		if err := loader.LoadFromFile(context.Background(), app.Config.SeedFile); err != nil {
			return fmt.Errorf("failed to load seed file: %w", err)
		}
	}

	return nil
}

// Run starts the scheduler and the web server, and blocks until the context
// is cancelled or a component fails.
func (app *Application) Run(ctx context.Context) error {
	app.log.Info("starting vulnguard components")

	// Prime the graph so queries work before the first scheduled cycle.
	if err := app.Refresher.Refresh(ctx); err != nil {
		app.log.Warn("initial graph rebuild failed", "error", err)
	}

	go app.runScheduler(ctx)

	errChan := make(chan error, 1)
	go func() {
		if err := app.WebServer.Run(ctx); err != nil {
			errChan <- fmt.Errorf("web server error: %w", err)
		}
	}()

	app.log.Info("vulnguard ready")

	select {
	case <-ctx.Done():
		app.log.Info("termination signal received")
	case err := <-errChan:
		return err
	}

	return app.cleanup()
}

// runScheduler periodically correlates inventories against the record store
// and rebuilds the attack graph from the fresh results.
func (app *Application) runScheduler(ctx context.Context) {
	ticker := time.NewTicker(app.Config.RebuildInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			total, err := app.Runner.RunAll(ctx)
			if err != nil {
				app.log.Error("scheduled matching run failed", "error", err)
				continue
			}

			if err := app.Refresher.Refresh(ctx); err != nil {
				app.log.Error("scheduled graph rebuild failed", "error", err)
				continue
			}

			app.WebServer.WSManager.BroadcastRunComplete(total)
		}
	}
}

func (app *Application) cleanup() error {
	app.log.Info("cleaning up resources")

	if app.VulnRepo != nil {
		if err := app.VulnRepo.Close(); err != nil {
			app.log.Warn("closing vulnerability store", "error", err)
		}
	}
	if app.Store != nil {
		return app.Store.Close()
	}
	return nil
}
