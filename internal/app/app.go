package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go-admin-panel/internal/config"
	"go-admin-panel/internal/database"
	"go-admin-panel/internal/event"
	"go-admin-panel/internal/handler"
	"go-admin-panel/internal/repository"
	"go-admin-panel/internal/resource"
	"go-admin-panel/internal/router"
	"go-admin-panel/internal/seed"
	"go-admin-panel/internal/service"
	"go-admin-panel/internal/stream"
	"go-admin-panel/internal/view"
)

type App struct {
	cfg          *config.Config
	server       *http.Server
	recorder     *service.ActivityRecorder
	hub          *stream.Hub
	cleanupFuncs []func()
}

func New(cfg *config.Config) (*App, error) {
	registry, err := resource.LoadFile(cfg.ResourcesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load resources: %w", err)
	}

	validator := service.NewValidator()
	if err := validator.CheckRules(registry.All()); err != nil {
		return nil, fmt.Errorf("invalid resource rules: %w", err)
	}

	source, closeSource, err := OpenSource(context.Background(), cfg, registry)
	if err != nil {
		return nil, err
	}

	bus := event.NewBus()
	listingService := service.NewListingService(source, cfg.DefaultPageSize, cfg.MaxPageSize)
	recordService := service.NewRecordService(source, bus, validator)
	overviewService := service.NewOverviewService(source, registry.All(), cfg.OverviewConcurrency)

	var recorder *service.ActivityRecorder
	if logRes, err := registry.Get("activity_log"); err == nil {
		recorder = service.NewActivityRecorder(source, bus, logRes)
	}

	renderer, err := view.New(registry.All(), "/admin")
	if err != nil {
		closeSource()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	if cfg.SeedOnStart {
		created, err := seed.New(registry, recordService).Run(context.Background())
		if err != nil {
			closeSource()
			return nil, fmt.Errorf("failed to seed: %w", err)
		}
		slog.Info("sample data seeded", "resources", len(created))
	}

	hub := stream.NewHub(bus)
	appRouter := router.New(cfg, router.Handlers{
		Resource: handler.NewResourceHandler(registry, listingService, recordService, renderer),
		Overview: handler.NewOverviewHandler(overviewService, renderer),
		Health:   handler.NewHealthHandler(source),
		Events:   hub,
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadTimeout:       cfg.ServerReadTimeout,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		cfg:          cfg,
		server:       server,
		recorder:     recorder,
		hub:          hub,
		cleanupFuncs: []func(){closeSource},
	}, nil
}

// OpenSource connects the configured data source and makes sure every
// registered table exists. The returned func releases it.
func OpenSource(ctx context.Context, cfg *config.Config, registry *resource.Registry) (repository.Source, func(), error) {
	tables := database.TablesFor(registry.All())

	switch cfg.DataSource {
	case config.DataSourceMemory:
		slog.Warn("using in-memory data source; data is lost on exit")
		return repository.NewMemorySource(database.TableNames(tables)...), func() {}, nil

	case config.DataSourceSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		if err := database.EnsureSQLiteSchema(ctx, db, tables); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to ensure sqlite schema: %w", err)
		}
		slog.Info("sqlite ready", "path", cfg.SQLitePath, "tables", len(tables))
		source := repository.NewSQLiteSource(db)
		return source, func() { _ = source.Close() }, nil

	default:
		slog.Info("connecting to PostgreSQL")
		db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.EnsureSchema(ctx, tables); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ensure database schema: %w", err)
		}
		slog.Info("database ready", "tables", len(tables))
		return repository.NewPostgresSource(db.Pool), db.Close, nil
	}
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Start launches the activity recorder and the event stream hub. They stop
// when ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	if a.recorder != nil {
		go a.recorder.Run(ctx)
	}
	go a.hub.Run(ctx)
}

// Close releases the data source.
func (a *App) Close() {
	a.cleanup()
}

// Run listens on the configured port and serves until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		a.cleanup()
		return fmt.Errorf("listen on %s: %w", a.server.Addr, err)
	}

	return a.Serve(ctx, ln)
}

// Serve runs the background workers and the HTTP server on ln until ctx is
// done, then shuts down gracefully. Shutdown stops the workers first, which
// ends every open event stream, so it does not wait out ShutdownTimeout.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	workers, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	a.Start(workers)
	a.server.RegisterOnShutdown(stopWorkers)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", ln.Addr().String(), "data_source", a.cfg.DataSource)
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		a.cleanup()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown requested")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer shutdownCancel()

	err := a.server.Shutdown(shutdownCtx)
	a.cleanup()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func (a *App) cleanup() {
	for _, fn := range a.cleanupFuncs {
		fn()
	}
}
