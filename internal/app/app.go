// Package app wires quickfind's adapters and services together.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/custodia-labs/quickfind/internal/adapters/driven/config/file"
	"github.com/custodia-labs/quickfind/internal/adapters/driven/fetch"
	"github.com/custodia-labs/quickfind/internal/adapters/driven/metrics"
	"github.com/custodia-labs/quickfind/internal/adapters/driven/pool"
	"github.com/custodia-labs/quickfind/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quickfind/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/core/ports/driven"
	"github.com/custodia-labs/quickfind/internal/core/services"
	"github.com/custodia-labs/quickfind/internal/logger"
)

// Options select how the application is assembled.
type Options struct {
	// ConfigDir holds config.toml. Empty means ~/.quickfind.
	ConfigDir string

	// Memory forces the in-memory catalog regardless of storage.backend.
	Memory bool

	// Config replaces the file config store. Used by tests.
	Config driven.ConfigStore
}

// App holds the wired services of one process.
type App struct {
	Config   driven.ConfigStore
	Settings *services.SettingsService
	Catalog  driven.CatalogStore
	Engine   *services.Aggregator
	Registry *prometheus.Registry
	Janitor  *services.Janitor

	pool     *pool.AntsPool
	limiters map[domain.Category]*fetch.RateLimiter
}

// New loads settings, opens the catalog and builds the search engine.
func New(opts Options) (*App, error) {
	config := opts.Config
	if config == nil {
		store, err := file.NewConfigStore(opts.ConfigDir)
		if err != nil {
			return nil, fmt.Errorf("opening config: %w", err)
		}
		config = store
	}

	settingsService := services.NewSettingsService(config)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	catalog, err := openCatalog(opts, settings.Storage)
	if err != nil {
		return nil, err
	}

	workers, err := pool.NewAntsPool(settings.Search.Workers)
	if err != nil {
		catalog.Close()
		return nil, err
	}

	fetchers := make(map[domain.Category]driven.CategoryFetcher, len(domain.Categories()))
	for _, c := range domain.Categories() {
		fetchers[c] = catalog.Fetcher(c)
	}
	limiters := fetch.Wrap(fetchers, settings.Search.RateLimit, 1)
	for c, l := range limiters {
		fetchers[c] = l
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	engine := services.NewAggregator(fetchers, settings.Search)
	engine.SetWorkerPool(workers)
	engine.SetMetrics(metrics.NewPrometheus(registry))

	logger.Debug("storage=%s workers=%d page_size=%d", settings.Storage.Backend,
		settings.Search.Workers, settings.Search.PageSize)

	return &App{
		Config:   config,
		Settings: settingsService,
		Catalog:  catalog,
		Engine:   engine,
		Registry: registry,
		Janitor:  services.NewJanitor(engine.Cache(), settings.Search.CacheTTL),
		pool:     workers,
		limiters: limiters,
	}, nil
}

func openCatalog(opts Options, storage domain.StorageSettings) (driven.CatalogStore, error) {
	if opts.Memory || storage.Backend == domain.StorageMemory {
		return memory.NewCatalog(), nil
	}

	dataDir := storage.DataDir
	if dataDir == "" && opts.ConfigDir != "" {
		dataDir = filepath.Join(opts.ConfigDir, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	return store, nil
}

// NewSession opens a search session on the shared engine.
func (a *App) NewSession(ctx context.Context, callbacks services.SessionCallbacks) *services.Session {
	return services.NewSession(ctx, a.Engine, callbacks)
}

// Reload re-reads settings and applies the search settings to the engine,
// worker pool and rate limiters. Storage changes need a restart.
func (a *App) Reload() (*domain.AppSettings, error) {
	if err := a.Config.Load(); err != nil {
		return nil, fmt.Errorf("reloading config: %w", err)
	}
	settings, err := a.Settings.Get()
	if err != nil {
		return nil, err
	}
	a.apply(settings.Search)
	return settings, nil
}

func (a *App) apply(search domain.SearchSettings) {
	a.Engine.ApplySettings(search)
	a.pool.Resize(search.Workers)
	a.Janitor.SetInterval(search.CacheTTL)
	for _, l := range a.limiters {
		l.SetRate(search.RateLimit)
	}
}

// WatchConfig applies settings whenever the config file changes and passes
// them to onReload. Invalid edits are logged and ignored. It blocks until
// ctx is done.
func (a *App) WatchConfig(ctx context.Context, onReload func(domain.SearchSettings)) error {
	return a.Config.Watch(ctx, func() {
		settings, err := a.Settings.Get()
		if err != nil {
			logger.Warn("ignoring config change: %v", err)
			return
		}
		a.apply(settings.Search)
		logger.Info("settings reloaded")
		if onReload != nil {
			onReload(settings.Search)
		}
	})
}

// Close stops the janitor and releases the worker pool and the catalog.
func (a *App) Close() error {
	a.Janitor.Stop()
	a.pool.Release()
	return a.Catalog.Close()
}
