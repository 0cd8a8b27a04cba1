// Package app wires configuration, storage and background publishers into
// the context every command runs against.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/balkashynov/bankroll/internal/config"
	"github.com/balkashynov/bankroll/internal/db"
	"github.com/balkashynov/bankroll/internal/jsonstore"
	"github.com/balkashynov/bankroll/internal/log"
	"github.com/balkashynov/bankroll/internal/store"
	"github.com/balkashynov/bankroll/internal/widget"
)

// App owns everything opened for one process
type App struct {
	Config *config.Config
	Log    *log.Logger
	Store  *store.Store
	Live   *jsonstore.LiveFile

	// Widget is nil when the widget is disabled or its store failed to open
	Widget *widget.Publisher
	Shared *db.SharedStore

	// Entitlement gates premium commands. Metrics never read it.
	Entitlement bool
}

// Options tweaks Open, mostly for tests
type Options struct {
	LogOutput io.Writer
}

// Open validates cfg, opens the configured backend and loads the store
func Open(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, err
	}

	logCfg := log.DefaultConfig()
	logCfg.Level = log.ParseLevel(cfg.LogLevel)
	if opts.LogOutput != nil {
		logCfg.Output = opts.LogOutput
	}
	logger := log.New(logCfg)

	repo, err := openRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:      cfg,
		Log:         logger,
		Store:       store.New(repo, logger),
		Live:        jsonstore.NewLiveFile(cfg.LiveSessionPath()),
		Entitlement: cfg.Premium,
	}

	if cfg.WidgetEnabled {
		shared, err := db.OpenShared(cfg.SharedStorePath)
		if err != nil {
			// The widget is optional; the tracker keeps working without it.
			logger.Warn("widget store unavailable", "path", cfg.SharedStorePath, "error", err)
		} else {
			a.Shared = shared
			a.Widget = widget.NewPublisher(a.Store, shared, logger)
		}
	}

	if err := a.Store.Load(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	logger.Debug("app ready", "backend", cfg.Backend, "data_dir", cfg.DataDir, "widget", a.Widget != nil)
	return a, nil
}

func openRepository(cfg *config.Config, logger *log.Logger) (store.Repository, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		repo, err := db.Open(cfg.SQLitePath(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return repo, nil
	default:
		return jsonstore.New(cfg.DataDir, logger), nil
	}
}

// Close flushes pending widget writes and closes every store
func (a *App) Close() error {
	var errs []error
	if a.Widget != nil {
		a.Widget.Close()
	}
	if a.Shared != nil {
		errs = append(errs, a.Shared.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}
