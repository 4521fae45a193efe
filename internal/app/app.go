package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/specialistvlad/burstdsl/internal/config"
	"github.com/specialistvlad/burstdsl/internal/ctxlog"
	"github.com/specialistvlad/burstdsl/internal/feed"
	"github.com/specialistvlad/burstdsl/internal/registry"
)

// ExpressionFormula names the formula built from Config.Expression.
const ExpressionFormula = "result"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx      context.Context
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	model    *config.Model
	hub      *feed.Hub
	formulas []*formula

	// evalMu serializes evaluations; compiled trees are not safe for
	// concurrent use.
	evalMu sync.Mutex

	lastMu sync.RWMutex
	last   *Report

	httpServer *http.Server
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW. Invalid configuration is a fatal startup error and
// panics; entrypoints are expected to recover.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Create and populate the registry with Go operator classes.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	reg.RegisterModules(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules))

	if err := reg.ValidateRegistry(ctx); err != nil {
		// This is a programmer error in an operator module, so we panic.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	a := &App{
		ctx:      ctx,
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		model:    config.NewModel(),
	}
	if cfg.Docs {
		return a
	}

	if len(cfg.FormulaPaths) > 0 {
		model, err := loader.Load(ctx, cfg.FormulaPaths...)
		if err != nil {
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		a.model = model
	}
	if cfg.Expression != "" {
		a.model.Formulas = append(a.model.Formulas, &config.Formula{
			Name:       ExpressionFormula,
			Expression: cfg.Expression,
		})
	}
	if err := a.model.Validate(); err != nil {
		panic(fmt.Errorf("invalid configuration: %w", err))
	}
	logger.Debug("Configuration loaded.", "feeds", len(a.model.Feeds), "formulas", len(a.model.Formulas))

	hub, err := newHub(ctx, a.model.Feeds)
	if err != nil {
		panic(fmt.Errorf("failed to set up feeds: %w", err))
	}
	a.hub = hub

	formulas, err := a.compileFormulas(ctx)
	if err != nil {
		panic(err)
	}
	a.formulas = formulas
	logger.Debug("Formulas compiled.", "count", len(formulas))

	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Hub returns the application's feed hub, nil in docs mode.
func (a *App) Hub() *feed.Hub {
	return a.hub
}

// LastReport returns the most recent evaluation report, or nil.
func (a *App) LastReport() *Report {
	a.lastMu.RLock()
	defer a.lastMu.RUnlock()
	return a.last
}
