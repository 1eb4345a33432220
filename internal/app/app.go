package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/devicefarm/internal/config"
	"github.com/specialistvlad/devicefarm/internal/ctxlog"
	"github.com/specialistvlad/devicefarm/internal/hcl"
	"github.com/specialistvlad/devicefarm/internal/metrics"
	"github.com/specialistvlad/devicefarm/internal/registry"
	"github.com/specialistvlad/devicefarm/internal/session"
	"github.com/specialistvlad/devicefarm/internal/yamlfile"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	loaders    config.Mux
	registry   *registry.Registry
	promReg    *prometheus.Registry
	metrics    *metrics.Metrics
	api        session.API
	lookupEnv  func(string) (string, bool)
	modules    []registry.Module
	httpServer *http.Server
}

// Option customizes an App. Options exist mainly for tests.
type Option func(*App)

// WithAPI makes the app talk to api instead of dialing the farm named by the
// credentials.
func WithAPI(api session.API) Option {
	return func(a *App) { a.api = api }
}

// WithModules replaces the core action modules.
func WithModules(modules ...registry.Module) Option {
	return func(a *App) { a.modules = modules }
}

// WithLookupEnv replaces os.LookupEnv for credentials and recipe env() calls.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(a *App) { a.lookupEnv = lookup }
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, registry and
// metrics registry. It panics when the registered modules leave an action
// without a handler, since that is a programmer error.
func NewApp(outW io.Writer, cfg *Config, opts ...Option) *App {
	a := &App{
		outW:      outW,
		logger:    newLogger(cfg.LogLevel, cfg.LogFormat, outW),
		config:    cfg,
		lookupEnv: os.LookupEnv,
		promReg:   prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(a)
	}
	ctx := ctxlog.WithLogger(context.Background(), a.logger)
	a.logger.Debug("Logger configured successfully.")

	hclLoader := hcl.NewLoader()
	hclLoader.LookupEnv = a.lookupEnv
	yamlLoader := yamlfile.NewLoader()
	a.loaders = config.Mux{
		".hcl":  hclLoader,
		".yaml": yamlLoader,
		".yml":  yamlLoader,
		".json": yamlLoader,
	}

	custom := len(a.modules) > 0
	if !custom {
		a.modules = coreModules(cfg)
	}
	a.registry = registry.New(a.modules...)
	a.logger.Debug("All Go modules registered.", "count", len(a.modules))

	if err := a.registry.Validate(ctx); err != nil {
		if !custom {
			panic(err)
		}
		a.logger.Warn("Custom module set leaves actions unhandled.", "error", err)
	} else {
		a.logger.Debug("Registry validation passed.")
	}

	a.metrics = metrics.New(a.promReg)

	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Gatherer exposes the app's metrics registry.
func (a *App) Gatherer() prometheus.Gatherer {
	return a.promReg
}
