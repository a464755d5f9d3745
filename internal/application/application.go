package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/eugenenazirov/best-combination/internal/api"
	"github.com/eugenenazirov/best-combination/internal/config"
	"github.com/eugenenazirov/best-combination/internal/knapsack"
	"github.com/eugenenazirov/best-combination/internal/metrics"
	"github.com/eugenenazirov/best-combination/internal/solver"
	"github.com/eugenenazirov/best-combination/internal/storage"
	"github.com/eugenenazirov/best-combination/internal/validation"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	cache    storage.Storage
	registry *prometheus.Registry
	solver   solver.Solver
	handler  *api.Handler
	router   http.Handler
	logger   *zap.Logger
	server   *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	rescaler, err := knapsack.NewRescaler(cfg.WeightDecimals)
	if err != nil {
		return nil, fmt.Errorf("invalid weight decimals: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	opts := []solver.Option{
		solver.WithLogger(logger),
		solver.WithMetrics(m),
	}

	var cache storage.Storage
	if cfg.CacheSize > 0 {
		store, err := storage.NewMemoryStorage(cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
		cache = store
		opts = append(opts, solver.WithCache(store))
	}

	s := solver.New(rescaler, opts...)
	handler := api.NewHandler(s, validation.New(cfg.Constraints()))
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		cache:    cache,
		registry: registry,
		solver:   s,
		handler:  handler,
		router:   apiRouter,
		logger:   logger,
		server:   NewServer(cfg, BuildRootHandler(apiRouter, registry)),
	}, nil
}

// BuildRootHandler mounts the API router under /api/ and the Prometheus
// exposition endpoint at /metrics.
func BuildRootHandler(apiHandler http.Handler, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Handler returns the root HTTP handler served by the application.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}
