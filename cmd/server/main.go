package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/best-combination/internal/application"
	"github.com/eugenenazirov/best-combination/internal/config"
	"github.com/eugenenazirov/best-combination/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	overrides, err := parseOverrides(os.Args[1:])
	kingpin.FatalIfError(err, "invalid arguments")

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.Int("weight_decimals", cfg.WeightDecimals),
		zap.Int("max_items", cfg.MaxItems),
		zap.String("max_box_weight", cfg.MaxBoxWeight.String()),
		zap.Int("cache_size", cfg.CacheSize),
	)

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

// parseOverrides turns command-line arguments into configuration overrides.
// Flags left at their sentinel defaults do not override lower layers.
func parseOverrides(args []string) (*config.CLIOverrides, error) {
	kingpinApp := kingpin.New("best-combination", "Best Combination - selects the most valuable set of items that fits a weight limit")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	weightDecimals := kingpinApp.Flag("weight-decimals", "Decimal places allowed in weights").Default("-1").Int()
	maxItems := kingpinApp.Flag("max-items", "Maximum number of items per request").Default("-1").Int()
	cacheSize := kingpinApp.Flag("cache-size", "Number of cached results (set 0 to disable)").Default("-1").Int()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	rateLimitRPSFlag := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	if _, err := kingpinApp.Parse(args); err != nil {
		return nil, err
	}

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}

	if *port != "" {
		overrides.Port = port
	}

	if *weightDecimals >= 0 {
		overrides.WeightDecimals = weightDecimals
	}

	if *maxItems >= 0 {
		overrides.MaxItems = maxItems
	}

	if *cacheSize >= 0 {
		overrides.CacheSize = cacheSize
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	return overrides, nil
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
