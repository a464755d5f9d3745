package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/best-combination/internal/knapsack"
	"github.com/eugenenazirov/best-combination/internal/storage"
	"github.com/eugenenazirov/best-combination/internal/validation"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultWeightDecimals = 2
	defaultMaxItems       = 15
	defaultLogLevel       = "info"
)

var defaultLimit = decimal.NewFromInt(100)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	WeightDecimals       int
	MaxItems             int
	MaxItemWeight        decimal.Decimal
	MaxItemPrice         decimal.Decimal
	MaxBoxWeight         decimal.Decimal
	CacheSize            int
	LogLevel             string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// Constraints returns the request limits enforced by validation.
func (c Config) Constraints() validation.Constraints {
	return validation.Constraints{
		MaxItems:       c.MaxItems,
		MaxItemWeight:  c.MaxItemWeight,
		MaxItemPrice:   c.MaxItemPrice,
		MaxBoxWeight:   c.MaxBoxWeight,
		WeightDecimals: c.WeightDecimals,
	}
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string          `yaml:"port"`
	DataFormat           yamlDataFormat  `yaml:"data_format"`
	Constraints          yamlConstraints `yaml:"constraints"`
	CacheSize            *int            `yaml:"cache_size"`
	LogLevel             string          `yaml:"log_level"`
	ShutdownGracePeriod  string          `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string          `yaml:"read_header_timeout"`
	WriteTimeout         string          `yaml:"write_timeout"`
	IdleTimeout          string          `yaml:"idle_timeout"`
	EnableRequestLogging *bool           `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit   `yaml:"rate_limit"`
}

type yamlDataFormat struct {
	WeightDecimals *int `yaml:"weight_decimals"`
}

type yamlConstraints struct {
	Items struct {
		MaxNumber int    `yaml:"max_number"`
		MaxWeight string `yaml:"max_weight"`
		MaxPrice  string `yaml:"max_price"`
	} `yaml:"items"`
	Box struct {
		MaxWeight string `yaml:"max_weight"`
	} `yaml:"box"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	WeightDecimals *int
	MaxItems       *int
	CacheSize      *int
	LogLevel       *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Apply environment variables
	if err := applyEnvConfig(&cfg); err != nil {
		return Config{}, err
	}

	// Load from YAML file if specified (overrides env)
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	// Validate final configuration
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		WeightDecimals:       defaultWeightDecimals,
		MaxItems:             defaultMaxItems,
		MaxItemWeight:        defaultLimit,
		MaxItemPrice:         defaultLimit,
		MaxBoxWeight:         defaultLimit,
		CacheSize:            storage.DefaultSize,
		LogLevel:             defaultLogLevel,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if yamlCfg.DataFormat.WeightDecimals != nil {
		cfg.WeightDecimals = *yamlCfg.DataFormat.WeightDecimals
	}

	if yamlCfg.Constraints.Items.MaxNumber > 0 {
		cfg.MaxItems = yamlCfg.Constraints.Items.MaxNumber
	}

	limits := []struct {
		raw  string
		name string
		dst  *decimal.Decimal
	}{
		{yamlCfg.Constraints.Items.MaxWeight, "constraints.items.max_weight", &cfg.MaxItemWeight},
		{yamlCfg.Constraints.Items.MaxPrice, "constraints.items.max_price", &cfg.MaxItemPrice},
		{yamlCfg.Constraints.Box.MaxWeight, "constraints.box.max_weight", &cfg.MaxBoxWeight},
	}
	for _, limit := range limits {
		if limit.raw == "" {
			continue
		}
		value, err := parseLimit(limit.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", limit.name, err)
		}
		*limit.dst = value
	}

	if yamlCfg.CacheSize != nil {
		cfg.CacheSize = *yamlCfg.CacheSize
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	if yamlCfg.ShutdownGracePeriod != "" {
		if d, err := time.ParseDuration(yamlCfg.ShutdownGracePeriod); err == nil {
			cfg.ShutdownGracePeriod = d
		}
	}

	if yamlCfg.ReadHeaderTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.ReadHeaderTimeout); err == nil {
			cfg.ReadHeaderTimeout = d
		}
	}

	if yamlCfg.WriteTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.WriteTimeout); err == nil {
			cfg.WriteTimeout = d
		}
	}

	if yamlCfg.IdleTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.IdleTimeout); err == nil {
			cfg.IdleTimeout = d
		}
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}

	if yamlCfg.RateLimit.RPS != nil && *yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst != nil && *yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}

	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) error {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"WEIGHT_DECIMALS", &cfg.WeightDecimals},
		{"MAX_ITEMS", &cfg.MaxItems},
		{"CACHE_SIZE", &cfg.CacheSize},
	}
	for _, v := range ints {
		raw := strings.TrimSpace(os.Getenv(v.env))
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", v.env, raw)
		}
		*v.dst = value
	}

	limits := []struct {
		env string
		dst *decimal.Decimal
	}{
		{"MAX_ITEM_WEIGHT", &cfg.MaxItemWeight},
		{"MAX_ITEM_PRICE", &cfg.MaxItemPrice},
		{"MAX_BOX_WEIGHT", &cfg.MaxBoxWeight},
	}
	for _, v := range limits {
		raw := strings.TrimSpace(os.Getenv(v.env))
		if raw == "" {
			continue
		}
		value, err := parseLimit(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", v.env, err)
		}
		*v.dst = value
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.WeightDecimals != nil {
		cfg.WeightDecimals = *overrides.WeightDecimals
	}

	if overrides.MaxItems != nil {
		cfg.MaxItems = *overrides.MaxItems
	}

	if overrides.CacheSize != nil {
		cfg.CacheSize = *overrides.CacheSize
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.WeightDecimals < 0 {
		return fmt.Errorf("WEIGHT_DECIMALS must be >= 0")
	}
	if cfg.MaxItems <= 0 {
		return fmt.Errorf("MAX_ITEMS must be > 0")
	}
	if cfg.CacheSize < 0 {
		return fmt.Errorf("CACHE_SIZE must be >= 0")
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}

	// The worst-case request must still fit into one combination table.
	rescaler, err := knapsack.NewRescaler(cfg.WeightDecimals)
	if err != nil {
		return err
	}
	if _, err := knapsack.TableCells(cfg.MaxItems, rescaler.Rescale(cfg.MaxBoxWeight)); err != nil {
		return fmt.Errorf("constraints exceed table limits: %w", err)
	}
	return nil
}

// parseLimit parses a non-negative decimal limit.
func parseLimit(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid decimal %q", raw)
	}
	if value.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("limit must be non-negative, got %s", value)
	}
	return value, nil
}
