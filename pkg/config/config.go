// Package config loads the rbtree binary settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/redblack/pkg/observability"
	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
	"github.com/Sumatoshi-tech/redblack/pkg/render"
)

// Sentinel validation errors.
var (
	ErrInvalidLogFormat  = errors.New("log format must be text or json")
	ErrInvalidThreshold  = errors.New("hibernation threshold must not be negative")
	ErrInvalidBenchCount = errors.New("bench count must be positive")
	ErrInvalidArenaSize  = errors.New("invalid arena size")
)

// EnvPrefix is prepended to every environment override, e.g. RBTREE_RENDER_FORMAT.
const EnvPrefix = "RBTREE"

// Config holds all configuration for the rbtree binary.
type Config struct {
	Render    RenderConfig    `mapstructure:"render"`
	Arena     ArenaConfig     `mapstructure:"arena"`
	Bench     BenchConfig     `mapstructure:"bench"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// RenderConfig selects how trees are printed.
type RenderConfig struct {
	Format string `mapstructure:"format"`
	Order  string `mapstructure:"order"`
	Title  string `mapstructure:"title"`
	Color  bool   `mapstructure:"color"`
}

// ArenaConfig tunes the node allocator.
type ArenaConfig struct {
	HibernationThreshold int `mapstructure:"hibernation_threshold"`
}

// BenchConfig holds the bench command settings.
type BenchConfig struct {
	// MaxArena caps the allocator footprint, e.g. "64MiB". Empty means no limit.
	MaxArena string `mapstructure:"max_arena"`
	Count    int    `mapstructure:"count"`
	Seed     int64  `mapstructure:"seed"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds the OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	MetricsAddr  string `mapstructure:"metrics_addr"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
}

// LoadConfig loads configuration from file and environment variables.
// An empty configPath searches rbtree.yaml in the usual places and tolerates
// its absence; an explicit path must exist.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("rbtree")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("$HOME/.config/rbtree")
	}

	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Format: DefaultRenderFormat,
			Order:  DefaultRenderOrder,
			Title:  DefaultRenderTitle,
			Color:  DefaultRenderColor,
		},
		Arena: ArenaConfig{HibernationThreshold: DefaultHibernationThreshold},
		Bench: BenchConfig{
			MaxArena: DefaultBenchMaxArena,
			Count:    DefaultBenchCount,
			Seed:     DefaultBenchSeed,
		},
		Logging: LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: DefaultOTLPEndpoint,
			MetricsAddr:  DefaultMetricsAddr,
			OTLPInsecure: DefaultOTLPInsecure,
		},
	}
}

func setDefaults(viperCfg *viper.Viper) {
	// Render defaults.
	viperCfg.SetDefault("render.format", DefaultRenderFormat)
	viperCfg.SetDefault("render.order", DefaultRenderOrder)
	viperCfg.SetDefault("render.color", DefaultRenderColor)
	viperCfg.SetDefault("render.title", DefaultRenderTitle)

	viperCfg.SetDefault("arena.hibernation_threshold", DefaultHibernationThreshold)

	// Bench defaults.
	viperCfg.SetDefault("bench.count", DefaultBenchCount)
	viperCfg.SetDefault("bench.seed", DefaultBenchSeed)
	viperCfg.SetDefault("bench.max_arena", DefaultBenchMaxArena)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	// Telemetry defaults.
	viperCfg.SetDefault("telemetry.otlp_endpoint", DefaultOTLPEndpoint)
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultOTLPInsecure)
	viperCfg.SetDefault("telemetry.metrics_addr", DefaultMetricsAddr)
}

// validateConfig validates the configuration and normalises the enumerated
// values to their canonical spelling.
func validateConfig(config *Config) error {
	format, err := render.ParseFormat(config.Render.Format)
	if err != nil {
		return err
	}

	config.Render.Format = string(format)

	order, err := rbtree.ParseOrder(config.Render.Order)
	if err != nil {
		return err
	}

	config.Render.Order = order.String()

	if config.Arena.HibernationThreshold < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidThreshold, config.Arena.HibernationThreshold)
	}

	if config.Bench.Count <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBenchCount, config.Bench.Count)
	}

	if _, err = config.Bench.MaxArenaBytes(); err != nil {
		return err
	}

	if _, err = observability.ParseLogLevel(config.Logging.Level); err != nil {
		return err
	}

	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	if config.Logging.Format != "text" && config.Logging.Format != "json" {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	return nil
}

// MaxArenaBytes parses MaxArena. Zero means unlimited.
func (bench BenchConfig) MaxArenaBytes() (uint64, error) {
	if strings.TrimSpace(bench.MaxArena) == "" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(bench.MaxArena)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidArenaSize, bench.MaxArena)
	}

	return size, nil
}

// RenderOptions converts the render section for render.Write.
// The values were validated by LoadConfig, so parse errors fall back to defaults.
func (config *Config) RenderOptions() (render.Format, render.Options) {
	format, err := render.ParseFormat(config.Render.Format)
	if err != nil {
		format = render.FormatTree
	}

	order, err := rbtree.ParseOrder(config.Render.Order)
	if err != nil {
		order = rbtree.InOrder
	}

	return format, render.Options{Color: config.Render.Color, Order: order, Title: config.Render.Title}
}

// Observability builds the telemetry configuration for the given mode.
func (config *Config) Observability(mode observability.AppMode) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = config.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = config.Telemetry.OTLPInsecure
	obsCfg.PrometheusExport = config.Telemetry.MetricsAddr != ""
	obsCfg.LogJSON = config.Logging.Format == "json"

	if level, err := observability.ParseLogLevel(config.Logging.Level); err == nil {
		obsCfg.LogLevel = level
	}

	return obsCfg
}
