// Package observability provides OpenTelemetry-based tracing, metrics, and
// structured logging for the rbtree binary (one-shot commands, REPL, benchmarks).
package observability

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// ErrInvalidLogLevel is returned when a log level name cannot be parsed.
var ErrInvalidLogLevel = errors.New("invalid log level")

// AppMode identifies the application execution mode.
type AppMode string

const (
	// ModeCLI is a one-shot command.
	ModeCLI AppMode = "cli"
	// ModeREPL is the interactive session.
	ModeREPL AppMode = "repl"
	// ModeBench is the benchmark command.
	ModeBench AppMode = "bench"
)

const (
	defaultServiceName     = "rbtree"
	defaultShutdownTimeout = 5 * time.Second
)

// Config holds all observability configuration.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the semantic version of the running binary.
	ServiceVersion string

	// Mode identifies how the binary was launched.
	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables push export.
	OTLPEndpoint string

	// OTLPInsecure disables TLS for the OTLP gRPC connection.
	OTLPInsecure bool

	// PrometheusExport adds a pull reader and fills Providers.MetricsHandler.
	PrometheusExport bool

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// LogJSON enables JSON-formatted log output.
	LogJSON bool

	// LogOutput receives the log records. Nil means os.Stderr.
	LogOutput io.Writer

	// ShutdownTimeout bounds the final flush. Zero means five seconds.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:     defaultServiceName,
		Mode:            ModeCLI,
		LogLevel:        slog.LevelInfo,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// ParseLogLevel converts "debug", "info", "warn" or "error" (any case, with
// optional offsets such as "warn+2") into a slog level.
func ParseLogLevel(name string) (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(strings.TrimSpace(name)))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, name)
	}

	return level, nil
}
