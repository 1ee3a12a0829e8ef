// Package logging provides component-scoped structured loggers.
//
// All loggers share one slog handler. Output defaults to stderr at INFO and
// can be redirected with Setup, which the CLI does before starting the TUI so
// log lines do not corrupt the alternate screen.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// EnvLevel names the environment variable that overrides the log level.
const EnvLevel = "TYPETRACK_LOG_LEVEL"

var (
	mu   sync.Mutex
	base *slog.Logger
)

// Setup replaces the shared handler. An empty level falls back to the
// environment and then INFO.
func Setup(w io.Writer, level string) {
	if level == "" {
		level = os.Getenv(EnvLevel)
	}
	mu.Lock()
	defer mu.Unlock()
	base = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// New returns a logger tagged with component.
func New(component string) *slog.Logger {
	mu.Lock()
	if base == nil {
		base = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: ParseLevel(os.Getenv(EnvLevel)),
		}))
	}
	l := base
	mu.Unlock()
	if component == "" {
		return l
	}
	return l.With("component", component)
}

// ParseLevel converts debug, warn, warning or error to a slog level.
// Anything else is INFO.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
