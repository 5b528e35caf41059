// Package logger sets up the structured logger of the pathstr tool.
//
// Library code logs through log/slog. The command line installs a
// charmbracelet/log handler and passes the logger down in the context.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Config configures the logger.
type Config struct {
	// Level is one of debug, info, warn or error.
	Level string
	// JSON switches to JSON output.
	JSON bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{Level: "info", Output: os.Stderr}
}

// ParseLevel converts a level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logger: unknown level %q", level)
	}
}

// New returns a slog logger backed by a charmbracelet/log handler.
func New(cfg *Config) (*slog.Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	handler := charmlog.NewWithOptions(out, charmlog.Options{
		Prefix: "pathstr",
		Level:  charmlog.Level(level),
	})
	if cfg.JSON {
		handler.SetFormatter(charmlog.JSONFormatter)
	}
	return slog.New(handler), nil
}

type ctxKey struct{}

// WithContext returns a copy of ctx carrying the logger.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.Default()
}
