// Package dlog sets up structured logging for urlgrep. All packages log
// through a component logger obtained with New, so every record carries the
// component it originated from. Logs always go to stderr by default; stdout
// is reserved for match output.
package dlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log formats understood by Start.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Start configures the global slog default with the given level and format.
// If w is nil, os.Stderr is used.
func Start(level slog.Level, format string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// New returns a logger with a "component" attribute for package scoped logging.
func New(component string) *slog.Logger {
	return slog.Default().With(slog.String("component", component))
}

// ParseLevel converts a level name (debug, info, warn, error) to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// ValidFormat reports whether format is a supported log format.
func ValidFormat(format string) bool {
	return format == FormatText || format == FormatJSON
}

// Discard silences all logging; used by tests and quiet runs.
func Discard() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
