// Package logging provides structured logging for rawping.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// timeLayout matches the standard library's log.LstdFlags output.
const timeLayout = "2006/01/02 15:04:05"

// NewLogger creates a structured logger writing to stderr, so that log
// records never interleave with result lines on stdout.
// Supported levels: debug, info, warn, error
// Supported formats: text, json
func NewLogger(level, format string) *slog.Logger {
	return NewLoggerWithWriter(level, format, os.Stderr)
}

// NewLoggerWithWriter creates a new structured logger with a custom writer.
func NewLoggerWithWriter(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		opts.ReplaceAttr = shortTime
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// ForComponent returns a child logger tagged with the component name.
func ForComponent(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = NopLogger()
	}
	return logger.With(slog.String(KeyComponent, name))
}

// shortTime renders the record timestamp in the compact text layout.
func shortTime(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && len(groups) == 0 {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format(timeLayout))
		}
	}
	return a
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Common attribute keys for consistent logging.
const (
	KeyComponent = "component"
	KeyHost      = "host"
	KeyAddress   = "address"
	KeyFrom      = "from"
	KeySeq       = "seq"
	KeyType      = "icmp_type"
	KeyCode      = "icmp_code"
	KeyTTL       = "ttl"
	KeyRTT       = "rtt"
	KeyReason    = "reason"
	KeyError     = "error"
	KeyDuration  = "duration"
	KeyCount     = "count"
)
