// Package logging provides structured logging setup for the prospect tracker.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup initializes the default slog logger.
// Dev mode uses human-readable text at debug level; prod uses JSON at info.
// A non-empty level overrides the mode's default level.
func Setup(devMode bool, level string) error {
	handler, err := NewHandler(os.Stdout, devMode, level)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// NewHandler builds the handler Setup installs, writing to w.
func NewHandler(w io.Writer, devMode bool, level string) (slog.Handler, error) {
	lvl := slog.LevelInfo
	if devMode {
		lvl = slog.LevelDebug
	}
	if level != "" {
		parsed, err := ParseLevel(level)
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if devMode {
		return slog.NewTextHandler(w, opts), nil
	}
	return slog.NewJSONHandler(w, opts), nil
}

// ParseLevel converts debug, info, warn or error to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}
