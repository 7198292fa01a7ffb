// Package observability sets up the structured logger and the metrics
// pipeline shared by the heartrisk CLI and daemon.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Output  io.Writer // defaults to os.Stdout
	Level   string    // debug, info, warn or error; offsets such as warn+2 are allowed
	Format  string    // json or text
	Service string    // added as a "service" attribute when set
}

// InitLogger builds the logger described by cfg and installs it as the slog
// default. An unparsable level falls back to info; callers that care run
// ParseLevel during config validation.
func InitLogger(cfg LogConfig) *slog.Logger {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		level = slog.LevelInfo
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With(slog.String("service", cfg.Service))
	}
	slog.SetDefault(logger)
	return logger
}

// ParseLevel accepts the slog level names in any case plus "warning". An
// empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return slog.LevelInfo, nil
	case "warning":
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// ValidFormat reports whether f names a supported log format.
func ValidFormat(f string) bool {
	return f == "" || strings.EqualFold(f, "json") || strings.EqualFold(f, "text")
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
