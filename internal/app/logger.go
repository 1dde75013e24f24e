package app

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"prosupload/internal/config"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// runLogger returns the logger for one run, tagged with a fresh run id.
// --verbose wins over the configured level; an unknown level means info.
func runLogger(cfg config.Log, verbose bool, w io.Writer) *slog.Logger {
	level, ok := logLevels[cfg.Level]
	if !ok {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("run", uuid.NewString())
}
