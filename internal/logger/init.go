package logger

import (
	"io"
	"log/slog"
	"os"
)

// InitLogger installs a process-wide default logger built from the config.
func InitLogger(cfg Config) {
	InitLoggerWithWriter(cfg, os.Stdout)
}

// InitLoggerWithWriter is InitLogger with an explicit destination, used by
// tests to capture output.
func InitLoggerWithWriter(cfg Config, w io.Writer) {
	opts := &slog.HandlerOptions{
		Level:     cfg.LogLevel(),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.IsJSON() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler.WithAttrs(cfg.BaseAttributes())))
}
