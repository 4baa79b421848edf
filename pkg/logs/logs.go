package logs

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Alijeyrad/klinik_backend/config"
)

// New builds the process logger. Local sinks (stdout, rotated file) share one
// encoder; Loki gets its own handler and both are fanned out together.
func New(cfg *config.Config) *slog.Logger {
	level := ParseLevel(cfg.Logging.Level)
	out := cfg.Logging.Output

	handlers := make([]slog.Handler, 0, 2)
	if w := localWriter(out); w != nil {
		handlers = append(handlers, localHandler(w, cfg, level))
	}
	if out.Loki.Enabled {
		h, err := newLokiHandler(out.Loki, level)
		if err != nil {
			slog.Error("logs: loki sink disabled", "error", err)
		} else {
			handlers = append(handlers, h)
		}
	}

	var root slog.Handler
	switch len(handlers) {
	case 0:
		// Loki was the only sink and failed.
		root = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	case 1:
		root = handlers[0]
	default:
		root = &multiHandler{handlers: handlers}
	}

	return slog.New(root).With(
		slog.String("service", cfg.Observability.ServiceName),
		slog.String("version", cfg.Observability.ServiceVersion),
		slog.String("env", cfg.Server.Environment),
	)
}

// localWriter returns nil when only Loki is configured. With nothing
// configured at all, stdout is used.
func localWriter(out config.OutputConfig) io.Writer {
	var ws []io.Writer
	if out.Stdout || (!out.File.Enabled && !out.Loki.Enabled) {
		ws = append(ws, os.Stdout)
	}
	if out.File.Enabled {
		ws = append(ws, &lumberjack.Logger{
			Filename:   out.File.Path,
			MaxSize:    out.File.MaxSizeMB,
			MaxBackups: out.File.MaxBackups,
			MaxAge:     out.File.MaxAgeDays,
			Compress:   out.File.Compress,
		})
	}
	switch len(ws) {
	case 0:
		return nil
	case 1:
		return ws[0]
	}
	return io.MultiWriter(ws...)
}

// localHandler emits text only in development when the format is not json.
func localHandler(w io.Writer, cfg *config.Config, level slog.Level) slog.Handler {
	dev := strings.EqualFold(cfg.Server.Environment, "development")
	opts := &slog.HandlerOptions{Level: level, AddSource: dev}
	if dev && !strings.EqualFold(cfg.Logging.Format, "json") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
