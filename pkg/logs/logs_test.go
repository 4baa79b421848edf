package logs

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMultiHandler(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}

	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("multiHandler should be enabled when any child is")
	}

	logger := slog.New(h).With("clinic_id", "c1")
	logger.Info("daybook: loaded")
	logger.Warn("daybook: stale")

	if got := strings.Count(debugBuf.String(), "\n"); got != 2 {
		t.Errorf("debug handler got %d lines, want 2", got)
	}
	if got := strings.Count(warnBuf.String(), "\n"); got != 1 {
		t.Errorf("warn handler got %d lines, want 1", got)
	}
	if !strings.Contains(warnBuf.String(), `"clinic_id":"c1"`) {
		t.Errorf("attrs not propagated: %s", warnBuf.String())
	}
}
