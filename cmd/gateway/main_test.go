package main

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerSelectsHandlerByFormat(t *testing.T) {
	textLog := newLogger("info", "text")
	if textLog == nil {
		t.Fatal("newLogger returned nil for text format")
	}
	if _, ok := textLog.Handler().(*slog.TextHandler); !ok {
		t.Fatalf("text format produced %T, want *slog.TextHandler", textLog.Handler())
	}
	if !textLog.Handler().Enabled(nil, slog.LevelInfo) {
		t.Fatal("text logger at info level must have info enabled")
	}
	if textLog.Handler().Enabled(nil, slog.LevelDebug) {
		t.Fatal("text logger at info level must not have debug enabled")
	}

	jsonLog := newLogger("debug", "json")
	if jsonLog == nil {
		t.Fatal("newLogger returned nil for json format")
	}
	if _, ok := jsonLog.Handler().(*slog.JSONHandler); !ok {
		t.Fatalf("json format produced %T, want *slog.JSONHandler", jsonLog.Handler())
	}
	if !jsonLog.Handler().Enabled(nil, slog.LevelDebug) {
		t.Fatal("debug logger must have debug enabled")
	}
}
