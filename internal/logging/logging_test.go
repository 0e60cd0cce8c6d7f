package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerWithWriter_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelInfo, "text", &buf)

	logger.Info("login succeeded", "role", "teacher")

	output := buf.String()
	if !strings.Contains(output, "login succeeded") {
		t.Errorf("expected message in output, got: %s", output)
	}
	if !strings.Contains(output, "role=teacher") {
		t.Errorf("expected 'role=teacher' in output, got: %s", output)
	}
}

func TestNewLoggerWithWriter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelInfo, "JSON", &buf)

	logger.Info("login succeeded", "role", "teacher")

	output := buf.String()
	if !strings.Contains(output, `"msg":"login succeeded"`) {
		t.Errorf("expected JSON msg field in output, got: %s", output)
	}
	if !strings.Contains(output, `"role":"teacher"`) {
		t.Errorf("expected JSON role field in output, got: %s", output)
	}
}

func TestNewLoggerWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelWarn, "text", &buf)

	logger.Info("should not appear")
	logger.Warn("should appear")

	output := buf.String()
	if strings.Contains(output, "should not appear") {
		t.Errorf("INFO message should be filtered at WARN level, got: %s", output)
	}
	if !strings.Contains(output, "should appear") {
		t.Errorf("WARN message should appear at WARN level, got: %s", output)
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelDebug, "text", &buf)

	Component(logger, "auth").Debug("hydrate", "restored", true)

	output := buf.String()
	if !strings.Contains(output, "component=auth") {
		t.Errorf("expected component in output, got: %s", output)
	}
	if !strings.Contains(output, "restored=true") {
		t.Errorf("expected restored attr in output, got: %s", output)
	}
}

func TestComponent_NilLogger(t *testing.T) {
	// Must not panic.
	Component(nil, "store").Error("dropped")
	Discard().Error("dropped too")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" info ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseLevel_PaddedFlagValues(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"\tdebug\n", slog.LevelDebug},
		{"  WARNING  ", slog.LevelWarn},
		{"error\r\n", slog.LevelError},
		{" \t ", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewLoggerWithWriter_UnknownFormatIsText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelInfo, "yaml", &buf)

	logger.Info("session restored", "user", "u1")

	output := buf.String()
	if strings.HasPrefix(output, "{") {
		t.Errorf("unknown format should fall back to text, got: %s", output)
	}
	if !strings.Contains(output, "user=u1") {
		t.Errorf("expected text attr in output, got: %s", output)
	}
}

func TestDiscard_DropsErrors(t *testing.T) {
	if Discard().Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard logger should not be enabled at ERROR")
	}
	if Component(nil, "connection").Enabled(context.Background(), slog.LevelError) {
		t.Error("Component(nil) should fall back to the discard logger")
	}
}
