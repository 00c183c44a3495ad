package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Component: ComponentApp, Output: &buf})

	logger.WithComponent(ComponentRecorder).Info("Measurement recorded", FieldSystolic, 120)

	out := buf.String()
	if !strings.Contains(out, "component=recorder") || !strings.Contains(out, "systolic=120") {
		t.Fatalf("unexpected log line: %q", out)
	}
	if strings.Count(out, "component=") != 1 {
		t.Fatalf("component should appear once: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatalf("expected fallback logger")
	}
	logger := New(Config{Component: ComponentCLI, Output: &bytes.Buffer{}})
	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Fatalf("expected logger from context")
	}
}
