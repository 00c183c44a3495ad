package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bplog/internal/backend"
	"bplog/internal/config"
	"bplog/internal/core"
	"bplog/internal/storage/memory"
)

type harness struct {
	app    *App
	store  *memory.Store
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(t *testing.T, now time.Time) *harness {
	t.Helper()
	store := memory.New()
	h := &harness{store: store, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.app = &App{
		Config: &config.Config{
			DataBackend:      config.BackendMemory,
			ReportOutputPath: filepath.Join(t.TempDir(), "pdf", "blood_pressure_records.pdf"),
			ReportLocale:     "en",
			LogLevel:         "error",
			Location:         time.UTC,
		},
		Backend: &backend.BackendResult{Backend: store},
		Stdout:  h.stdout,
		Stderr:  h.stderr,
		Now:     func() time.Time { return now },
	}
	return h
}

func (h *harness) run(args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	return Execute(h.app, args)
}

func TestLogCommand(t *testing.T) {
	h := newHarness(t, time.Date(2025, 7, 1, 7, 45, 12, 0, time.UTC))

	if code := h.run("log", "120", "80", "65"); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, h.stderr.String())
	}
	want := "Recorded: 2025-07-01 07:45:12 - 120/80, Pulse: 65 (Morning)\n"
	if h.stdout.String() != want {
		t.Fatalf("stdout = %q, want %q", h.stdout.String(), want)
	}

	if code := h.run("log", "130", "85", "70", "n"); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), "(Night)") {
		t.Fatalf("override not applied: %q", h.stdout.String())
	}
	if h.store.Len() != 2 {
		t.Fatalf("expected 2 stored measurements, got %d", h.store.Len())
	}
}

func TestLogCommandAcceptsNegativeIntegers(t *testing.T) {
	h := newHarness(t, time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC))

	if code := h.run("log", "120", "80", "-5"); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, h.stderr.String())
	}
	want := "Recorded: 2025-07-01 12:00:00 - 120/80, Pulse: -5 (Unspecified)\n"
	if h.stdout.String() != want {
		t.Fatalf("stdout = %q, want %q", h.stdout.String(), want)
	}

	if code := h.run("log", "-1", "0", "-70", "M"); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, h.stderr.String())
	}
	if h.store.Len() != 2 {
		t.Fatalf("expected 2 stored measurements, got %d", h.store.Len())
	}
}

func TestLogCommandHelp(t *testing.T) {
	h := newHarness(t, time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC))

	if code := h.run("log", "--help"); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), "Usage:") {
		t.Fatalf("expected help text, got %q", h.stdout.String())
	}
	if h.store.Len() != 0 {
		t.Fatalf("help must not store anything")
	}
}

func TestUnknownFlagPrintsUsage(t *testing.T) {
	h := newHarness(t, time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC))

	if code := h.run("report", "-x"); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if !strings.Contains(h.stderr.String(), "Usage:") {
		t.Fatalf("expected usage message, got %q", h.stderr.String())
	}
}

func TestLogCommandInvalidInput(t *testing.T) {
	h := newHarness(t, time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC))

	cases := [][]string{
		{"log", "abc", "80", "65"},
		{"log", "120", "80"},
		{"log", "120", "80", "-"},
		{"log", "120", "80", "--5"},
		{"log", "120", "80", "65", "X"},
		{"log", "120", "80", "65", "M", "extra"},
	}
	for _, args := range cases {
		if code := h.run(args...); code != 1 {
			t.Errorf("%v: exit code %d, want 1", args, code)
		}
		if !strings.Contains(h.stderr.String(), "Usage:") {
			t.Errorf("%v: expected usage message, got %q", args, h.stderr.String())
		}
	}
	if h.store.Len() != 0 {
		t.Fatalf("invalid input must not store anything")
	}
}

func TestReportCommand(t *testing.T) {
	h := newHarness(t, time.Date(2025, 7, 20, 21, 0, 0, 0, time.UTC))
	h.store.Insert(context.Background(), core.Measurement{
		Timestamp: time.Date(2025, 7, 2, 8, 0, 0, 0, time.UTC), Systolic: 120, Diastolic: 80, Pulse: 60, Period: core.PeriodMorning,
	})

	if code := h.run("report", "202507"); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, h.stderr.String())
	}
	path := h.app.Config.ReportOutputPath
	if h.stdout.String() != "PDF saved as: "+path+"\n" {
		t.Fatalf("stdout = %q", h.stdout.String())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("report not written: %v", err)
	}

	// No argument defaults to the current month
	if code := h.run("report"); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, h.stderr.String())
	}
}

func TestReportCommandInvalidInput(t *testing.T) {
	h := newHarness(t, time.Now())
	for _, args := range [][]string{{"report", "202513"}, {"report", "202500"}, {"report", "2025-07"}, {"report", "202501", "202502"}} {
		if code := h.run(args...); code != 1 {
			t.Errorf("%v: exit code %d, want 1", args, code)
		}
		if !strings.Contains(h.stderr.String(), "Usage:") {
			t.Errorf("%v: expected usage message, got %q", args, h.stderr.String())
		}
	}
}

func TestReportCommandOutputError(t *testing.T) {
	h := newHarness(t, time.Date(2025, 7, 20, 21, 0, 0, 0, time.UTC))
	blocker := filepath.Join(t.TempDir(), "pdf")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	h.app.Config.ReportOutputPath = filepath.Join(blocker, "out.pdf")

	if code := h.run("report", "202507"); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if strings.Contains(h.stderr.String(), "Usage:") {
		t.Fatalf("output errors should not print usage: %q", h.stderr.String())
	}
}
