package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"bplog/internal/amqp"
	"bplog/internal/core"
	"bplog/internal/report"
	"bplog/internal/services"
	"bplog/internal/storage/memory"
)

type stubExporter struct {
	calls [][2]int
	err   error
}

func (s *stubExporter) Export(_ context.Context, year, month int) (services.ExportResult, error) {
	s.calls = append(s.calls, [2]int{year, month})
	return services.ExportResult{Path: "out.pdf"}, s.err
}

func TestHandleMeasurementRecordedUsesWorkerLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	exp := &stubExporter{}
	w := NewReportWorker(exp, tokyo)

	// 2025-12-31 20:00 UTC is already January in Tokyo
	msg := &amqp.MeasurementRecordedMessage{ID: 1, Timestamp: time.Date(2025, 12, 31, 20, 0, 0, 0, time.UTC)}
	if err := w.HandleMeasurementRecorded(context.Background(), msg); err != nil {
		t.Fatalf("HandleMeasurementRecorded: %v", err)
	}
	if len(exp.calls) != 1 || exp.calls[0] != [2]int{2026, 1} {
		t.Fatalf("unexpected export calls %v", exp.calls)
	}
}

func TestHandleMeasurementRecordedPropagatesError(t *testing.T) {
	boom := errors.New("disk full")
	w := NewReportWorker(&stubExporter{err: boom}, time.UTC)
	err := w.HandleMeasurementRecorded(context.Background(), &amqp.MeasurementRecordedMessage{ID: 1, Timestamp: time.Now()})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped export error, got %v", err)
	}
}

func TestHandleMeasurementRecordedDropsUnexportableMessages(t *testing.T) {
	// Year 0 is outside the reportable range, retrying can never succeed
	rep := services.NewReporter(memory.New(), services.ReporterConfig{OutputPath: filepath.Join(t.TempDir(), "out.pdf"), Location: time.UTC})
	w := NewReportWorker(rep, time.UTC)
	msg := &amqp.MeasurementRecordedMessage{ID: 1, Timestamp: time.Date(0, 6, 1, 8, 0, 0, 0, time.UTC)}
	if err := w.HandleMeasurementRecorded(context.Background(), msg); err != nil {
		t.Fatalf("expected message to be dropped, got %v", err)
	}

	for _, err := range []error{
		&core.InvalidInputError{Field: "month", Value: "13", Reason: "must be between 1 and 12"},
		report.ErrFontRequired,
	} {
		w := NewReportWorker(&stubExporter{err: err}, time.UTC)
		if got := w.HandleMeasurementRecorded(context.Background(), &amqp.MeasurementRecordedMessage{ID: 2, Timestamp: time.Now()}); got != nil {
			t.Errorf("%v: expected drop, got %v", err, got)
		}
	}
}
