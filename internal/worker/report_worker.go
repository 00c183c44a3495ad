package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bplog/internal/amqp"
	"bplog/internal/core"
	"bplog/internal/report"
	"bplog/internal/services"
)

// Exporter regenerates the report of one month
type Exporter interface {
	Export(ctx context.Context, year, month int) (services.ExportResult, error)
}

// ReportWorker rebuilds the monthly report whenever a measurement lands in it
type ReportWorker struct {
	exporter Exporter
	loc      *time.Location
}

func NewReportWorker(exporter Exporter, loc *time.Location) *ReportWorker {
	if loc == nil {
		loc = time.Local
	}
	return &ReportWorker{
		exporter: exporter,
		loc:      loc,
	}
}

// HandleMeasurementRecorded processes a single message from AMQP
func (w *ReportWorker) HandleMeasurementRecorded(ctx context.Context, msg *amqp.MeasurementRecordedMessage) error {
	ts := msg.Timestamp.In(w.loc)
	year, month := ts.Year(), int(ts.Month())

	slog.InfoContext(ctx, "Processing measurement recorded message",
		"id", msg.ID,
		"year", year,
		"month", month)

	res, err := w.exporter.Export(ctx, year, month)
	if err != nil {
		if permanent(err) {
			// Redelivery would fail the same way, so the message is acked and dropped
			slog.WarnContext(ctx, "Dropping measurement message that cannot be exported",
				"id", msg.ID,
				"year", year,
				"month", month,
				"error", err)
			return nil
		}
		return fmt.Errorf("export report %04d-%02d: %w", year, month, err)
	}

	slog.InfoContext(ctx, "Report regenerated",
		"id", msg.ID,
		"path", res.Path,
		"rows", res.Rows)

	return nil
}

func permanent(err error) bool {
	var inv *core.InvalidInputError
	return errors.As(err, &inv) || errors.Is(err, report.ErrFontRequired)
}
