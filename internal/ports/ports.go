package ports

import (
	"context"
	"iter"

	"bplog/internal/core"
)

// Ports for outbound adapters.
type (
	// MeasurementWriter appends measurements. There is no update or delete.
	MeasurementWriter interface {
		// Insert stores m and returns it with its storage assigned ID.
		Insert(ctx context.Context, m core.Measurement) (core.Measurement, error)
	}

	// MeasurementLister reads measurements back for reporting.
	MeasurementLister interface {
		// Measurements yields every measurement in w ordered by timestamp then ID.
		// Each range over the result runs a fresh query.
		Measurements(ctx context.Context, w core.Window) iter.Seq2[core.Measurement, error]
	}

	// RecordedPublisher announces newly stored measurements.
	RecordedPublisher interface {
		PublishMeasurementRecorded(ctx context.Context, m core.Measurement) error
	}
)
