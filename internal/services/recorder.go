package services

import (
	"context"
	"errors"
	"time"

	"bplog/internal/core"
	"bplog/internal/log"
	"bplog/internal/ports"
)

// Recorder stamps, classifies and stores single measurements
type Recorder struct {
	writer    ports.MeasurementWriter
	publisher ports.RecordedPublisher
	now       func() time.Time
}

// NewRecorder creates a recorder. publisher may be nil.
func NewRecorder(writer ports.MeasurementWriter, publisher ports.RecordedPublisher) *Recorder {
	return &Recorder{
		writer:    writer,
		publisher: publisher,
		now:       time.Now,
	}
}

// WithClock replaces the clock used to stamp measurements
func (s *Recorder) WithClock(now func() time.Time) *Recorder {
	s.now = now
	return s
}

// Record stores one measurement taken now. PeriodUnset as override means the
// period is inferred from the current hour.
func (s *Recorder) Record(ctx context.Context, r core.Reading, override core.TimePeriod) (core.Measurement, error) {
	logger := log.FromContext(ctx).WithComponent(log.ComponentRecorder)

	m, err := core.NewMeasurement(r, s.now(), override)
	if err != nil {
		return core.Measurement{}, err
	}

	saved, err := s.writer.Insert(ctx, m)
	if err != nil {
		var perr *core.PersistenceError
		if !errors.As(err, &perr) {
			err = &core.PersistenceError{Op: "insert", Err: err}
		}
		logger.ErrorContext(ctx, "Failed to store measurement",
			log.NewFields().WithOperation(log.OpRecord).WithError(err).ToSlice()...)
		return core.Measurement{}, err
	}

	logger.InfoContext(ctx, "Measurement recorded",
		log.NewFields().
			WithOperation(log.OpRecord).
			WithMeasurement(saved.ID, saved.Systolic, saved.Diastolic, saved.Pulse, saved.Period.String()).
			ToSlice()...)

	// Publishing is best effort, the measurement is already stored locally
	if s.publisher != nil {
		if err := s.publisher.PublishMeasurementRecorded(ctx, saved); err != nil {
			logger.WarnContext(ctx, "Failed to publish measurement recorded message",
				log.FieldID, saved.ID, log.FieldError, err)
		}
	}

	return saved, nil
}
