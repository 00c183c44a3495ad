package services

import (
	"context"
	"errors"
	"iter"
	"time"

	"bplog/internal/core"
	"bplog/internal/log"
	"bplog/internal/ports"
	"bplog/internal/report"
)

// ReporterConfig carries what the reporter needs besides storage
type ReporterConfig struct {
	OutputPath string
	Labels     report.Labels
	Renderer   report.Renderer
	Location   *time.Location
}

// labelChecker is implemented by renderers that cannot draw every label set
type labelChecker interface {
	Supports(labels report.Labels) error
}

// Reporter selects a month of measurements and renders it
type Reporter struct {
	lister ports.MeasurementLister
	cfg    ReporterConfig
	now    func() time.Time
}

// ExportResult describes a written report
type ExportResult struct {
	Path   string
	Window core.Window
	Rows   int
}

func NewReporter(lister ports.MeasurementLister, cfg ReporterConfig) *Reporter {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Renderer == nil {
		cfg.Renderer = report.PDFRenderer{}
	}
	if cfg.Labels.Title == "" {
		cfg.Labels = report.English
	}
	return &Reporter{
		lister: lister,
		cfg:    cfg,
		now:    time.Now,
	}
}

// WithClock replaces the clock used for the generation timestamp
func (s *Reporter) WithClock(now func() time.Time) *Reporter {
	s.now = now
	return s
}

// Report returns the measurements of (year, month) in chronological order.
// The sequence is lazy: storage is queried each time it is ranged over.
func (s *Reporter) Report(ctx context.Context, year, month int) (iter.Seq2[core.Measurement, error], core.Window, error) {
	w, err := core.MonthWindow(year, month, s.cfg.Location)
	if err != nil {
		return nil, core.Window{}, err
	}

	inner := s.lister.Measurements(ctx, w)
	seq := func(yield func(core.Measurement, error) bool) {
		for m, err := range inner {
			if err != nil {
				var perr *core.PersistenceError
				if !errors.As(err, &perr) {
					err = &core.PersistenceError{Op: "select", Err: err}
				}
				yield(core.Measurement{}, err)
				return
			}
			if !yield(m, nil) {
				return
			}
		}
	}
	return seq, w, nil
}

// Export renders the report of (year, month) to the configured output path
func (s *Reporter) Export(ctx context.Context, year, month int) (ExportResult, error) {
	logger := log.FromContext(ctx).WithComponent(log.ComponentReporter)
	start := time.Now()

	seq, w, err := s.Report(ctx, year, month)
	if err != nil {
		return ExportResult{}, err
	}

	// A renderer/label mismatch is a setup problem, not an output failure
	if c, ok := s.cfg.Renderer.(labelChecker); ok {
		if err := c.Supports(s.cfg.Labels); err != nil {
			logger.ErrorContext(ctx, "Report labels not supported by renderer",
				log.NewFields().WithOperation(log.OpExport).WithPeriod(year, month).WithError(err).ToSlice()...)
			return ExportResult{}, err
		}
	}

	doc, err := report.Build(s.cfg.Labels, w, s.now().In(s.cfg.Location), seq)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to read measurements",
			log.NewFields().WithOperation(log.OpReport).WithPeriod(year, month).WithError(err).ToSlice()...)
		return ExportResult{}, err
	}

	if err := report.WriteFile(s.cfg.OutputPath, s.cfg.Renderer, doc); err != nil {
		logger.ErrorContext(ctx, "Failed to write report",
			log.NewFields().WithOperation(log.OpExport).WithPeriod(year, month).WithError(err).ToSlice()...)
		return ExportResult{}, err
	}

	logger.InfoContext(ctx, "Report written",
		log.FieldOperation, log.OpExport,
		log.FieldYear, year,
		log.FieldMonth, month,
		log.FieldRows, len(doc.Rows),
		log.FieldPath, s.cfg.OutputPath,
		log.FieldDuration, time.Since(start).Milliseconds())

	return ExportResult{Path: s.cfg.OutputPath, Window: w, Rows: len(doc.Rows)}, nil
}
