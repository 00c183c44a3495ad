package storage

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bplog/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores measurements in a SQLite file. Every operation opens
// its own connection and closes it before returning.
type SQLiteRepository struct {
	dbPath string
	loc    *time.Location
}

// NewSQLiteRepository prepares the database file and applies the schema.
// A nil loc means time.Local.
func NewSQLiteRepository(dbPath string, loc *time.Location) (*SQLiteRepository, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite database path is empty")
	}
	if loc == nil {
		loc = time.Local
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{dbPath: dbPath, loc: loc}, nil
}

// Path returns the database file path. Tests use it to reach the raw file.
func (r *SQLiteRepository) Path() string {
	return r.dbPath
}

// Close is a no-op since no connection outlives a single operation.
func (r *SQLiteRepository) Close() error {
	return nil
}

func (r *SQLiteRepository) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", r.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Insert implements ports.MeasurementWriter
func (r *SQLiteRepository) Insert(ctx context.Context, m core.Measurement) (core.Measurement, error) {
	db, err := r.open(ctx)
	if err != nil {
		return core.Measurement{}, &core.PersistenceError{Op: "insert", Err: err}
	}
	defer db.Close()

	rec, err := New(db).CreateRecord(ctx, CreateRecordParams{
		Timestamp:  m.Timestamp.In(r.loc).Format(core.TimestampLayout),
		Systolic:   int64(m.Systolic),
		Diastolic:  int64(m.Diastolic),
		Pulse:      int64(m.Pulse),
		TimePeriod: periodToNull(m.Period),
	})
	if err != nil {
		return core.Measurement{}, &core.PersistenceError{Op: "insert", Err: fmt.Errorf("create record: %w", err)}
	}

	slog.InfoContext(ctx, "Measurement saved to SQLite",
		"id", rec.ID,
		"timestamp", rec.Timestamp,
		"systolic", rec.Systolic,
		"diastolic", rec.Diastolic,
		"pulse", rec.Pulse)

	return rec.toMeasurement(r.loc)
}

// Measurements implements ports.MeasurementLister
func (r *SQLiteRepository) Measurements(ctx context.Context, w core.Window) iter.Seq2[core.Measurement, error] {
	return func(yield func(core.Measurement, error) bool) {
		db, err := r.open(ctx)
		if err != nil {
			yield(core.Measurement{}, &core.PersistenceError{Op: "select", Err: err})
			return
		}
		defer db.Close()

		params := ListRecordsInRangeParams{
			Start: w.Start.In(r.loc).Format(core.TimestampLayout),
			End:   w.End.In(r.loc).Format(core.TimestampLayout),
		}
		err = New(db).EachRecordInRange(ctx, params, func(rec Record) bool {
			m, err := rec.toMeasurement(r.loc)
			if err != nil {
				yield(core.Measurement{}, err)
				return false
			}
			return yield(m, nil)
		})
		if err != nil {
			yield(core.Measurement{}, &core.PersistenceError{Op: "select", Err: fmt.Errorf("list records in range: %w", err)})
		}
	}
}

// Count returns the number of stored measurements. It backs test assertions
// and is not part of the ports the services use.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	db, err := r.open(ctx)
	if err != nil {
		return 0, &core.PersistenceError{Op: "count", Err: err}
	}
	defer db.Close()

	n, err := New(db).CountRecords(ctx)
	if err != nil {
		return 0, &core.PersistenceError{Op: "count", Err: err}
	}
	return n, nil
}

func (rec Record) toMeasurement(loc *time.Location) (core.Measurement, error) {
	ts, err := time.ParseInLocation(core.TimestampLayout, rec.Timestamp, loc)
	if err != nil {
		return core.Measurement{}, &core.PersistenceError{
			Op:  "decode",
			Err: fmt.Errorf("record %d timestamp %q: %w", rec.ID, rec.Timestamp, err),
		}
	}
	return core.Measurement{
		ID:        rec.ID,
		Timestamp: ts,
		Systolic:  int(rec.Systolic),
		Diastolic: int(rec.Diastolic),
		Pulse:     int(rec.Pulse),
		Period:    core.PeriodFromCode(rec.TimePeriod.String),
	}, nil
}

func periodToNull(p core.TimePeriod) sql.NullString {
	if p == core.PeriodUnset {
		return sql.NullString{}
	}
	return sql.NullString{String: string(p), Valid: true}
}
