package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Record mirrors one row of the records table.
type Record struct {
	ID         int64
	Timestamp  string
	Systolic   int64
	Diastolic  int64
	Pulse      int64
	TimePeriod sql.NullString
}

const createRecord = `-- name: CreateRecord :one
INSERT INTO records (timestamp, systolic, diastolic, pulse, time_period)
VALUES (?, ?, ?, ?, ?)
RETURNING id, timestamp, systolic, diastolic, pulse, time_period
`

type CreateRecordParams struct {
	Timestamp  string
	Systolic   int64
	Diastolic  int64
	Pulse      int64
	TimePeriod sql.NullString
}

func (q *Queries) CreateRecord(ctx context.Context, arg CreateRecordParams) (Record, error) {
	row := q.db.QueryRowContext(ctx, createRecord,
		arg.Timestamp,
		arg.Systolic,
		arg.Diastolic,
		arg.Pulse,
		arg.TimePeriod,
	)
	var i Record
	err := row.Scan(
		&i.ID,
		&i.Timestamp,
		&i.Systolic,
		&i.Diastolic,
		&i.Pulse,
		&i.TimePeriod,
	)
	return i, err
}

const listRecordsInRange = `-- name: ListRecordsInRange :many
SELECT id, timestamp, systolic, diastolic, pulse, time_period
FROM records
WHERE timestamp >= ? AND timestamp < ?
ORDER BY timestamp ASC, id ASC
`

type ListRecordsInRangeParams struct {
	Start string
	End   string
}

// EachRecordInRange streams rows to fn until it returns false.
// A nil error is returned when fn stops the iteration early.
func (q *Queries) EachRecordInRange(ctx context.Context, arg ListRecordsInRangeParams, fn func(Record) bool) error {
	rows, err := q.db.QueryContext(ctx, listRecordsInRange, arg.Start, arg.End)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var i Record
		if err := rows.Scan(
			&i.ID,
			&i.Timestamp,
			&i.Systolic,
			&i.Diastolic,
			&i.Pulse,
			&i.TimePeriod,
		); err != nil {
			return err
		}
		if !fn(i) {
			return nil
		}
	}
	if err := rows.Close(); err != nil {
		return err
	}
	return rows.Err()
}

const countRecords = `-- name: CountRecords :one
SELECT COUNT(*) FROM records
`

func (q *Queries) CountRecords(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countRecords)
	var count int64
	err := row.Scan(&count)
	return count, err
}
