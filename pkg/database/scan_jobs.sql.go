package database

import (
	"context"
	"database/sql"
)

const scanJobColumns = `id, status, started_at, completed_at, datasets_found, datasets_created, datasets_deleted, error_message`

func scanScanJob(row interface{ Scan(...interface{}) error }) (ScanJob, error) {
	var i ScanJob
	err := row.Scan(
		&i.ID,
		&i.Status,
		&i.StartedAt,
		&i.CompletedAt,
		&i.DatasetsFound,
		&i.DatasetsCreated,
		&i.DatasetsDeleted,
		&i.ErrorMessage,
	)
	return i, err
}

const createScanJob = `-- name: CreateScanJob :one
INSERT INTO scan_jobs (status) VALUES ('running')
RETURNING ` + scanJobColumns

func (q *Queries) CreateScanJob(ctx context.Context) (ScanJob, error) {
	row := q.db.QueryRowContext(ctx, createScanJob)
	return scanScanJob(row)
}

const completeScanJob = `-- name: CompleteScanJob :exec
UPDATE scan_jobs
SET status = 'completed', completed_at = NOW(),
    datasets_found = $2, datasets_created = $3, datasets_deleted = $4
WHERE id = $1`

type CompleteScanJobParams struct {
	ID              int32
	DatasetsFound   int32
	DatasetsCreated int32
	DatasetsDeleted int32
}

func (q *Queries) CompleteScanJob(ctx context.Context, arg CompleteScanJobParams) error {
	_, err := q.db.ExecContext(ctx, completeScanJob,
		arg.ID,
		arg.DatasetsFound,
		arg.DatasetsCreated,
		arg.DatasetsDeleted,
	)
	return err
}

const failScanJob = `-- name: FailScanJob :exec
UPDATE scan_jobs
SET status = 'failed', completed_at = NOW(), error_message = $2
WHERE id = $1`

type FailScanJobParams struct {
	ID           int32
	ErrorMessage sql.NullString
}

func (q *Queries) FailScanJob(ctx context.Context, arg FailScanJobParams) error {
	_, err := q.db.ExecContext(ctx, failScanJob, arg.ID, arg.ErrorMessage)
	return err
}

const getLatestScanJob = `-- name: GetLatestScanJob :one
SELECT ` + scanJobColumns + ` FROM scan_jobs
ORDER BY started_at DESC
LIMIT 1`

func (q *Queries) GetLatestScanJob(ctx context.Context) (ScanJob, error) {
	row := q.db.QueryRowContext(ctx, getLatestScanJob)
	return scanScanJob(row)
}
