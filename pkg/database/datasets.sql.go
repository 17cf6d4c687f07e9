package database

import (
	"context"
)

const datasetColumns = `id, name, type, scope, location, description, created_at, updated_at, marked_for_deletion`

func scanDataset(row interface{ Scan(...interface{}) error }) (Dataset, error) {
	var i Dataset
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Type,
		&i.Scope,
		&i.Location,
		&i.Description,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.MarkedForDeletion,
	)
	return i, err
}

const upsertDataset = `-- name: UpsertDataset :one
INSERT INTO datasets (name, type, scope, location, description)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (type, scope, name) DO UPDATE
SET location = EXCLUDED.location,
    marked_for_deletion = FALSE,
    updated_at = NOW()
RETURNING ` + datasetColumns + `, (xmax = 0) AS inserted`

type UpsertDatasetParams struct {
	Name        string
	Type        string
	Scope       string
	Location    string
	Description string
}

type UpsertDatasetRow struct {
	Dataset
	Inserted bool
}

// UpsertDataset creates a dataset or refreshes it. Inserted is false when the
// dataset already existed.
func (q *Queries) UpsertDataset(ctx context.Context, arg UpsertDatasetParams) (UpsertDatasetRow, error) {
	row := q.db.QueryRowContext(ctx, upsertDataset,
		arg.Name,
		arg.Type,
		arg.Scope,
		arg.Location,
		arg.Description,
	)
	var i UpsertDatasetRow
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Type,
		&i.Scope,
		&i.Location,
		&i.Description,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.MarkedForDeletion,
		&i.Inserted,
	)
	return i, err
}

const getDataset = `-- name: GetDataset :one
SELECT ` + datasetColumns + ` FROM datasets
WHERE type = $1 AND scope = $2 AND name = $3`

type GetDatasetParams struct {
	Type  string
	Scope string
	Name  string
}

func (q *Queries) GetDataset(ctx context.Context, arg GetDatasetParams) (Dataset, error) {
	row := q.db.QueryRowContext(ctx, getDataset, arg.Type, arg.Scope, arg.Name)
	return scanDataset(row)
}

const listDatasets = `-- name: ListDatasets :many
SELECT ` + datasetColumns + ` FROM datasets
ORDER BY type, scope, name`

func (q *Queries) ListDatasets(ctx context.Context) ([]Dataset, error) {
	return q.listDatasets(ctx, listDatasets)
}

const listDatasetsByType = `-- name: ListDatasetsByType :many
SELECT ` + datasetColumns + ` FROM datasets
WHERE type = $1
ORDER BY scope, name`

func (q *Queries) ListDatasetsByType(ctx context.Context, datasetType string) ([]Dataset, error) {
	return q.listDatasets(ctx, listDatasetsByType, datasetType)
}

func (q *Queries) listDatasets(ctx context.Context, query string, args ...interface{}) ([]Dataset, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Dataset{}
	for rows.Next() {
		i, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateDatasetDescription = `-- name: UpdateDatasetDescription :exec
UPDATE datasets SET description = $4, updated_at = NOW()
WHERE type = $1 AND scope = $2 AND name = $3`

type UpdateDatasetDescriptionParams struct {
	Type        string
	Scope       string
	Name        string
	Description string
}

func (q *Queries) UpdateDatasetDescription(ctx context.Context, arg UpdateDatasetDescriptionParams) error {
	_, err := q.db.ExecContext(ctx, updateDatasetDescription, arg.Type, arg.Scope, arg.Name, arg.Description)
	return err
}

const markAllDatasetsForDeletion = `-- name: MarkAllDatasetsForDeletion :exec
UPDATE datasets SET marked_for_deletion = TRUE`

func (q *Queries) MarkAllDatasetsForDeletion(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, markAllDatasetsForDeletion)
	return err
}

const deleteMarkedDatasets = `-- name: DeleteMarkedDatasets :execrows
DELETE FROM datasets WHERE marked_for_deletion = TRUE`

func (q *Queries) DeleteMarkedDatasets(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMarkedDatasets)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
