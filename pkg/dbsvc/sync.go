package dbsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sgaunet/dsxplorer/pkg/database"
	"github.com/sgaunet/dsxplorer/pkg/dataset"
)

// ErrNoScanJob is returned when no catalog scan was ever recorded.
var ErrNoScanJob = errors.New("no scan job")

// SyncStats counts the effects of a catalog sync.
type SyncStats struct {
	Found   int
	Created int
	Deleted int
}

// SyncDatasets upserts the discovered datasets in a single transaction.
// With deletionSync, catalog entries that were not discovered are removed.
func (s *Service) SyncDatasets(ctx context.Context, datasets []dataset.Dataset, deletionSync bool) (SyncStats, error) {
	stats := SyncStats{Found: len(datasets)}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("SyncDatasets: begin: %w", err)
	}
	qtx := s.queries.WithTx(tx)

	rollback := func(err error) (SyncStats, error) {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error("failed to rollback catalog sync", slog.String("error", rbErr.Error()))
		}
		return stats, err
	}

	if deletionSync {
		if err := qtx.MarkAllDatasetsForDeletion(ctx); err != nil {
			return rollback(fmt.Errorf("SyncDatasets: mark: %w", err))
		}
	}

	for _, ds := range datasets {
		row, err := qtx.UpsertDataset(ctx, upsertParams(ds))
		if err != nil {
			return rollback(fmt.Errorf("SyncDatasets: upsert %s/%s/%s: %w", ds.Type, ds.Scope, ds.Name, err))
		}
		if row.Inserted {
			stats.Created++
		}
	}

	if deletionSync {
		deleted, err := qtx.DeleteMarkedDatasets(ctx)
		if err != nil {
			return rollback(fmt.Errorf("SyncDatasets: delete: %w", err))
		}
		stats.Deleted = int(deleted)
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("SyncDatasets: commit: %w", err)
	}

	s.log.Info("catalog synced",
		slog.Int("found", stats.Found),
		slog.Int("created", stats.Created),
		slog.Int("deleted", stats.Deleted))
	return stats, nil
}

// SyncUploadedDataset records a dataset after files were uploaded into it, so
// that a dataset created by an upload is listed before the next scan.
func (s *Service) SyncUploadedDataset(ctx context.Context, ds dataset.Dataset) error {
	row, err := s.queries.UpsertDataset(ctx, upsertParams(ds))
	if err != nil {
		return fmt.Errorf("SyncUploadedDataset: %w", err)
	}
	s.log.Debug("synced uploaded dataset",
		slog.String("type", string(ds.Type)),
		slog.String("scope", ds.Scope),
		slog.String("name", ds.Name),
		slog.Bool("created", row.Inserted))
	return nil
}

func upsertParams(ds dataset.Dataset) database.UpsertDatasetParams {
	return database.UpsertDatasetParams{
		Name:        ds.Name,
		Type:        string(ds.Type),
		Scope:       ds.Scope,
		Location:    ds.Location,
		Description: ds.Description,
	}
}

// StartScanJob records a running scan.
func (s *Service) StartScanJob(ctx context.Context) (int32, error) {
	job, err := s.queries.CreateScanJob(ctx)
	if err != nil {
		return 0, fmt.Errorf("StartScanJob: %w", err)
	}
	return job.ID, nil
}

// CompleteScanJob records the result of a scan.
func (s *Service) CompleteScanJob(ctx context.Context, id int32, stats SyncStats) error {
	err := s.queries.CompleteScanJob(ctx, database.CompleteScanJobParams{
		ID:              id,
		DatasetsFound:   int32(stats.Found),
		DatasetsCreated: int32(stats.Created),
		DatasetsDeleted: int32(stats.Deleted),
	})
	if err != nil {
		return fmt.Errorf("CompleteScanJob: %w", err)
	}
	return nil
}

// FailScanJob records the failure of a scan.
func (s *Service) FailScanJob(ctx context.Context, id int32, cause error) error {
	msg := sql.NullString{}
	if cause != nil {
		msg = sql.NullString{String: cause.Error(), Valid: true}
	}
	if err := s.queries.FailScanJob(ctx, database.FailScanJobParams{ID: id, ErrorMessage: msg}); err != nil {
		return fmt.Errorf("FailScanJob: %w", err)
	}
	return nil
}

// LatestScanJob returns the most recent scan.
func (s *Service) LatestScanJob(ctx context.Context) (database.ScanJob, error) {
	job, err := s.queries.GetLatestScanJob(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return job, ErrNoScanJob
	}
	if err != nil {
		return job, fmt.Errorf("LatestScanJob: %w", err)
	}
	return job, nil
}
