// Package scanner discovers datasets in the bucket and syncs them into the
// catalog.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sgaunet/dsxplorer/pkg/config"
	"github.com/sgaunet/dsxplorer/pkg/database"
	"github.com/sgaunet/dsxplorer/pkg/dataset"
	"github.com/sgaunet/dsxplorer/pkg/dbsvc"
)

// ErrScanInProgress is returned when a scan is requested while one runs.
var ErrScanInProgress = errors.New("scan already in progress")

// Discoverer lists the datasets present in the bucket.
type Discoverer interface {
	DiscoverDatasets(ctx context.Context) ([]dataset.Dataset, error)
}

// Store is the catalog the scan results are written to.
type Store interface {
	StartScanJob(ctx context.Context) (int32, error)
	SyncDatasets(ctx context.Context, datasets []dataset.Dataset, deletionSync bool) (dbsvc.SyncStats, error)
	CompleteScanJob(ctx context.Context, id int32, stats dbsvc.SyncStats) error
	FailScanJob(ctx context.Context, id int32, cause error) error
	LatestScanJob(ctx context.Context) (database.ScanJob, error)
}

// Service handles catalog scans
type Service struct {
	discoverer Discoverer
	store      Store
	cfg        config.ScanConfig
	log        *slog.Logger
	running    sync.Mutex
}

// NewService creates a new scanner service
func NewService(cfg config.ScanConfig, discoverer Discoverer, store Store) *Service {
	return &Service{
		discoverer: discoverer,
		store:      store,
		cfg:        cfg,
		log:        slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger for the scanner
func (s *Service) SetLogger(log *slog.Logger) {
	s.log = log
}

// ScanBucket discovers the datasets of the bucket and syncs the catalog.
// The scan is recorded as a scan job.
func (s *Service) ScanBucket(ctx context.Context) (dbsvc.SyncStats, error) {
	if !s.running.TryLock() {
		return dbsvc.SyncStats{}, ErrScanInProgress
	}
	defer s.running.Unlock()

	start := time.Now()
	s.log.Info("starting catalog scan", slog.Bool("deletionSync", s.cfg.DeletionSync))

	jobID, err := s.store.StartScanJob(ctx)
	if err != nil {
		return dbsvc.SyncStats{}, fmt.Errorf("ScanBucket: %w", err)
	}

	stats, scanErr := s.scan(ctx)
	if scanErr != nil {
		if err := s.store.FailScanJob(ctx, jobID, scanErr); err != nil {
			s.log.Error("failed to record scan failure", slog.String("error", err.Error()))
		}
		return stats, fmt.Errorf("ScanBucket: %w", scanErr)
	}

	if err := s.store.CompleteScanJob(ctx, jobID, stats); err != nil {
		s.log.Error("failed to record scan result", slog.String("error", err.Error()))
	}
	s.log.Info("catalog scan completed",
		slog.Int("found", stats.Found),
		slog.Int("created", stats.Created),
		slog.Int("deleted", stats.Deleted),
		slog.Duration("duration", time.Since(start)))
	return stats, nil
}

func (s *Service) scan(ctx context.Context) (dbsvc.SyncStats, error) {
	datasets, err := s.discoverer.DiscoverDatasets(ctx)
	if err != nil {
		return dbsvc.SyncStats{}, err
	}
	return s.store.SyncDatasets(ctx, datasets, s.cfg.DeletionSync)
}

// GetScanStatus returns the last recorded scan.
func (s *Service) GetScanStatus(ctx context.Context) (database.ScanJob, error) {
	job, err := s.store.LatestScanJob(ctx)
	if err != nil {
		return job, fmt.Errorf("GetScanStatus: %w", err)
	}
	return job, nil
}
