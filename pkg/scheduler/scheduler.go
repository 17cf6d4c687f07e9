// Package scheduler runs the catalog scan on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/sgaunet/dsxplorer/pkg/config"
	"github.com/sgaunet/dsxplorer/pkg/dbsvc"
	"github.com/sgaunet/dsxplorer/pkg/scanner"
)

// Scanner runs one catalog scan.
type Scanner interface {
	ScanBucket(ctx context.Context) (dbsvc.SyncStats, error)
}

// Scheduler manages the background catalog scan
type Scheduler struct {
	cron    *cron.Cron
	scanner Scanner
	cfg     config.ScanConfig
	log     *slog.Logger
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg config.ScanConfig, scannerSvc Scanner) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		scanner: scannerSvc,
		cfg:     cfg,
		log:     slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger for the scheduler
func (s *Scheduler) SetLogger(log *slog.Logger) {
	s.log = log
}

// Start adds the scan job and starts the scheduler. Nothing is scheduled when
// the scan is disabled.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.cfg.Enable {
		s.log.Info("background catalog scan is disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Cron, func() {
		s.log.Info("starting scheduled catalog scan")
		_, err := s.scanner.ScanBucket(ctx)
		switch {
		case errors.Is(err, scanner.ErrScanInProgress):
			s.log.Warn("scheduled scan skipped, a scan is already running")
		case err != nil:
			s.log.Error("scheduled scan failed", slog.String("error", err.Error()))
		default:
			s.log.Info("scheduled scan completed successfully")
		}
	})
	if err != nil {
		return fmt.Errorf("Start: invalid schedule %q: %w", s.cfg.Cron, err)
	}

	s.log.Info("starting scheduler", slog.String("schedule", s.cfg.Cron))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running scan to return.
func (s *Scheduler) Stop() {
	s.log.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}
