package scanner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/dsxplorer/pkg/config"
	"github.com/sgaunet/dsxplorer/pkg/database"
	"github.com/sgaunet/dsxplorer/pkg/dataset"
	"github.com/sgaunet/dsxplorer/pkg/dbsvc"
	"github.com/sgaunet/dsxplorer/pkg/scanner"
)

type fakeDiscoverer struct {
	datasets []dataset.Dataset
	err      error
	entered  chan struct{}
	block    chan struct{}
}

func (f *fakeDiscoverer) DiscoverDatasets(ctx context.Context) ([]dataset.Dataset, error) {
	if f.block != nil {
		close(f.entered)
		<-f.block
	}
	return f.datasets, f.err
}

type fakeStore struct {
	synced       []dataset.Dataset
	deletionSync bool
	completed    *dbsvc.SyncStats
	failed       error
}

func (f *fakeStore) StartScanJob(context.Context) (int32, error) { return 1, nil }

func (f *fakeStore) SyncDatasets(_ context.Context, ds []dataset.Dataset, deletionSync bool) (dbsvc.SyncStats, error) {
	f.synced = ds
	f.deletionSync = deletionSync
	return dbsvc.SyncStats{Found: len(ds), Created: len(ds)}, nil
}

func (f *fakeStore) CompleteScanJob(_ context.Context, _ int32, stats dbsvc.SyncStats) error {
	f.completed = &stats
	return nil
}

func (f *fakeStore) FailScanJob(_ context.Context, _ int32, cause error) error {
	f.failed = cause
	return nil
}

func (f *fakeStore) LatestScanJob(context.Context) (database.ScanJob, error) {
	return database.ScanJob{ID: 1, Status: "completed"}, nil
}

func TestScanBucket(t *testing.T) {
	tests := []struct {
		name         string
		deletionSync bool
	}{
		{name: "deletion sync enabled", deletionSync: true},
		{name: "deletion sync disabled", deletionSync: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := []dataset.Dataset{{Name: "census", Type: dataset.TypeGlobal, Scope: "global"}}
			store := &fakeStore{}
			svc := scanner.NewService(config.ScanConfig{DeletionSync: tt.deletionSync}, &fakeDiscoverer{datasets: found}, store)

			stats, err := svc.ScanBucket(context.Background())
			require.NoError(t, err)
			assert.Equal(t, dbsvc.SyncStats{Found: 1, Created: 1}, stats)
			assert.Equal(t, found, store.synced)
			assert.Equal(t, tt.deletionSync, store.deletionSync)
			require.NotNil(t, store.completed)
			assert.NoError(t, store.failed)
		})
	}
}

func TestScanBucketRecordsFailure(t *testing.T) {
	store := &fakeStore{}
	svc := scanner.NewService(config.ScanConfig{}, &fakeDiscoverer{err: errors.New("access denied")}, store)

	_, err := svc.ScanBucket(context.Background())
	assert.ErrorContains(t, err, "access denied")
	assert.ErrorContains(t, store.failed, "access denied")
	assert.Nil(t, store.completed)
}

func TestScanBucketRejectsConcurrentScan(t *testing.T) {
	discoverer := &fakeDiscoverer{entered: make(chan struct{}), block: make(chan struct{})}
	svc := scanner.NewService(config.ScanConfig{}, discoverer, &fakeStore{})

	done := make(chan error)
	go func() {
		_, err := svc.ScanBucket(context.Background())
		done <- err
	}()
	<-discoverer.entered

	_, err := svc.ScanBucket(context.Background())
	assert.ErrorIs(t, err, scanner.ErrScanInProgress)

	close(discoverer.block)
	assert.NoError(t, <-done)
}

func TestGetScanStatus(t *testing.T) {
	svc := scanner.NewService(config.ScanConfig{}, &fakeDiscoverer{}, &fakeStore{})
	job, err := svc.GetScanStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "completed", job.Status)
}
