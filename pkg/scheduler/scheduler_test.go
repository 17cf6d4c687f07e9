package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/dsxplorer/pkg/config"
	"github.com/sgaunet/dsxplorer/pkg/dbsvc"
)

type countingScanner struct {
	calls atomic.Int32
}

func (c *countingScanner) ScanBucket(context.Context) (dbsvc.SyncStats, error) {
	c.calls.Add(1)
	return dbsvc.SyncStats{}, nil
}

func TestStart(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ScanConfig
		wantErr bool
		entries int
	}{
		{name: "disabled", cfg: config.ScanConfig{Enable: false, Cron: "0 * * * *"}, entries: 0},
		{name: "enabled", cfg: config.ScanConfig{Enable: true, Cron: "0 */6 * * *"}, entries: 1},
		{name: "invalid schedule", cfg: config.ScanConfig{Enable: true, Cron: "every day"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler(tt.cfg, &countingScanner{})
			err := s.Start(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, s.cron.Entries(), tt.entries)
			s.Stop()
		})
	}
}

func TestScheduledScanRuns(t *testing.T) {
	sc := &countingScanner{}
	s := NewScheduler(config.ScanConfig{Enable: true, Cron: "@every 1s"}, sc)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return sc.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
