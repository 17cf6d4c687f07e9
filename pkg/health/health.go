// Package health monitors the dependencies of the server: the catalog
// database and the bucket.
package health

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Status represents the current health status.
type Status string

const (
	// StatusHealthy indicates the dependency is functioning normally.
	StatusHealthy Status = "healthy"
	// StatusUnhealthy indicates the dependency is experiencing issues.
	StatusUnhealthy Status = "unhealthy"
	// StatusUnknown indicates the health status hasn't been determined yet.
	StatusUnknown Status = "unknown"
)

const (
	defaultCheckInterval = 30 * time.Second
	defaultCheckTimeout  = 5 * time.Second
)

// CheckFunc probes a dependency, a nil error means healthy.
type CheckFunc func(ctx context.Context) error

// Monitor periodically runs a check and keeps its last outcome.
type Monitor struct {
	mu                  sync.RWMutex
	name                string
	check               CheckFunc
	status              Status
	lastCheck           time.Time
	lastError           error
	consecutiveFailures int
	logger              *slog.Logger
	checkInterval       time.Duration
	checkTimeout        time.Duration
	cancel              context.CancelFunc
	done                chan struct{}
}

// Info contains current health information.
type Info struct {
	Name                string    `json:"name"`
	Status              Status    `json:"status"`
	LastCheck           time.Time `json:"last_check"`
	LastError           string    `json:"last_error,omitempty"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
}

// NewMonitor creates a monitor for the named dependency.
func NewMonitor(name string, check CheckFunc) *Monitor {
	return &Monitor{
		name:          name,
		check:         check,
		status:        StatusUnknown,
		logger:        slog.New(slog.DiscardHandler),
		checkInterval: defaultCheckInterval,
		checkTimeout:  defaultCheckTimeout,
	}
}

// SetLogger sets the logger of the monitor
func (m *Monitor) SetLogger(logger *slog.Logger) {
	m.logger = logger
}

// SetInterval changes the delay between two checks. Call before Start.
func (m *Monitor) SetInterval(d time.Duration) {
	m.checkInterval = d
}

// Start runs a first check then keeps checking in the background.
func (m *Monitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	m.Check(ctx)
	go m.loop(ctx)
}

// Stop stops the monitoring.
func (m *Monitor) Stop() {
	if m.cancel != nil {
		m.cancel()
		<-m.done
	}
}

// Info returns current health information.
func (m *Monitor) Info() Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	errorMsg := ""
	if m.lastError != nil {
		errorMsg = m.lastError.Error()
	}
	return Info{
		Name:                m.name,
		Status:              m.status,
		LastCheck:           m.lastCheck,
		LastError:           errorMsg,
		ConsecutiveFailures: m.consecutiveFailures,
	}
}

// IsHealthy returns true if the last check succeeded.
func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status == StatusHealthy
}

func (m *Monitor) loop(ctx context.Context) {
	defer close(m.done)
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check runs the check once and records the outcome.
func (m *Monitor) Check(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, m.checkTimeout)
	defer cancel()
	err := m.check(checkCtx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCheck = time.Now()
	if err != nil {
		m.status = StatusUnhealthy
		m.lastError = err
		m.consecutiveFailures++
		m.logger.Debug("health check failed",
			slog.String("name", m.name),
			slog.String("error", err.Error()),
			slog.Int("consecutive_failures", m.consecutiveFailures))
		return
	}
	if m.status == StatusUnhealthy {
		m.logger.Info("health restored", slog.String("name", m.name))
	}
	m.status = StatusHealthy
	m.lastError = nil
	m.consecutiveFailures = 0
}

// Report aggregates monitors. It is healthy when every monitor is.
type Report struct {
	Status Status `json:"status"`
	Checks []Info `json:"checks"`
}

// NewReport builds the report of the monitors.
func NewReport(monitors ...*Monitor) Report {
	r := Report{Status: StatusHealthy, Checks: make([]Info, 0, len(monitors))}
	for _, m := range monitors {
		info := m.Info()
		r.Checks = append(r.Checks, info)
		switch {
		case info.Status == StatusUnhealthy:
			r.Status = StatusUnhealthy
		case info.Status == StatusUnknown && r.Status == StatusHealthy:
			r.Status = StatusUnknown
		}
	}
	return r
}
