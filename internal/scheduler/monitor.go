package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/adousti/vigil/internal/domain"
	"github.com/adousti/vigil/internal/probe"
	"github.com/adousti/vigil/internal/repo"
	"github.com/adousti/vigil/internal/track"
)

// Monitor drives the check cycle: fan out one probe per target, fan in, feed
// the tracker sequentially, persist the snapshot, sleep, repeat forever.
type Monitor struct {
	Logger      *zap.Logger
	Targets     []domain.Target
	Checker     probe.Checker
	Tracker     *track.Tracker
	Snapshots   repo.SnapshotStore
	Interval    time.Duration
	Backoff     time.Duration
	Concurrency int
}

func NewMonitor(
	logger *zap.Logger,
	targets []domain.Target,
	checker probe.Checker,
	tracker *track.Tracker,
	snapshots repo.SnapshotStore,
	interval, backoff time.Duration,
	concurrency int,
) *Monitor {
	if concurrency < 1 {
		concurrency = 1
	}
	if interval <= 0 {
		interval = 300 * time.Second
	}
	if backoff <= 0 {
		backoff = 60 * time.Second
	}
	return &Monitor{
		Logger:      logger,
		Targets:     targets,
		Checker:     checker,
		Tracker:     tracker,
		Snapshots:   snapshots,
		Interval:    interval,
		Backoff:     backoff,
		Concurrency: concurrency,
	}
}

// Run loops until ctx is cancelled. It does an immediate pass, then one per
// interval. A cycle that errors is logged and retried after the backoff; the
// loop itself never dies.
func (m *Monitor) Run(ctx context.Context) {
	for {
		wait := m.Interval
		if err := m.runCycle(ctx); err != nil {
			m.Logger.Error("cycle_error", zap.Error(err))
			wait = m.Backoff
		}

		select {
		case <-ctx.Done():
			m.Logger.Info("monitor_stopped")
			return
		case <-time.After(wait):
		}
	}
}

// runCycle checks every target concurrently, applies results to the tracker
// after the fan-in (so tracker state never sees concurrent writers) and
// persists the snapshot. Panics are contained and surfaced as cycle errors.
func (m *Monitor) runCycle(ctx context.Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("cycle panic: %v", p)
		}
	}()

	results := make([]domain.CheckResult, len(m.Targets))

	sem := make(chan struct{}, m.Concurrency)
	var wg sync.WaitGroup

	for i, tgt := range m.Targets {
		i, tgt := i, tgt
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()
			// A panicking checker must cost one unhealthy result, not the
			// process.
			defer func() {
				if p := recover(); p != nil {
					results[i] = domain.CheckResult{
						TargetName: tgt.Name,
						URL:        tgt.URL,
						Error:      fmt.Sprintf("check panic: %v", p),
						CheckedAt:  time.Now().UTC(),
					}
				}
			}()
			results[i] = m.Checker.Check(ctx, tgt)
		}()
	}
	wg.Wait()

	// Tracker updates happen strictly after the fan-in, one target at a time.
	for i, tgt := range m.Targets {
		m.Tracker.Apply(ctx, tgt, results[i])
	}

	report := domain.NewStatusReport(time.Now().UTC(), results, m.Tracker.FailureCounts())
	if err := m.Snapshots.Save(ctx, report); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}

	m.Logger.Info("cycle_complete",
		zap.Int("healthy", report.HealthyServices),
		zap.Int("total", report.TotalServices),
		zap.Bool("overall_health", report.OverallHealth),
	)
	return nil
}
