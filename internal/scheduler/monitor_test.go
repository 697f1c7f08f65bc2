package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/adousti/vigil/internal/domain"
	"github.com/adousti/vigil/internal/repo/memory"
	"github.com/adousti/vigil/internal/track"
)

// --- fakes ---

type fakeChecker struct {
	mu      sync.Mutex
	healthy map[string]bool
}

func (f *fakeChecker) Check(ctx context.Context, t domain.Target) domain.CheckResult {
	f.mu.Lock()
	up := f.healthy[t.Name]
	f.mu.Unlock()
	cr := domain.CheckResult{
		TargetName: t.Name,
		URL:        t.URL,
		Healthy:    up,
		CheckedAt:  time.Now().UTC(),
	}
	if up {
		cr.StatusCode = 200
	} else {
		cr.Error = "Timeout"
	}
	return cr
}

type flakyStore struct {
	mu    sync.Mutex
	fails int
	saves int
	last  *domain.StatusReport
}

func (s *flakyStore) Save(ctx context.Context, r *domain.StatusReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.fails > 0 {
		s.fails--
		return errors.New("transient store failure")
	}
	s.last = r
	return nil
}

func (s *flakyStore) Latest(ctx context.Context) (*domain.StatusReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, nil
}

var testTargets = []domain.Target{
	{Name: "a", URL: "https://a.example.com", ExpectedStatus: 200, Timeout: time.Second},
	{Name: "b", URL: "https://b.example.com", ExpectedStatus: 200, Timeout: time.Second},
	{Name: "c", URL: "https://c.example.com", ExpectedStatus: 200, Timeout: time.Second, Critical: true},
}

func newMonitor(t *testing.T, chk *fakeChecker, store *flakyStore) *Monitor {
	t.Helper()
	log := zap.NewNop()
	tracker := track.New(log, nil, testTargets, track.Config{FailureThreshold: 3, Cooldown: time.Hour})
	return NewMonitor(log, testTargets, chk, tracker, store, time.Hour, time.Hour, 2)
}

func TestMonitor_CycleProducesOneResultPerTarget(t *testing.T) {
	chk := &fakeChecker{healthy: map[string]bool{"a": true, "b": false, "c": true}}
	store := &flakyStore{}
	m := newMonitor(t, chk, store)

	if err := m.runCycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}

	rep, _ := store.Latest(context.Background())
	if rep == nil {
		t.Fatal("no snapshot persisted")
	}
	if rep.TotalServices != 3 || rep.HealthyServices != 2 || rep.OverallHealth {
		t.Fatalf("aggregate wrong: %+v", rep)
	}
	if len(rep.Results) != 3 {
		t.Fatalf("want one result per target, got %d", len(rep.Results))
	}
	// report order follows registry order regardless of probe completion order
	for i, tgt := range testTargets {
		if rep.Results[i].TargetName != tgt.Name {
			t.Fatalf("result %d is %q, want %q", i, rep.Results[i].TargetName, tgt.Name)
		}
	}
	if rep.FailureCounts["b"] != 1 || rep.FailureCounts["a"] != 0 {
		t.Fatalf("failure counts wrong: %+v", rep.FailureCounts)
	}
}

func TestMonitor_FailureCountsAccumulateAcrossCycles(t *testing.T) {
	chk := &fakeChecker{healthy: map[string]bool{"a": true, "b": false, "c": true}}
	store := &flakyStore{}
	m := newMonitor(t, chk, store)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := m.runCycle(ctx); err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
	}
	rep, _ := store.Latest(ctx)
	if rep.FailureCounts["b"] != 2 {
		t.Fatalf("want 2 consecutive failures for b, got %+v", rep.FailureCounts)
	}

	// recovery resets the counter in the next snapshot
	chk.mu.Lock()
	chk.healthy["b"] = true
	chk.mu.Unlock()
	if err := m.runCycle(ctx); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	rep, _ = store.Latest(ctx)
	if rep.FailureCounts["b"] != 0 || !rep.OverallHealth {
		t.Fatalf("recovery not reflected: %+v", rep)
	}
}

func TestMonitor_RunSurvivesStoreFailure(t *testing.T) {
	chk := &fakeChecker{healthy: map[string]bool{"a": true, "b": true, "c": true}}
	store := &flakyStore{fails: 1}
	m := newMonitor(t, chk, store)
	m.Interval = 5 * time.Millisecond
	m.Backoff = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	// wait for a successful save after the initial failure
	deadline := time.After(2 * time.Second)
	for {
		if rep, _ := store.Latest(context.Background()); rep != nil {
			break
		}
		select {
		case <-deadline:
			t.Fatal("loop did not recover from store failure")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}

	store.mu.Lock()
	saves := store.saves
	store.mu.Unlock()
	if saves < 2 {
		t.Fatalf("want retry after failed save, saves=%d", saves)
	}
}

type panicChecker struct{}

func (panicChecker) Check(ctx context.Context, t domain.Target) domain.CheckResult {
	panic("checker bug")
}

func TestMonitor_CheckerPanicBecomesUnhealthyResult(t *testing.T) {
	log := zap.NewNop()
	tracker := track.New(log, nil, testTargets, track.Config{FailureThreshold: 3, Cooldown: time.Hour})
	store := memory.New()
	m := NewMonitor(log, testTargets[:1], panicChecker{}, tracker, store, time.Hour, time.Hour, 1)

	if err := m.runCycle(context.Background()); err != nil {
		t.Fatalf("cycle should survive a panicking checker: %v", err)
	}
	rep, _ := store.Latest(context.Background())
	if rep == nil || len(rep.Results) != 1 {
		t.Fatalf("missing snapshot: %+v", rep)
	}
	if rep.Results[0].Healthy || rep.Results[0].Error == "" {
		t.Fatalf("panic should surface as unhealthy result: %+v", rep.Results[0])
	}
}
