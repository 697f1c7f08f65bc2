package track

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/adousti/vigil/internal/domain"
	"github.com/adousti/vigil/internal/notify"
)

// State is the per-target bookkeeping. It is owned exclusively by the
// Tracker, lives in memory only, and resets on process restart.
type State struct {
	ConsecutiveFailures int
	LastAlertAt         time.Time
	MarkedDown          bool
}

type Config struct {
	FailureThreshold int
	Cooldown         time.Duration
	AlertOnRecovery  bool
}

// Tracker consumes one cycle's results, counts consecutive failures per
// target and decides when to notify. It never re-issues a check; retry
// semantics are entirely "threshold over cycles".
type Tracker struct {
	log      *zap.Logger
	notifier notify.Notifier
	cfg      Config
	states   map[string]*State

	// DNSClass, when set, classifies the target host after a threshold
	// crossing with status 0 (unreachable). Diagnostic logging only.
	DNSClass func(rawURL string) string

	now func() time.Time
}

func New(log *zap.Logger, notifier notify.Notifier, targets []domain.Target, cfg Config) *Tracker {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = 1
	}
	states := make(map[string]*State, len(targets))
	for _, t := range targets {
		states[t.Name] = &State{}
	}
	return &Tracker{
		log:      log,
		notifier: notifier,
		cfg:      cfg,
		states:   states,
		now:      time.Now,
	}
}

// Apply folds one CheckResult into the target's state and fires notifications
// when a threshold or recovery transition happens. Callers must invoke Apply
// exactly once per CheckResult, sequentially, after the cycle's fan-in.
func (tr *Tracker) Apply(ctx context.Context, t domain.Target, r domain.CheckResult) {
	st := tr.states[t.Name]
	if st == nil {
		st = &State{}
		tr.states[t.Name] = st
	}

	if r.Healthy {
		if st.ConsecutiveFailures > 0 {
			tr.log.Info("target_recovered",
				zap.String("target", t.Name),
				zap.Int("after_failures", st.ConsecutiveFailures),
			)
			if st.MarkedDown && tr.cfg.AlertOnRecovery {
				tr.send(ctx, t, recoverySubject(t), recoveryBody(t, r))
			}
		}
		st.ConsecutiveFailures = 0
		st.MarkedDown = false
		return
	}

	st.ConsecutiveFailures++
	if st.ConsecutiveFailures < tr.cfg.FailureThreshold {
		return
	}
	if tr.now().Sub(st.LastAlertAt) <= tr.cfg.Cooldown {
		tr.log.Info("alert_suppressed_by_cooldown",
			zap.String("target", t.Name),
			zap.Int("consecutive_failures", st.ConsecutiveFailures),
		)
		return
	}

	tr.send(ctx, t, failureSubject(t), failureBody(t, r, st.ConsecutiveFailures))
	st.LastAlertAt = tr.now()
	st.MarkedDown = true

	if r.StatusCode == 0 && tr.DNSClass != nil {
		tr.log.Warn("dns_diagnosis",
			zap.String("target", t.Name),
			zap.String("class", tr.DNSClass(t.URL)),
		)
	}
}

// send is best-effort: a delivery failure is logged and swallowed so it can
// never stall the monitoring loop.
func (tr *Tracker) send(ctx context.Context, t domain.Target, subject, body string) {
	if tr.notifier == nil {
		return
	}
	if err := tr.notifier.Send(ctx, subject, body); err != nil {
		tr.log.Warn("notify_failed",
			zap.String("target", t.Name),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return
	}
	tr.log.Info("notify_sent",
		zap.String("target", t.Name),
		zap.String("subject", subject),
	)
}

// FailureCounts returns a snapshot copy of the consecutive-failure counters
// for the cycle's status report.
func (tr *Tracker) FailureCounts() map[string]int {
	out := make(map[string]int, len(tr.states))
	for name, st := range tr.states {
		out[name] = st.ConsecutiveFailures
	}
	return out
}

func failureSubject(t domain.Target) string {
	if t.Critical {
		return fmt.Sprintf("[CRITICAL] Service DOWN: %s", t.Name)
	}
	return fmt.Sprintf("Service DOWN: %s", t.Name)
}

func recoverySubject(t domain.Target) string {
	if t.Critical {
		return fmt.Sprintf("[CRITICAL] Service UP: %s", t.Name)
	}
	return fmt.Sprintf("Service UP: %s", t.Name)
}

func failureBody(t domain.Target, r domain.CheckResult, failures int) string {
	httpTxt := "n/a"
	if r.StatusCode != 0 {
		httpTxt = fmt.Sprintf("%d", r.StatusCode)
	}
	return fmt.Sprintf(
		"URL: %s\nHTTP: %s\nError: %s\nResponse time: %.0f ms\nConsecutive failures: %d\nChecked: %s",
		t.URL, httpTxt, r.Error, r.ResponseTimeMS, failures, r.CheckedAt.Format(time.RFC3339),
	)
}

func recoveryBody(t domain.Target, r domain.CheckResult) string {
	return fmt.Sprintf(
		"URL: %s\nHTTP: %d\nResponse time: %.0f ms\nChecked: %s",
		t.URL, r.StatusCode, r.ResponseTimeMS, r.CheckedAt.Format(time.RFC3339),
	)
}
