package domain

import (
	"testing"
	"time"
)

func res(name string, healthy bool) CheckResult {
	return CheckResult{
		TargetName: name,
		URL:        "https://" + name,
		StatusCode: 200,
		Healthy:    healthy,
		CheckedAt:  time.Now().UTC(),
	}
}

func TestNewStatusReport_Counts(t *testing.T) {
	ts := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	results := []CheckResult{res("a", true), res("b", false), res("c", true)}
	counts := map[string]int{"a": 0, "b": 2, "c": 0}

	rep := NewStatusReport(ts, results, counts)

	if rep.TotalServices != 3 || rep.HealthyServices != 2 {
		t.Fatalf("counts wrong: %+v", rep)
	}
	if rep.OverallHealth {
		t.Fatalf("overall should be false with one unhealthy target")
	}
	if rep.HealthyServices+(rep.TotalServices-rep.HealthyServices) != rep.TotalServices {
		t.Fatalf("count identity violated: %+v", rep)
	}
	if len(rep.Results) != 3 {
		t.Fatalf("want one result per target, got %d", len(rep.Results))
	}
	if !rep.Timestamp.Equal(ts) {
		t.Fatalf("timestamp not preserved")
	}
}

func TestNewStatusReport_AllHealthy(t *testing.T) {
	rep := NewStatusReport(time.Now(), []CheckResult{res("a", true)}, map[string]int{"a": 0})
	if !rep.OverallHealth || rep.HealthyServices != 1 {
		t.Fatalf("want overall healthy: %+v", rep)
	}
}

func TestNewStatusReport_Empty(t *testing.T) {
	rep := NewStatusReport(time.Now(), nil, map[string]int{})
	if !rep.OverallHealth || rep.TotalServices != 0 {
		t.Fatalf("empty registry should be trivially healthy: %+v", rep)
	}
}
