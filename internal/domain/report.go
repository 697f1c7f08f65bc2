package domain

import "time"

// StatusReport is the aggregate snapshot of one check cycle. A new report
// replaces the previous one each cycle; history is not retained.
type StatusReport struct {
	Timestamp       time.Time      `json:"timestamp"`
	OverallHealth   bool           `json:"overall_health"`
	HealthyServices int            `json:"healthy_services"`
	TotalServices   int            `json:"total_services"`
	Results         []CheckResult  `json:"results"`
	FailureCounts   map[string]int `json:"failure_counts"`
}

// NewStatusReport assembles the snapshot for one cycle. results must contain
// exactly one entry per configured target; failureCounts is a copy of the
// tracker's counters taken after the cycle was applied.
func NewStatusReport(ts time.Time, results []CheckResult, failureCounts map[string]int) *StatusReport {
	healthy := 0
	for _, r := range results {
		if r.Healthy {
			healthy++
		}
	}
	return &StatusReport{
		Timestamp:       ts,
		OverallHealth:   healthy == len(results),
		HealthyServices: healthy,
		TotalServices:   len(results),
		Results:         results,
		FailureCounts:   failureCounts,
	}
}
