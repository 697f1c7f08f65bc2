package domain

import "time"

// Target is one monitored endpoint. Targets are loaded once at startup and
// never change for the life of the process.
type Target struct {
	Name           string        `json:"name"`
	URL            string        `json:"url"`
	ExpectedStatus int           `json:"expected_status"`
	Timeout        time.Duration `json:"timeout"`
	Critical       bool          `json:"critical"`
}

// CheckResult is the outcome of a single probe of a single target.
// StatusCode is 0 when the target was unreachable or timed out.
type CheckResult struct {
	TargetName     string    `json:"target_name"`
	URL            string    `json:"url"`
	StatusCode     int       `json:"status_code"`
	ResponseTimeMS float64   `json:"response_time_ms"`
	Healthy        bool      `json:"healthy"`
	Error          string    `json:"error,omitempty"`
	CheckedAt      time.Time `json:"checked_at"`
}
