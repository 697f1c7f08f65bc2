package probe

import (
	"context"

	"github.com/adousti/vigil/internal/domain"
)

// Checker probes one target and reports the outcome. Implementations must
// never return an error: a failed probe is an unhealthy CheckResult, not a
// Go error.
type Checker interface {
	Check(ctx context.Context, t domain.Target) domain.CheckResult
}
