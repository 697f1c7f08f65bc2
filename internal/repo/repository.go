package repo

import (
	"context"

	"go.uber.org/multierr"

	"github.com/adousti/vigil/internal/domain"
)

// SnapshotStore persists the per-cycle status report. Each Save replaces the
// previous snapshot; stores keep no history.
type SnapshotStore interface {
	Save(ctx context.Context, r *domain.StatusReport) error
	Latest(ctx context.Context) (*domain.StatusReport, error)
}

// Multi writes the snapshot to every store and reads from the first one.
type Multi []SnapshotStore

func (m Multi) Save(ctx context.Context, r *domain.StatusReport) error {
	var errs error
	for _, s := range m {
		if s == nil {
			continue
		}
		errs = multierr.Append(errs, s.Save(ctx, r))
	}
	return errs
}

func (m Multi) Latest(ctx context.Context) (*domain.StatusReport, error) {
	for _, s := range m {
		if s != nil {
			return s.Latest(ctx)
		}
	}
	return nil, nil
}
