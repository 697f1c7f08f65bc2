package notify

import (
	"context"

	"go.uber.org/multierr"
)

type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}

// Multi fans a notification out to every configured channel. Nil entries are
// skipped so unconfigured channels can be appended unconditionally.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, subject, body string) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		errs = multierr.Append(errs, n.Send(ctx, subject, body))
	}
	return errs
}
