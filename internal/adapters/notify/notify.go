// Package notify delivers eligibility and assignment results to members
// and the faction channel. Delivery is fire-and-forget: a failed target is
// logged and skipped, never propagated to abort the batch.
package notify

import (
	"context"
	"errors"

	"github.com/factionops/scopebot/pkg/logger"
	"github.com/factionops/scopebot/pkg/metrics"
)

// ErrDeliver is the sentinel kind for delivery failures.
var ErrDeliver = errors.New("notification delivery failed")

// Message is one notification: a target (member name or channel id, the
// chat layer's addressing) and the body to deliver.
type Message struct {
	Target string
	Body   string
}

// Notifier delivers a single message to a single target.
type Notifier interface {
	Notify(ctx context.Context, target, body string) error
}

// Dispatcher fans a batch of messages out through a Notifier, absorbing
// per-target failures.
type Dispatcher struct {
	notifier Notifier
	logger   logger.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(n Notifier, log logger.Logger) *Dispatcher {
	return &Dispatcher{notifier: n, logger: log}
}

// Dispatch delivers every message, logging and skipping failures. It
// returns early only when the context is cancelled.
func (d *Dispatcher) Dispatch(ctx context.Context, msgs []Message) {
	for _, msg := range msgs {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if err := d.notifier.Notify(ctx, msg.Target, msg.Body); err != nil {
			metrics.RecordNotification(false)
			d.logger.Warn(ctx, "notification skipped",
				logger.String("target", msg.Target),
				logger.Error(err))
			continue
		}
		metrics.RecordNotification(true)
	}
}
