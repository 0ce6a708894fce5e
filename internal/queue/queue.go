package queue

import (
	"context"

	"github.com/aivahq/dupwatch/internal/notify"
)

// AlertQueue decouples the detection path from notification delivery. The
// server publishes one event per detected duplicate; the dispatch pump
// consumes them and hands each to the configured dispatcher.
type AlertQueue interface {
	// Publish appends an alert event to the queue.
	Publish(ctx context.Context, payload *notify.AlertPayload) error
	// Subscribe returns a channel of alert events. The channel closes when ctx
	// is cancelled.
	Subscribe(ctx context.Context) (<-chan *notify.AlertPayload, error)
}
