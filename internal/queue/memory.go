package queue

import (
	"context"

	"github.com/aivahq/dupwatch/internal/notify"
)

// NewMemoryQueue returns a channel-backed queue for tests and single-process
// runs without redis or kafka.
func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{
		events: make(chan *notify.AlertPayload, size),
	}
}

var _ AlertQueue = (*MemoryQueue)(nil)

type MemoryQueue struct {
	events chan *notify.AlertPayload
}

func (q *MemoryQueue) Publish(ctx context.Context, payload *notify.AlertPayload) error {
	select {
	case q.events <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Subscribe(ctx context.Context) (<-chan *notify.AlertPayload, error) {
	return q.events, nil
}
