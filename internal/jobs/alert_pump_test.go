package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aivahq/dupwatch/internal/notify"
	"github.com/aivahq/dupwatch/internal/queue"
)

type recordingDispatcher struct {
	mu        sync.Mutex
	payloads  []*notify.AlertPayload
	audiences []notify.Audience
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, payload *notify.AlertPayload, audience notify.Audience) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.payloads = append(d.payloads, payload)
	d.audiences = append(d.audiences, audience)
	return nil
}

func (d *recordingDispatcher) dispatched() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.payloads)
}

func TestAlertPump(t *testing.T) {
	q := queue.NewMemoryQueue(4)
	dispatcher := &recordingDispatcher{}
	pump := NewAlertPump(q, dispatcher, []int64{100, 200})

	go pump.Run()

	err := q.Publish(context.TODO(), &notify.AlertPayload{
		AlertID:    1,
		Identifier: "9841234567",
		GroupID:    "group-1",
	})
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		return dispatcher.dispatched() == 1
	}, time.Second, 10*time.Millisecond)

	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	assert.Equal(t, uint(1), dispatcher.payloads[0].AlertID)
	assert.Equal(t, "group-1", dispatcher.audiences[0].GroupID)
	assert.Equal(t, []int64{100, 200}, dispatcher.audiences[0].AdminIDs)

	pump.Stop()
}
