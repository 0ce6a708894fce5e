package jobs

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/aivahq/dupwatch/internal/notify"
	"github.com/aivahq/dupwatch/internal/queue"
)

// AlertPump drains the alert queue and hands each event to the dispatcher.
// Delivery failures are logged and the event is dropped; retries are the
// dispatcher's concern, not the pump's.
type AlertPump struct {
	queue      queue.AlertQueue
	dispatcher notify.Dispatcher
	adminIDs   []int64
	done       chan struct{}
}

func NewAlertPump(q queue.AlertQueue, dispatcher notify.Dispatcher, adminIDs []int64) *AlertPump {
	return &AlertPump{
		queue:      q,
		dispatcher: dispatcher,
		adminIDs:   adminIDs,
		done:       make(chan struct{}),
	}
}

func (p *AlertPump) Stop() {
	close(p.done)
}

func (p *AlertPump) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		<-p.done
		cancel()
	}()

	events, err := p.queue.Subscribe(ctx)
	if err != nil {
		logrus.Errorf("alert pump failed to subscribe: %v", err)
		return
	}

	for payload := range events {
		audience := notify.Audience{
			GroupID:  payload.GroupID,
			AdminIDs: p.adminIDs,
		}
		if err := p.dispatcher.Dispatch(ctx, payload, audience); err != nil {
			logrus.Errorf("alert delivery failed for alert %d: %v", payload.AlertID, err)
		}
	}
}
