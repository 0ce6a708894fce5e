package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Dispatcher delivers a formatted alert to its audience. Implementations own
// retries and transport-specific escaping; the core only hands over payloads.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload *AlertPayload, audience Audience) error
}

// NewLogDispatcher returns a dispatcher that writes alerts to the log. Used
// when no delivery transport is configured.
func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

var _ Dispatcher = (*LogDispatcher)(nil)

type LogDispatcher struct{}

func (d *LogDispatcher) Dispatch(ctx context.Context, payload *AlertPayload, audience Audience) error {
	logrus.WithFields(logrus.Fields{
		"alert_id":   payload.AlertID,
		"identifier": payload.Identifier,
		"group_id":   audience.GroupID,
		"admins":     len(audience.AdminIDs),
	}).Warn("duplicate alert")
	return nil
}

// NewWebhookDispatcher returns a dispatcher that POSTs alert payloads to the
// transport collaborator (the chat bot layer) as JSON.
func NewWebhookDispatcher(url string) *WebhookDispatcher {
	return &WebhookDispatcher{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

var _ Dispatcher = (*WebhookDispatcher)(nil)

type WebhookDispatcher struct {
	url    string
	client *http.Client
}

type webhookEnvelope struct {
	Payload  *AlertPayload `json:"payload"`
	Audience Audience      `json:"audience"`
	Text     string        `json:"text"`
}

func (d *WebhookDispatcher) Dispatch(ctx context.Context, payload *AlertPayload, audience Audience) error {
	body, err := json.Marshal(webhookEnvelope{
		Payload:  payload,
		Audience: audience,
		Text:     RenderMarkdown(payload),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return fmt.Errorf("webhook delivery failed with status %d", res.StatusCode)
	}
	return nil
}
