// Package dupwatch provides a thin HTTP client for the dupwatch server,
// used by the CLI and by transport collaborators that submit messages for
// detection.
package dupwatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	base string
	http *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Identifier mirrors one watchlist row as returned by the server.
type Identifier struct {
	ID             uint      `json:"id"`
	Identifier     string    `json:"identifier"`
	IdentifierType string    `json:"identifier_type"`
	Notes          string    `json:"notes,omitempty"`
	GroupID        string    `json:"group_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Alert mirrors one duplicate alert row as returned by the server.
type Alert struct {
	ID         uint      `json:"id"`
	Identifier string    `json:"identifier"`
	OriginalID uint      `json:"original_id"`
	GroupID    string    `json:"group_id,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type DetectRequest struct {
	Text       string   `json:"text,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
	GroupID    string   `json:"group_id,omitempty"`
	MessageID  int64    `json:"message_id,omitempty"`
	UserID     int64    `json:"user_id,omitempty"`
	Username   string   `json:"username,omitempty"`
}

type DetectOutcome struct {
	Status string      `json:"status"`
	Record *Identifier `json:"record,omitempty"`
	Alert  *Alert      `json:"alert,omitempty"`
}

type DetectResult struct {
	Candidate string         `json:"candidate"`
	Outcome   *DetectOutcome `json:"outcome"`
}

type Status struct {
	Tracked       int64  `json:"tracked"`
	Duplicates    int64  `json:"duplicates"`
	PendingAlerts int64  `json:"pending_alerts"`
	Uptime        string `json:"uptime"`
}

func (c *Client) Detect(ctx context.Context, req DetectRequest) ([]DetectResult, error) {
	var res struct {
		Results []DetectResult `json:"results"`
	}
	err := c.do(ctx, http.MethodPost, "/v1/detect", req, &res)
	return res.Results, err
}

func (c *Client) AddIdentifier(ctx context.Context, identifier, notes string) (*Identifier, error) {
	var res struct {
		Identifier *Identifier `json:"identifier"`
	}
	err := c.do(ctx, http.MethodPost, "/v1/identifiers", map[string]string{
		"identifier": identifier,
		"notes":      notes,
	}, &res)
	return res.Identifier, err
}

func (c *Client) ListIdentifiers(ctx context.Context) ([]Identifier, error) {
	var res struct {
		Identifiers []Identifier `json:"identifiers"`
	}
	err := c.do(ctx, http.MethodGet, "/v1/identifiers", nil, &res)
	return res.Identifiers, err
}

func (c *Client) RemoveIdentifier(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/identifiers/%d", id), nil, nil)
}

func (c *Client) ListAlerts(ctx context.Context, status string) ([]Alert, error) {
	path := "/v1/alerts"
	if status != "" {
		path += "?status=" + status
	}

	var res struct {
		Alerts []Alert `json:"alerts"`
	}
	err := c.do(ctx, http.MethodGet, path, nil, &res)
	return res.Alerts, err
}

func (c *Client) ResolveAlert(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/alerts/%d/resolve", id), nil, nil)
}

func (c *Client) Status(ctx context.Context) (*Status, error) {
	var res Status
	if err := c.do(ctx, http.MethodGet, "/v1/status", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(res.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, res.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
