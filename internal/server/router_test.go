package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aivahq/dupwatch/internal/queue"
	"github.com/aivahq/dupwatch/internal/service"
	"github.com/aivahq/dupwatch/internal/store"
	"github.com/aivahq/dupwatch/internal/tester"
)

func setupRouter(t *testing.T) (*httptest.Server, *queue.MemoryQueue) {
	t.Helper()

	tester.RemoveDBFile()
	tester.Setup()

	st := store.NewGormStore(tester.TestDB())
	alertQueue := queue.NewMemoryQueue(16)
	router := newRouter(service.NewDetector(st), service.NewAdminService(st), alertQueue, time.Now())

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return ts, alertQueue
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	assert.NoError(t, err)

	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	assert.NoError(t, err)
	return res
}

func decodeJSON(t *testing.T, res *http.Response, out any) {
	t.Helper()

	defer res.Body.Close()
	assert.NoError(t, json.NewDecoder(res.Body).Decode(out))
}

func TestRouter_Detect(t *testing.T) {
	ts, alertQueue := setupRouter(t)

	res := postJSON(t, ts.URL+"/v1/detect", map[string]any{
		"text":       "paid to 9841234567 via esewa",
		"group_id":   "group-1",
		"message_id": 10,
		"user_id":    7,
		"username":   "mina",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Results []struct {
			Candidate string `json:"candidate"`
			Outcome   struct {
				Status string `json:"status"`
			} `json:"outcome"`
		} `json:"results"`
	}
	decodeJSON(t, res, &body)
	assert.Len(t, body.Results, 1)
	assert.Equal(t, "9841234567", body.Results[0].Candidate)
	assert.Equal(t, "accepted", body.Results[0].Outcome.Status)

	// same number again is a duplicate and lands on the alert queue
	res = postJSON(t, ts.URL+"/v1/detect", map[string]any{
		"text":       "another payment to 9841234567",
		"group_id":   "group-1",
		"message_id": 11,
		"user_id":    8,
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	decodeJSON(t, res, &body)
	assert.Len(t, body.Results, 1)
	assert.Equal(t, "duplicate_detected", body.Results[0].Outcome.Status)

	events, err := alertQueue.Subscribe(context.TODO())
	assert.NoError(t, err)
	select {
	case payload := <-events:
		assert.Equal(t, "9841234567", payload.Identifier)
		assert.Equal(t, int64(8), payload.Reporter.UserID)
	case <-time.After(time.Second):
		t.Fatal("no alert queued")
	}
}

func TestRouter_Detect_ExplicitCandidates(t *testing.T) {
	ts, _ := setupRouter(t)

	res := postJSON(t, ts.URL+"/v1/detect", map[string]any{
		"candidates": []string{"user@example.com", "REF123"},
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Results []json.RawMessage `json:"results"`
	}
	decodeJSON(t, res, &body)
	assert.Len(t, body.Results, 2)
}

func TestRouter_Identifiers(t *testing.T) {
	ts, _ := setupRouter(t)

	res := postJSON(t, ts.URL+"/v1/identifiers", map[string]string{
		"identifier": "fraud@example.com",
		"notes":      "reported twice",
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var created struct {
		Identifier struct {
			ID             uint   `json:"id"`
			IdentifierType string `json:"identifier_type"`
		} `json:"identifier"`
	}
	decodeJSON(t, res, &created)
	assert.NotZero(t, created.Identifier.ID)
	assert.Equal(t, "email", created.Identifier.IdentifierType)

	// duplicate add conflicts
	res = postJSON(t, ts.URL+"/v1/identifiers", map[string]string{
		"identifier": "fraud@example.com",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	res.Body.Close()

	res, err := http.Get(ts.URL + "/v1/identifiers")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var listed struct {
		Total int `json:"total"`
	}
	decodeJSON(t, res, &listed)
	assert.Equal(t, 1, listed.Total)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/v1/identifiers/1", nil)
	assert.NoError(t, err)
	res, err = http.DefaultClient.Do(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	res.Body.Close()

	res, err = http.DefaultClient.Do(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res.Body.Close()
}

func TestRouter_Alerts(t *testing.T) {
	ts, _ := setupRouter(t)

	for _, msg := range []string{"first 9841234567", "second 9841234567"} {
		res := postJSON(t, ts.URL+"/v1/detect", map[string]any{"text": msg})
		assert.Equal(t, http.StatusOK, res.StatusCode)
		res.Body.Close()
	}

	res, err := http.Get(ts.URL + "/v1/alerts?status=pending")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var listed struct {
		Alerts []struct {
			ID uint `json:"id"`
		} `json:"alerts"`
		Total int `json:"total"`
	}
	decodeJSON(t, res, &listed)
	assert.Equal(t, 1, listed.Total)

	res = postJSON(t, ts.URL+"/v1/alerts/1/resolve", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	res = postJSON(t, ts.URL+"/v1/alerts/1/resolve", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res.Body.Close()

	res, err = http.Get(ts.URL + "/v1/alerts?status=bogus")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res.Body.Close()
}

func TestRouter_Status(t *testing.T) {
	ts, _ := setupRouter(t)

	res := postJSON(t, ts.URL+"/v1/detect", map[string]any{"text": "pay 9841234567"})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	res, err := http.Get(ts.URL + "/v1/status")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var status struct {
		Tracked       int64  `json:"tracked"`
		PendingAlerts int64  `json:"pending_alerts"`
		Uptime        string `json:"uptime"`
	}
	decodeJSON(t, res, &status)
	assert.Equal(t, int64(1), status.Tracked)
	assert.Equal(t, int64(0), status.PendingAlerts)
	assert.NotEmpty(t, status.Uptime)
}
