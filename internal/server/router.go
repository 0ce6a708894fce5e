package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/aivahq/dupwatch/internal/extract"
	"github.com/aivahq/dupwatch/internal/model"
	"github.com/aivahq/dupwatch/internal/notify"
	"github.com/aivahq/dupwatch/internal/queue"
	"github.com/aivahq/dupwatch/internal/service"
	"github.com/aivahq/dupwatch/internal/store"
)

func newRouter(detector *service.Detector, admin *service.AdminService, alertQueue queue.AlertQueue, startTime time.Time) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), requestTime())

	h := &handlers{
		detector:   detector,
		admin:      admin,
		alertQueue: alertQueue,
		startTime:  startTime,
	}

	v1 := router.Group("/v1")
	{
		v1.POST("/detect", h.detect)

		v1.POST("/identifiers", h.addIdentifier)
		v1.GET("/identifiers", h.listIdentifiers)
		v1.DELETE("/identifiers/:id", h.removeIdentifier)

		v1.GET("/alerts", h.listAlerts)
		v1.POST("/alerts/:id/resolve", h.resolveAlert)

		v1.GET("/status", h.status)
	}

	return router
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestTime() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.Infof("request time: %s %s: %v", c.Request.Method, c.Request.URL.Path, time.Since(start))
	}
}

type handlers struct {
	detector   *service.Detector
	admin      *service.AdminService
	alertQueue queue.AlertQueue
	startTime  time.Time
}

type detectRequest struct {
	Text       string   `json:"text"`
	Candidates []string `json:"candidates"`
	GroupID    string   `json:"group_id"`
	MessageID  int64    `json:"message_id"`
	UserID     int64    `json:"user_id"`
	Username   string   `json:"username"`
}

type detectResult struct {
	Candidate string             `json:"candidate"`
	Outcome   *service.Detection `json:"outcome"`
}

// detect takes one inbound message, extracts candidates, and runs each through
// the detector. Duplicate events are queued for notification delivery; the
// response carries the structured outcomes either way.
func (h *handlers) detect(c *gin.Context) {
	var req detectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candidates := req.Candidates
	if len(candidates) == 0 {
		candidates = extract.Candidates(req.Text)
	}

	origin := model.Origin{
		GroupID:   req.GroupID,
		MessageID: req.MessageID,
		UserID:    req.UserID,
		Username:  req.Username,
	}

	results := make([]detectResult, 0, len(candidates))
	for _, candidate := range candidates {
		outcome, err := h.detector.Detect(c.Request.Context(), candidate, origin)
		if err != nil {
			abortDetectError(c, err)
			return
		}

		if outcome.Status == service.DuplicateDetected {
			payload := notify.BuildAlertPayload(outcome.Alert, outcome.Record, notify.Reporter{
				UserID:   req.UserID,
				Username: req.Username,
			})
			if err := h.alertQueue.Publish(c.Request.Context(), payload); err != nil {
				// the alert row is durable; delivery can be replayed later
				logrus.Errorf("failed to queue alert %d: %v", outcome.Alert.ID, err)
			}
		}

		results = append(results, detectResult{Candidate: candidate, Outcome: outcome})
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func abortDetectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlertWriteFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

type addIdentifierRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Notes      string `json:"notes"`
	GroupID    string `json:"group_id"`
	UserID     int64  `json:"user_id"`
}

func (h *handlers) addIdentifier(c *gin.Context) {
	var req addIdentifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.admin.AddIdentifier(c.Request.Context(), req.Identifier, req.Notes, model.Origin{
		GroupID: req.GroupID,
		UserID:  req.UserID,
	})
	switch {
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "identifier is already in the watchlist"})
		return
	case errors.Is(err, service.ErrEmptyIdentifier):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"identifier": rec})
}

func (h *handlers) listIdentifiers(c *gin.Context) {
	recs, err := h.admin.ListIdentifiers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"identifiers": recs, "total": len(recs)})
}

func (h *handlers) removeIdentifier(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier id"})
		return
	}

	err = h.admin.RemoveIdentifier(c.Request.Context(), uint(id))
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "identifier not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlers) listAlerts(c *gin.Context) {
	status := model.AlertStatus(c.Query("status"))
	if status != "" && status != model.AlertStatusPending && status != model.AlertStatusResolved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	alerts, err := h.admin.ListAlerts(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "total": len(alerts)})
}

func (h *handlers) resolveAlert(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	err = h.admin.ResolveAlert(c.Request.Context(), uint(id))
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "pending alert not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": model.AlertStatusResolved})
}

func (h *handlers) status(c *gin.Context) {
	st, err := h.admin.Status(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tracked":        st.Tracked,
		"duplicates":     st.Duplicates,
		"pending_alerts": st.PendingAlerts,
		"uptime":         time.Since(h.startTime).Round(time.Second).String(),
	})
}
