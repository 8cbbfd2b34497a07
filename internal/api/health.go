// Package api provides HTTP handlers for the docgraph server.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReadyChecker reports whether the document engine can serve requests.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

// ClientCounter reports connected WebSocket clients.
type ClientCounter interface {
	ClientCount() int
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	ready         ReadyChecker
	hub           ClientCounter
	log           *logrus.Logger
	version       string
	engine        string
	schemaVersion int
	startTime     time.Time
}

// NewHealthHandler creates a HealthHandler. schemaVersion is reported on
// readiness when the engine is backed by migrations; zero omits it.
func NewHealthHandler(ready ReadyChecker, hub ClientCounter, log *logrus.Logger, version, engine string, schemaVersion int) *HealthHandler {
	return &HealthHandler{
		ready:         ready,
		hub:           hub,
		log:           log,
		version:       version,
		engine:        engine,
		schemaVersion: schemaVersion,
		startTime:     time.Now(),
	}
}

// healthResponse is the JSON payload returned by the liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Engine        string  `json:"engine"`
	WSClients     int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status        string            `json:"status"`
	Checks        map[string]string `json:"checks"`
	SchemaVersion int               `json:"schema_version,omitempty"`
}

// Liveness handles GET /api/v1/health. It never touches the engine.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Engine:        h.engine,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if h.hub != nil {
		resp.WSClients = h.hub.ClientCount()
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready by pinging the engine.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	resp := readinessResponse{
		Status:        "ready",
		Checks:        map[string]string{"engine": "ok"},
		SchemaVersion: h.schemaVersion,
	}
	status := http.StatusOK

	if err := h.ready.Ready(ctx); err != nil {
		h.log.WithError(err).WithField("engine", h.engine).Error("readiness: engine check failed")
		resp.Status = "not_ready"
		resp.Checks["engine"] = "error"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, resp)
}
