package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"landedcost/internal/domain/records"
)

// HealthHandler provides health check endpoints over both record stores.
type HealthHandler struct {
	primary  records.Store // nil when no remote database is configured
	fallback records.Store
	version  string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(primary, fallback records.Store, version string) *HealthHandler {
	return &HealthHandler{
		primary:  primary,
		fallback: fallback,
		version:  version,
	}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
//
// The service stays ready as long as the local fallback works; a dead primary
// only degrades persistence to local mode.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()
	checks := map[string]string{}

	if h.primary != nil {
		if h.primary.Healthy(ctx) {
			checks[h.primary.Name()] = "healthy"
		} else {
			checks[h.primary.Name()] = "unhealthy"
		}
	} else {
		checks["postgres"] = "not configured"
	}

	if !h.fallback.Healthy(ctx) {
		checks[h.fallback.Name()] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": checks,
		})
		return
	}
	checks[h.fallback.Name()] = "healthy"

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": checks,
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	storeMode := string(records.ModeLocal)
	if h.primary != nil && h.primary.Healthy(c.Request.Context()) {
		storeMode = string(records.ModeRemote)
	}

	c.JSON(http.StatusOK, gin.H{
		"app":       "landedcost",
		"version":   h.version,
		"storeMode": storeMode,
	})
}
