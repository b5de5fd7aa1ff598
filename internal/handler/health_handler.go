package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_ongkir/internal/service"
	"github.com/GTDGit/gtd_ongkir/internal/utils"
)

var startTime = time.Now()

// Pinger reports connectivity of an optional dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	index *service.TerritoryIndex
	table *service.GeocodeTable
	redis Pinger
}

// NewHealthHandler creates a new HealthHandler. redis may be nil.
func NewHealthHandler(index *service.TerritoryIndex, table *service.GeocodeTable, redis Pinger) *HealthHandler {
	return &HealthHandler{index: index, table: table, redis: redis}
}

// GetHealth responds with reference data sizes and cache status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	redisStatus := "disabled"
	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		redisStatus = "connected"
		if err := h.redis.Ping(ctx); err != nil {
			redisStatus = "disconnected"
		}
	}

	utils.Success(c, http.StatusOK, "Service is healthy", gin.H{
		"status":       "healthy",
		"version":      "1.0.0",
		"uptime":       int(time.Since(startTime).Seconds()),
		"territory":    h.index.Counts(),
		"geocodeTable": h.table.Stats(),
		"redis":        redisStatus,
	})
}
