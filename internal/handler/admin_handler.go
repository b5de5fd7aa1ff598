package handler

import (
	"context"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_ongkir/internal/middleware"
	"github.com/GTDGit/gtd_ongkir/internal/service"
	"github.com/GTDGit/gtd_ongkir/internal/utils"
)

var optionalCityCodePattern = regexp.MustCompile(`^(\d{4})?$`)

// CacheFlusher empties the route cache.
type CacheFlusher interface {
	Flush(ctx context.Context) (int64, error)
}

// AdminHandler exposes operator tooling for the reference data.
type AdminHandler struct {
	table *service.GeocodeTable
	cache CacheFlusher
}

// NewAdminHandler creates an AdminHandler. cache may be nil when Redis is off.
func NewAdminHandler(table *service.GeocodeTable, cache CacheFlusher) *AdminHandler {
	return &AdminHandler{table: table, cache: cache}
}

// GetGeocodeCoverage lists districts with wards missing from the coordinate
// table. GET /v1/admin/geocode/coverage?city=3174
func (h *AdminHandler) GetGeocodeCoverage(c *gin.Context) {
	city := c.Query("city")
	if !optionalCityCodePattern.MatchString(city) {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "City code must be 4 digits")
		return
	}

	coverage := h.table.Coverage(city)
	utils.SuccessList(c, http.StatusOK, "Successfully retrieved geocode coverage", coverage, len(coverage))
}

// FlushRouteCache handles DELETE /v1/admin/cache/locations
func (h *AdminHandler) FlushRouteCache(c *gin.Context) {
	if h.cache == nil {
		utils.Error(c, http.StatusServiceUnavailable, utils.ErrCacheDisabled.Error(), "Route cache is not configured")
		return
	}

	deleted, err := h.cache.Flush(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to flush route cache")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to flush route cache")
		return
	}

	log.Info().Int64("deleted", deleted).Str("operator", middleware.OperatorEmail(c)).Msg("Route cache flushed")
	utils.Success(c, http.StatusOK, "Route cache flushed", gin.H{"deleted": deleted})
}
