package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_ongkir/internal/models"
	"github.com/GTDGit/gtd_ongkir/internal/service"
	"github.com/GTDGit/gtd_ongkir/internal/utils"
)

// Estimator is the quoting surface used by QuoteHandler.
type Estimator interface {
	Estimate(ctx context.Context, req service.EstimateRequest) (*models.Estimate, error)
	Services() []models.ServiceProfile
}

// QuoteHandler serves shipping estimates for checkout.
type QuoteHandler struct {
	quotes Estimator
}

// NewQuoteHandler constructs a QuoteHandler.
func NewQuoteHandler(quotes Estimator) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

// EstimateRequest is the body of POST /v1/shipping/estimate.
type EstimateRequest struct {
	ProvinceID      string   `json:"provinceId" binding:"omitempty,numeric,len=2"`
	CityID          string   `json:"cityId" binding:"omitempty,numeric,len=4"`
	DistrictID      string   `json:"districtId" binding:"omitempty,numeric,len=6"`
	WardID          string   `json:"wardId" binding:"omitempty,numeric,len=10"`
	DetailedAddress string   `json:"detailedAddress" binding:"max=500"`
	Services        []string `json:"services" binding:"max=10"`
}

// Estimate handles POST /v1/shipping/estimate
func (h *QuoteHandler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	est, err := h.quotes.Estimate(c.Request.Context(), service.EstimateRequest{
		Address: models.AdministrativeAddress{
			ProvinceID:   req.ProvinceID,
			CityID:       req.CityID,
			DistrictID:   req.DistrictID,
			WardID:       req.WardID,
			DetailedText: strings.TrimSpace(req.DetailedAddress),
		},
		Services: req.Services,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, http.StatusOK, "Estimate calculated", est)
}

// GetServices handles GET /v1/shipping/services
func (h *QuoteHandler) GetServices(c *gin.Context) {
	profiles := h.quotes.Services()
	utils.SuccessList(c, http.StatusOK, "Successfully retrieved services", profiles, len(profiles))
}

func (h *QuoteHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrInvalidAddress):
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "At least one of provinceId, cityId, districtId or wardId is required")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		utils.Error(c, http.StatusGatewayTimeout, "TIMEOUT", "Estimate did not complete in time")
	case errors.Is(err, utils.ErrAddressUnresolvable):
		utils.Error(c, http.StatusUnprocessableEntity, utils.ErrAddressUnresolvable.Error(), "Address could not be located")
	default:
		log.Error().Err(err).Msg("Estimate failed")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
