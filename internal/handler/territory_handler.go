package handler

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_ongkir/internal/models"
	"github.com/GTDGit/gtd_ongkir/internal/service"
	"github.com/GTDGit/gtd_ongkir/internal/utils"
)

var (
	provinceCodePattern = regexp.MustCompile(`^\d{2}$`)
	cityCodePattern     = regexp.MustCompile(`^\d{4}$`)
	districtCodePattern = regexp.MustCompile(`^\d{6}$`)
)

// TerritoryHandler serves the address selectors from the in-memory index.
type TerritoryHandler struct {
	index *service.TerritoryIndex
}

// NewTerritoryHandler creates a new TerritoryHandler
func NewTerritoryHandler(index *service.TerritoryIndex) *TerritoryHandler {
	return &TerritoryHandler{index: index}
}

// GetProvinces returns all provinces
// GET /v1/territory/province
func (h *TerritoryHandler) GetProvinces(c *gin.Context) {
	provinces := h.index.Provinces()
	items := make([]models.TerritoryItem, 0, len(provinces))
	for _, p := range provinces {
		items = append(items, models.TerritoryItem{Code: p.Code, Name: p.Name})
	}
	utils.SuccessList(c, http.StatusOK, "Successfully retrieved provinces", items, len(items))
}

// GetCitiesByProvince returns all cities for a given province
// GET /v1/territory/city/:province_code
func (h *TerritoryHandler) GetCitiesByProvince(c *gin.Context) {
	code := c.Param("province_code")
	if !provinceCodePattern.MatchString(code) {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Province code must be 2 digits")
		return
	}
	if _, ok := h.index.Province(code); !ok {
		utils.Error(c, http.StatusNotFound, "NOT_FOUND", "Province with code '"+code+"' does not exist")
		return
	}

	cities := h.index.Cities(code)
	items := make([]models.TerritoryItem, 0, len(cities))
	for _, city := range cities {
		items = append(items, models.TerritoryItem{Code: city.FullCode, Name: city.Name, ParentCode: city.ProvinceCode})
	}
	utils.SuccessList(c, http.StatusOK, "Successfully retrieved cities", items, len(items))
}

// GetDistrictsByCity returns all districts for a given city
// GET /v1/territory/district/:city_code
func (h *TerritoryHandler) GetDistrictsByCity(c *gin.Context) {
	code := c.Param("city_code")
	if !cityCodePattern.MatchString(code) {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "City code must be 4 digits")
		return
	}
	if _, ok := h.index.City(code); !ok {
		utils.Error(c, http.StatusNotFound, "NOT_FOUND", "City with code '"+code+"' does not exist")
		return
	}

	districts := h.index.Districts(code)
	items := make([]models.TerritoryItem, 0, len(districts))
	for _, d := range districts {
		items = append(items, models.TerritoryItem{Code: d.FullCode, Name: d.Name, ParentCode: d.CityCode})
	}
	utils.SuccessList(c, http.StatusOK, "Successfully retrieved districts", items, len(items))
}

// GetSubDistrictsByDistrict returns all wards for a given district
// GET /v1/territory/sub-district/:district_code
func (h *TerritoryHandler) GetSubDistrictsByDistrict(c *gin.Context) {
	code := c.Param("district_code")
	if !districtCodePattern.MatchString(code) {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "District code must be 6 digits")
		return
	}
	if _, ok := h.index.District(code); !ok {
		utils.Error(c, http.StatusNotFound, "NOT_FOUND", "District with code '"+code+"' does not exist")
		return
	}

	wards := h.index.Wards(code)
	items := make([]models.TerritoryItem, 0, len(wards))
	for _, w := range wards {
		items = append(items, models.TerritoryItem{Code: w.FullCode, Name: w.Name, ParentCode: w.DistrictCode})
	}
	utils.SuccessList(c, http.StatusOK, "Successfully retrieved sub-districts", items, len(items))
}
