package service

import (
	"context"
	"fmt"

	"github.com/GTDGit/gtd_ongkir/internal/models"
)

// TerritorySource loads the full administrative hierarchy.
type TerritorySource interface {
	GetAllProvinces(ctx context.Context) ([]models.Province, error)
	GetAllCities(ctx context.Context) ([]models.City, error)
	GetAllDistricts(ctx context.Context) ([]models.District, error)
	GetAllWards(ctx context.Context) ([]models.Ward, error)
}

// TerritoryIndex is a read-only in-memory view of the territory tables keyed
// by full codes. It is built once at startup.
type TerritoryIndex struct {
	provinces      []models.Province
	provinceByCode map[string]models.Province

	cityByCode       map[string]models.City
	citiesByProvince map[string][]models.City

	districtByCode  map[string]models.District
	districtsByCity map[string][]models.District

	wardByCode      map[string]models.Ward
	wardsByDistrict map[string][]models.Ward
}

// LoadTerritoryIndex reads every level from src and indexes it.
func LoadTerritoryIndex(ctx context.Context, src TerritorySource) (*TerritoryIndex, error) {
	provinces, err := src.GetAllProvinces(ctx)
	if err != nil {
		return nil, fmt.Errorf("load provinces: %w", err)
	}
	cities, err := src.GetAllCities(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cities: %w", err)
	}
	districts, err := src.GetAllDistricts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load districts: %w", err)
	}
	wards, err := src.GetAllWards(ctx)
	if err != nil {
		return nil, fmt.Errorf("load wards: %w", err)
	}
	return NewTerritoryIndex(provinces, cities, districts, wards), nil
}

// NewTerritoryIndex indexes already loaded rows. Input order is kept for the
// listing methods.
func NewTerritoryIndex(provinces []models.Province, cities []models.City, districts []models.District, wards []models.Ward) *TerritoryIndex {
	idx := &TerritoryIndex{
		provinces:        provinces,
		provinceByCode:   make(map[string]models.Province, len(provinces)),
		cityByCode:       make(map[string]models.City, len(cities)),
		citiesByProvince: make(map[string][]models.City),
		districtByCode:   make(map[string]models.District, len(districts)),
		districtsByCity:  make(map[string][]models.District),
		wardByCode:       make(map[string]models.Ward, len(wards)),
		wardsByDistrict:  make(map[string][]models.Ward),
	}
	for _, p := range provinces {
		idx.provinceByCode[p.Code] = p
	}
	for _, c := range cities {
		idx.cityByCode[c.FullCode] = c
		idx.citiesByProvince[c.ProvinceCode] = append(idx.citiesByProvince[c.ProvinceCode], c)
	}
	for _, d := range districts {
		idx.districtByCode[d.FullCode] = d
		idx.districtsByCity[d.CityCode] = append(idx.districtsByCity[d.CityCode], d)
	}
	for _, w := range wards {
		idx.wardByCode[w.FullCode] = w
		idx.wardsByDistrict[w.DistrictCode] = append(idx.wardsByDistrict[w.DistrictCode], w)
	}
	return idx
}

// Complete fills missing parent ids from the most specific id present.
func (t *TerritoryIndex) Complete(addr models.AdministrativeAddress) models.AdministrativeAddress {
	if addr.DistrictID == "" && addr.WardID != "" {
		if w, ok := t.wardByCode[addr.WardID]; ok {
			addr.DistrictID = w.DistrictCode
		}
	}
	if addr.CityID == "" && addr.DistrictID != "" {
		if d, ok := t.districtByCode[addr.DistrictID]; ok {
			addr.CityID = d.CityCode
		}
	}
	if addr.ProvinceID == "" && addr.CityID != "" {
		if c, ok := t.cityByCode[addr.CityID]; ok {
			addr.ProvinceID = c.ProvinceCode
		}
	}
	return addr
}

// Names returns the display names of every known level of addr.
func (t *TerritoryIndex) Names(addr models.AdministrativeAddress) models.AddressNames {
	addr = t.Complete(addr)
	return models.AddressNames{
		Province: t.provinceByCode[addr.ProvinceID].Name,
		City:     t.cityByCode[addr.CityID].Name,
		District: t.districtByCode[addr.DistrictID].Name,
		Ward:     t.wardByCode[addr.WardID].Name,
	}
}

func (t *TerritoryIndex) Provinces() []models.Province {
	return t.provinces
}

func (t *TerritoryIndex) Cities(provinceCode string) []models.City {
	return t.citiesByProvince[provinceCode]
}

func (t *TerritoryIndex) Districts(cityCode string) []models.District {
	return t.districtsByCity[cityCode]
}

func (t *TerritoryIndex) Wards(districtCode string) []models.Ward {
	return t.wardsByDistrict[districtCode]
}

func (t *TerritoryIndex) Province(code string) (models.Province, bool) {
	p, ok := t.provinceByCode[code]
	return p, ok
}

func (t *TerritoryIndex) City(code string) (models.City, bool) {
	c, ok := t.cityByCode[code]
	return c, ok
}

func (t *TerritoryIndex) District(code string) (models.District, bool) {
	d, ok := t.districtByCode[code]
	return d, ok
}

func (t *TerritoryIndex) Ward(code string) (models.Ward, bool) {
	w, ok := t.wardByCode[code]
	return w, ok
}

// Counts reports the number of entries per level.
func (t *TerritoryIndex) Counts() map[string]int {
	return map[string]int{
		"provinces": len(t.provinceByCode),
		"cities":    len(t.cityByCode),
		"districts": len(t.districtByCode),
		"wards":     len(t.wardByCode),
	}
}

// eachWard visits wards grouped by district in district load order.
func (t *TerritoryIndex) eachWard(fn func(city models.City, district models.District, ward models.Ward)) {
	for _, p := range t.provinces {
		for _, c := range t.citiesByProvince[p.Code] {
			for _, d := range t.districtsByCity[c.FullCode] {
				for _, w := range t.wardsByDistrict[d.FullCode] {
					fn(c, d, w)
				}
			}
		}
	}
}
