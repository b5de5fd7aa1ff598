package service

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_ongkir/internal/models"
)

// WardTable is the precomputed coordinate table produced by the batch
// geocoding job: city -> district -> ward -> coordinate, where a nil
// coordinate marks a ward the job could not geocode.
type WardTable map[string]map[string]map[string]*models.Coordinate

// ParseWardTable decodes the ward coordinate JSON document.
func ParseWardTable(raw []byte) (WardTable, error) {
	var t WardTable
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode ward table: %w", err)
	}
	return t, nil
}

// ParseDistrictCentroids decodes a {districtCode: {lat,lng}} document.
func ParseDistrictCentroids(raw []byte) (map[string]models.Coordinate, error) {
	var m map[string]models.Coordinate
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode district centroids: %w", err)
	}
	return m, nil
}

// Set stores a coordinate, creating intermediate levels. A nil c records a miss.
func (t WardTable) Set(city, district, ward string, c *models.Coordinate) {
	if t[city] == nil {
		t[city] = make(map[string]map[string]*models.Coordinate)
	}
	if t[city][district] == nil {
		t[city][district] = make(map[string]*models.Coordinate)
	}
	t[city][district][ward] = c
}

// GeocodeTable answers coordinate lookups without any network access.
type GeocodeTable struct {
	byKey     map[string]models.Coordinate
	byWard    map[string]models.Coordinate
	centroids map[string]models.Coordinate
	index     *TerritoryIndex
}

// NewGeocodeTable joins the name-keyed table with the territory index so that
// lookups by ward code are a single map access. District centroids are the
// mean of each district's known wards; overrides replace computed values.
func NewGeocodeTable(index *TerritoryIndex, table WardTable, overrides map[string]models.Coordinate) *GeocodeTable {
	g := &GeocodeTable{
		byKey:     make(map[string]models.Coordinate),
		byWard:    make(map[string]models.Coordinate),
		centroids: make(map[string]models.Coordinate),
		index:     index,
	}

	skipped := 0
	for city, districts := range table {
		for district, wards := range districts {
			for ward, c := range wards {
				if c == nil {
					continue
				}
				if err := c.Validate(); err != nil {
					skipped++
					continue
				}
				g.byKey[tableKey(city, district, ward)] = *c
			}
		}
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("ward table entries with invalid coordinates ignored")
	}

	type acc struct {
		lat, lng float64
		n        int
	}
	sums := make(map[string]*acc)
	if index != nil {
		index.eachWard(func(city models.City, district models.District, ward models.Ward) {
			c, ok := g.byKey[tableKey(city.Name, district.Name, ward.Name)]
			if !ok {
				return
			}
			g.byWard[ward.FullCode] = c
			a := sums[district.FullCode]
			if a == nil {
				a = &acc{}
				sums[district.FullCode] = a
			}
			a.lat += c.Lat
			a.lng += c.Lng
			a.n++
		})
	}
	for code, a := range sums {
		g.centroids[code] = models.Coordinate{Lat: a.lat / float64(a.n), Lng: a.lng / float64(a.n)}
	}
	for code, c := range overrides {
		if c.Validate() == nil {
			g.centroids[code] = c
		}
	}
	return g
}

// Lookup returns the table coordinate of a ward code.
func (g *GeocodeTable) Lookup(wardID string) (models.Coordinate, bool) {
	c, ok := g.byWard[wardID]
	return c, ok
}

// LookupByNames returns the coordinate stored under city/district/ward.
func (g *GeocodeTable) LookupByNames(city, district, ward string) (models.Coordinate, bool) {
	c, ok := g.byKey[tableKey(city, district, ward)]
	return c, ok
}

// DistrictCentroid returns the precomputed centroid of a district code.
func (g *GeocodeTable) DistrictCentroid(districtID string) (models.Coordinate, bool) {
	c, ok := g.centroids[districtID]
	return c, ok
}

// Stats reports table sizes.
func (g *GeocodeTable) Stats() map[string]int {
	return map[string]int{
		"entries":   len(g.byKey),
		"wards":     len(g.byWard),
		"centroids": len(g.centroids),
	}
}

// Coverage lists districts of cityCode (all cities when empty) that have
// wards without a table coordinate, ordered by district code.
func (g *GeocodeTable) Coverage(cityCode string) []models.WardCoverage {
	if g.index == nil {
		return nil
	}
	byDistrict := make(map[string]*models.WardCoverage)
	g.index.eachWard(func(city models.City, district models.District, ward models.Ward) {
		if cityCode != "" && city.FullCode != cityCode {
			return
		}
		cov := byDistrict[district.FullCode]
		if cov == nil {
			cov = &models.WardCoverage{
				DistrictCode: district.FullCode,
				DistrictName: district.Name,
				CityName:     city.Name,
				MissingWards: []string{},
			}
			byDistrict[district.FullCode] = cov
		}
		cov.TotalWards++
		if _, ok := g.byWard[ward.FullCode]; !ok {
			cov.MissingWards = append(cov.MissingWards, ward.Name)
		}
	})

	out := make([]models.WardCoverage, 0)
	for _, cov := range byDistrict {
		if len(cov.MissingWards) > 0 {
			out = append(out, *cov)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistrictCode < out[j].DistrictCode })
	return out
}
