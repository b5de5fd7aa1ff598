package models

import (
	"fmt"
	"strings"
)

// AdministrativeAddress is the customer's address as selected in the checkout
// form. Ids follow the Kemendagri territory codes stored in the territory tables.
type AdministrativeAddress struct {
	ProvinceID   string `json:"provinceId"`
	CityID       string `json:"cityId"`
	DistrictID   string `json:"districtId"`
	WardID       string `json:"wardId"`
	DetailedText string `json:"detailedAddress,omitempty"`
}

// Key returns a stable cache key for the administrative part of the address.
// The free-text detail is excluded because it never drives the coordinate.
func (a AdministrativeAddress) Key() string {
	return strings.Join([]string{
		strings.TrimSpace(a.ProvinceID),
		strings.TrimSpace(a.CityID),
		strings.TrimSpace(a.DistrictID),
		strings.TrimSpace(a.WardID),
	}, "/")
}

// IsEmpty reports whether no administrative id was supplied at all.
func (a AdministrativeAddress) IsEmpty() bool {
	return strings.TrimSpace(a.ProvinceID) == "" &&
		strings.TrimSpace(a.CityID) == "" &&
		strings.TrimSpace(a.DistrictID) == "" &&
		strings.TrimSpace(a.WardID) == ""
}

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks the coordinate ranges.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %f out of range", c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("longitude %f out of range", c.Lng)
	}
	return nil
}

// LocationSource identifies how a coordinate was obtained.
type LocationSource string

const (
	SourceExactLookup      LocationSource = "EXACT_LOOKUP"
	SourceGeocoded         LocationSource = "GEOCODED"
	SourceDistrictCentroid LocationSource = "DISTRICT_CENTROID_FALLBACK"
)

// Confidence is the coarse accuracy tier of a resolved coordinate.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// ResolvedLocation is the output of coordinate resolution.
type ResolvedLocation struct {
	Coordinate Coordinate     `json:"coordinate"`
	Source     LocationSource `json:"source"`
	Confidence Confidence     `json:"confidence"`
	// Query is the geocoder query string, set only for geocoded results.
	Query string `json:"query,omitempty"`
}

// Cacheable reports whether the location should be kept in the route cache.
// Table hits are answered locally and fallbacks are recomputed, so only
// geocoder answers qualify.
func (l ResolvedLocation) Cacheable() bool {
	return l.Source == SourceGeocoded
}
