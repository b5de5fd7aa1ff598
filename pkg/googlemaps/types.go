package googlemaps

import (
	"encoding/json"
	"time"
)

// LatLng is a point in decimal degrees as used by the Geocoding API.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GeocodeResponse is the Geocoding API response body.
type GeocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Results      []GeocodeRecord `json:"results"`
}

// GeocodeRecord is one geocoding candidate.
type GeocodeRecord struct {
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location     LatLng `json:"location"`
		LocationType string `json:"location_type"`
	} `json:"geometry"`
	PlaceID string `json:"place_id"`
}

// GeocodeResult is the first candidate of a successful geocode.
type GeocodeResult struct {
	Location         LatLng
	FormattedAddress string
	Raw              json.RawMessage
}

// Route is the first route of a computeRoutes answer.
type Route struct {
	DistanceMeters int
	Duration       time.Duration
	Raw            json.RawMessage
}

type latLngLiteral struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type waypoint struct {
	Location struct {
		LatLng latLngLiteral `json:"latLng"`
	} `json:"location"`
}

type routeModifiers struct {
	AvoidTolls bool `json:"avoidTolls"`
}

type computeRoutesRequest struct {
	Origin         waypoint       `json:"origin"`
	Destination    waypoint       `json:"destination"`
	TravelMode     string         `json:"travelMode"`
	RouteModifiers routeModifiers `json:"routeModifiers"`
}

type computeRoutesResponse struct {
	Routes []struct {
		DistanceMeters int    `json:"distanceMeters"`
		Duration       string `json:"duration"`
	} `json:"routes"`
}

type routesError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
