package googlemaps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultGeocodeURL is the Geocoding API endpoint.
	DefaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"
	// DefaultRoutesURL is the Routes API computeRoutes endpoint.
	DefaultRoutesURL = "https://routes.googleapis.com/directions/v2:computeRoutes"

	routesFieldMask = "routes.distanceMeters,routes.duration"

	// maxResponseSize caps how much of a response body is read (2MB)
	maxResponseSize = 2 << 20
)

var (
	// ErrNoResults is returned when the API answered but found nothing.
	ErrNoResults = errors.New("googlemaps: no results")
	// ErrResponseTooLarge is returned when a body exceeds the read limit.
	ErrResponseTooLarge = errors.New("googlemaps: response too large")
)

// APIError is a non-success answer from Google, either an HTTP status or a
// Geocoding API status such as OVER_QUERY_LIMIT.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("googlemaps: http %d status %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("googlemaps: http %d: %s", e.StatusCode, e.Message)
}

// Config configures a Client. Empty URLs fall back to the public endpoints.
type Config struct {
	APIKey     string
	GeocodeURL string
	RoutesURL  string
	Region     string
	HTTPClient *http.Client
}

// Client talks to the Google Geocoding and Routes APIs. It performs exactly
// one HTTP attempt per call; deadlines come from the caller's context.
type Client struct {
	httpClient *http.Client
	apiKey     string
	geocodeURL string
	routesURL  string
	region     string
	maxBody    int64
	debug      bool
}

// NewClient constructs a Client.
func NewClient(cfg Config) *Client {
	c := &Client{
		httpClient: cfg.HTTPClient,
		apiKey:     cfg.APIKey,
		geocodeURL: cfg.GeocodeURL,
		routesURL:  cfg.RoutesURL,
		region:     cfg.Region,
		maxBody:    maxResponseSize,
		debug:      os.Getenv("ENV") == "development",
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.geocodeURL == "" {
		c.geocodeURL = DefaultGeocodeURL
	}
	if c.routesURL == "" {
		c.routesURL = DefaultRoutesURL
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// Geocode resolves a free-form address to the first result's location.
func (c *Client) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.geocodeURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create geocode request: %w", err)
	}
	q := req.URL.Query()
	q.Set("address", address)
	q.Set("key", c.apiKey)
	if c.region != "" {
		q.Set("region", c.region)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{StatusCode: status, Message: truncate(string(body))}
	}

	var decoded GeocodeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	switch decoded.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, ErrNoResults
	default:
		return nil, &APIError{StatusCode: status, Status: decoded.Status, Message: decoded.ErrorMessage}
	}
	if len(decoded.Results) == 0 {
		return nil, ErrNoResults
	}

	first := decoded.Results[0]
	return &GeocodeResult{
		Location:         first.Geometry.Location,
		FormattedAddress: first.FormattedAddress,
		Raw:              body,
	}, nil
}

// ComputeTwoWheelerRoute asks the Routes API for a motorcycle route that
// avoids toll roads.
func (c *Client) ComputeTwoWheelerRoute(ctx context.Context, origin, destination LatLng) (*Route, error) {
	payload := computeRoutesRequest{
		Origin:         waypointAt(origin),
		Destination:    waypointAt(destination),
		TravelMode:     "TWO_WHEELER",
		RouteModifiers: routeModifiers{AvoidTolls: true},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal routes request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.routesURL, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("create routes request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", routesFieldMask)

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		var e routesError
		msg := truncate(string(body))
		if json.Unmarshal(body, &e) == nil && e.Error.Message != "" {
			return nil, &APIError{StatusCode: status, Status: e.Error.Status, Message: e.Error.Message}
		}
		return nil, &APIError{StatusCode: status, Message: msg}
	}

	var decoded computeRoutesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode routes response: %w", err)
	}
	if len(decoded.Routes) == 0 {
		return nil, ErrNoResults
	}

	first := decoded.Routes[0]
	// the field mask drops distanceMeters from routes Google could not measure
	if first.DistanceMeters <= 0 && origin != destination {
		return nil, ErrNoResults
	}
	route := &Route{DistanceMeters: first.DistanceMeters, Raw: body}
	if first.Duration != "" {
		if d, err := time.ParseDuration(first.Duration); err == nil {
			route.Duration = d
		}
	}
	return route, nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, resp.StatusCode, ErrResponseTooLarge
	}

	if c.debug {
		log.Debug().
			Str("url", req.URL.Host+req.URL.Path).
			Int("status", resp.StatusCode).
			Dur("latency", time.Since(start)).
			Msg("googlemaps response")
	}
	return body, resp.StatusCode, nil
}

func waypointAt(p LatLng) waypoint {
	var w waypoint
	w.Location.LatLng = latLngLiteral{Latitude: p.Lat, Longitude: p.Lng}
	return w
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 256 {
		return s[:256]
	}
	return s
}
