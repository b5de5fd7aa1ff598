package ors

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
	// DefaultBaseURL is the public OpenRouteService API.
	DefaultBaseURL = "https://api.openrouteservice.org"

	ProfileDrivingCar = "driving-car"

	// maxResponseSize caps how much of a response body is read (2MB)
	maxResponseSize = 2 << 20
)

var (
	// ErrNoRoute is returned when ORS answered without any route.
	ErrNoRoute = errors.New("ors: no route")
	// ErrResponseTooLarge is returned when a body exceeds the read limit.
	ErrResponseTooLarge = errors.New("ors: response too large")
)

// APIError is a non-2xx answer from ORS.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ors: http %d: %s", e.StatusCode, e.Body)
}

// Client calls the ORS directions endpoint. Calls are single attempts.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxBody    int64
	debug      bool
}

// NewClient constructs a Client. A nil httpClient gets a 30s default.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		maxBody:    maxResponseSize,
		debug:      os.Getenv("ENV") == "development",
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// Summary is the length of a route.
type Summary struct {
	DistanceMeters  float64
	DurationSeconds float64
	Raw             json.RawMessage
}

type directionsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
	} `json:"routes"`
}

// Directions returns the route summary between two points for the given
// profile. Points are passed as lat/lng and sent to ORS in lng,lat order.
func (c *Client) Directions(ctx context.Context, profile string, fromLat, fromLng, toLat, toLng float64) (*Summary, error) {
	payload, err := json.Marshal(directionsRequest{
		Coordinates: [][2]float64{{fromLng, fromLat}, {toLng, toLat}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s", c.baseURL, profile)
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read directions response: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, ErrResponseTooLarge
	}
	if c.debug {
		log.Debug().Str("profile", profile).Int("status", resp.StatusCode).Dur("latency", time.Since(start)).Msg("ors response")
	}
	if resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var decoded directionsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}
	if len(decoded.Routes) == 0 {
		return nil, ErrNoRoute
	}

	s := decoded.Routes[0].Summary
	return &Summary{DistanceMeters: s.Distance, DurationSeconds: s.Duration, Raw: body}, nil
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json, application/geo+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
