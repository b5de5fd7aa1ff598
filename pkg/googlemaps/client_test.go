package googlemaps

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGeocodeOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != "Kuningan Timur, Setiabudi, Jakarta Selatan, Indonesia" {
			t.Errorf("address = %q", got)
		}
		if got := r.URL.Query().Get("key"); got != "k" {
			t.Errorf("key = %q", got)
		}
		w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"Kuningan Tim.","geometry":{"location":{"lat":-6.2297,"lng":106.8295}}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", GeocodeURL: srv.URL})
	res, err := c.Geocode(context.Background(), "Kuningan Timur, Setiabudi, Jakarta Selatan, Indonesia")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if res.Location.Lat != -6.2297 || res.Location.Lng != 106.8295 {
		t.Fatalf("location = %+v", res.Location)
	}
	if res.FormattedAddress != "Kuningan Tim." {
		t.Fatalf("formatted = %q", res.FormattedAddress)
	}
}

func TestGeocodeStatuses(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		noMatch bool
	}{
		{"zero results", 200, `{"status":"ZERO_RESULTS","results":[]}`, true},
		{"ok but empty", 200, `{"status":"OK","results":[]}`, true},
		{"quota", 200, `{"status":"OVER_QUERY_LIMIT","error_message":"quota"}`, false},
		{"http error", 503, `unavailable`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewClient(Config{APIKey: "k", GeocodeURL: srv.URL}).Geocode(context.Background(), "x")
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.noMatch != errors.Is(err, ErrNoResults) {
				t.Fatalf("err = %v, want ErrNoResults=%v", err, tc.noMatch)
			}
			var apiErr *APIError
			if !tc.noMatch && !errors.As(err, &apiErr) {
				t.Fatalf("err = %T, want *APIError", err)
			}
		})
	}
}

func TestComputeTwoWheelerRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Goog-Api-Key") != "k" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("X-Goog-FieldMask") == "" {
			t.Errorf("missing field mask")
		}
		var body computeRoutesRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.TravelMode != "TWO_WHEELER" || !body.RouteModifiers.AvoidTolls {
			t.Errorf("body = %+v", body)
		}
		if body.Origin.Location.LatLng.Latitude != -6.2 {
			t.Errorf("origin = %+v", body.Origin)
		}
		w.Write([]byte(`{"routes":[{"distanceMeters":12345,"duration":"1500s"}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", RoutesURL: srv.URL})
	route, err := c.ComputeTwoWheelerRoute(context.Background(), LatLng{Lat: -6.2, Lng: 106.8}, LatLng{Lat: -6.3, Lng: 106.9})
	if err != nil {
		t.Fatalf("ComputeTwoWheelerRoute: %v", err)
	}
	if route.DistanceMeters != 12345 {
		t.Fatalf("distance = %d, want 12345", route.DistanceMeters)
	}
	if route.Duration != 25*time.Minute {
		t.Fatalf("duration = %v, want 25m", route.Duration)
	}
}

func TestComputeTwoWheelerRouteEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewClient(Config{APIKey: "k", RoutesURL: srv.URL}).
		ComputeTwoWheelerRoute(context.Background(), LatLng{}, LatLng{})
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("err = %v, want ErrNoResults", err)
	}
}

func TestComputeTwoWheelerRouteMissingDistance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes":[{"duration":"0s"}]}`))
	}))
	defer srv.Close()
	c := NewClient(Config{APIKey: "k", RoutesURL: srv.URL})

	_, err := c.ComputeTwoWheelerRoute(context.Background(), LatLng{Lat: -6.2, Lng: 106.8}, LatLng{Lat: -6.3, Lng: 106.9})
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("err = %v, want ErrNoResults for distinct endpoints", err)
	}

	same := LatLng{Lat: -6.2, Lng: 106.8}
	route, err := c.ComputeTwoWheelerRoute(context.Background(), same, same)
	if err != nil || route.DistanceMeters != 0 {
		t.Fatalf("same point: route = %+v, err = %v", route, err)
	}
}

func TestResponseTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"Kuningan Tim.","geometry":{"location":{"lat":-6.2297,"lng":106.8295}}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", GeocodeURL: srv.URL})
	c.maxBody = 32
	if _, err := c.Geocode(context.Background(), "x"); !errors.Is(err, ErrResponseTooLarge) {
		t.Fatalf("err = %v, want ErrResponseTooLarge", err)
	}
}

func TestComputeTwoWheelerRouteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(Config{APIKey: "k", RoutesURL: srv.URL}).
		ComputeTwoWheelerRoute(context.Background(), LatLng{}, LatLng{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden || apiErr.Status != "PERMISSION_DENIED" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}

func TestGeocodeHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewClient(Config{APIKey: "k", GeocodeURL: srv.URL}).Geocode(ctx, "x")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("geocode did not abort promptly")
	}
}
