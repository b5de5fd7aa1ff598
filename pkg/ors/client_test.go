package ors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDirections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/directions/driving-car" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "secret" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		var body directionsRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		// lng first
		if body.Coordinates[0] != [2]float64{106.8, -6.2} {
			t.Errorf("first coordinate = %v", body.Coordinates[0])
		}
		w.Write([]byte(`{"routes":[{"summary":{"distance":8421.5,"duration":903.2}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", nil)
	s, err := c.Directions(context.Background(), ProfileDrivingCar, -6.2, 106.8, -6.3, 106.9)
	if err != nil {
		t.Fatalf("Directions: %v", err)
	}
	if s.DistanceMeters != 8421.5 || s.DurationSeconds != 903.2 {
		t.Fatalf("summary = %+v", s)
	}
}

func TestDirectionsErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"rate limited", 429, `{"error":"Rate limit exceeded"}`, func(err error) bool {
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.StatusCode == 429
		}},
		{"no route", 200, `{"routes":[]}`, func(err error) bool { return errors.Is(err, ErrNoRoute) }},
		{"garbage", 200, `not json`, func(err error) bool { return err != nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "k", nil).Directions(context.Background(), ProfileDrivingCar, 0, 0, 1, 1)
			if !tc.check(err) {
				t.Fatalf("unexpected error %v", err)
			}
		})
	}
}

func TestDirectionsSingleAttempt(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "k", nil).Directions(context.Background(), ProfileDrivingCar, 0, 0, 1, 1); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestDirectionsResponseTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes":[{"summary":{"distance":8421.5,"duration":903.2}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", nil)
	c.maxBody = 16
	if _, err := c.Directions(context.Background(), ProfileDrivingCar, 0, 0, 1, 1); !errors.Is(err, ErrResponseTooLarge) {
		t.Fatalf("err = %v, want ErrResponseTooLarge", err)
	}
}
