package utils

import (
	"math"
	"testing"

	"github.com/GTDGit/gtd_ongkir/internal/models"
)

var (
	monas      = models.Coordinate{Lat: -6.175392, Lng: 106.827153}
	gedungSate = models.Coordinate{Lat: -6.902477, Lng: 107.618782}
)

func TestHaversineZeroForSamePoint(t *testing.T) {
	if d := HaversineKm(monas, monas); d != 0 {
		t.Fatalf("HaversineKm(p, p) = %f, want 0", d)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	ab := HaversineKm(monas, gedungSate)
	ba := HaversineKm(gedungSate, monas)
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("HaversineKm not symmetric: %f vs %f", ab, ba)
	}
}

func TestHaversineJakartaBandung(t *testing.T) {
	d := HaversineKm(monas, gedungSate)
	if d < 115 || d > 123 {
		t.Fatalf("Jakarta-Bandung = %f km, want about 119 km", d)
	}
}

func TestHaversineOneDegreeOfLatitude(t *testing.T) {
	d := HaversineKm(models.Coordinate{Lat: 0, Lng: 0}, models.Coordinate{Lat: 1, Lng: 0})
	want := EarthRadiusKm * math.Pi / 180
	if math.Abs(d-want) > 1e-9 {
		t.Fatalf("1 degree = %f km, want %f", d, want)
	}
}

func TestRoundTo(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{10.004, 10},
		{10.006, 10.01},
		{3.14159, 3.14},
	}
	for _, tc := range cases {
		if got := RoundTo(tc.in, 2); got != tc.want {
			t.Errorf("RoundTo(%v, 2) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
