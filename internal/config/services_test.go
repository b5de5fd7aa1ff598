package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadServicesDefaults(t *testing.T) {
	profiles, err := LoadServices("")
	if err != nil {
		t.Fatalf("LoadServices: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("len(profiles) = %d, want 3", len(profiles))
	}
	if profiles[0].Name != "instant" {
		t.Fatalf("first profile = %q, want instant", profiles[0].Name)
	}
	if got := profiles[0].BaseRate.IntPart(); got != 15000 {
		t.Fatalf("instant base rate = %d, want 15000", got)
	}
	if len(profiles[2].TieredRates) != 2 {
		t.Fatalf("sameday tiers = %d, want 2", len(profiles[2].TieredRates))
	}
}

func TestLoadServicesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.json")
	doc := `{"services":[{"name":"kilat","baseRate":"12000","pricePerKm":"2500","maxDistanceKm":15,"avgSpeedKmh":30}]}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	profiles, err := LoadServices(path)
	if err != nil {
		t.Fatalf("LoadServices: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Name != "kilat" {
		t.Fatalf("profiles = %+v", profiles)
	}
	if got := profiles[0].PricePerKm.IntPart(); got != 2500 {
		t.Fatalf("pricePerKm = %d, want 2500", got)
	}
}

func TestParseServicesRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"empty":          `{"services":[]}`,
		"no name":        `{"services":[{"baseRate":1,"pricePerKm":1,"maxDistanceKm":5,"avgSpeedKmh":20}]}`,
		"negative rate":  `{"services":[{"name":"a","baseRate":-1,"pricePerKm":1,"maxDistanceKm":5,"avgSpeedKmh":20}]}`,
		"no max":         `{"services":[{"name":"a","baseRate":1,"pricePerKm":1,"avgSpeedKmh":20}]}`,
		"no eta":         `{"services":[{"name":"a","baseRate":1,"pricePerKm":1,"maxDistanceKm":5}]}`,
		"duplicate":      `{"services":[{"name":"a","baseRate":1,"pricePerKm":1,"maxDistanceKm":5,"etaLabel":"1 jam"},{"name":"a","baseRate":1,"pricePerKm":1,"maxDistanceKm":5,"etaLabel":"1 jam"}]}`,
		"unsorted tiers": `{"services":[{"name":"a","baseRate":1,"pricePerKm":1,"maxDistanceKm":5,"etaLabel":"1 jam","tieredRates":[{"thresholdKm":5,"ratePerKm":1},{"thresholdKm":2,"ratePerKm":1}]}]}`,
	}
	for name, doc := range cases {
		if _, err := ParseServices([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a.com, B.com ,,c.com")
	if strings.Join(got, "|") != "a.com|b.com|c.com" {
		t.Fatalf("splitList = %v", got)
	}
}
