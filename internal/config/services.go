package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/GTDGit/gtd_ongkir/internal/models"
)

//go:embed services.default.json
var defaultServicesJSON []byte

type servicesFile struct {
	Services []models.ServiceProfile `json:"services"`
}

// LoadServices reads the service catalogue from path, or the built-in
// catalogue when path is empty. Profiles keep file order, which is also the
// tie-break order for the cheapest quote.
func LoadServices(path string) ([]models.ServiceProfile, error) {
	raw := defaultServicesJSON
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read services file: %w", err)
		}
		raw = b
	}
	return ParseServices(raw)
}

// ParseServices decodes and validates a service catalogue document.
func ParseServices(raw []byte) ([]models.ServiceProfile, error) {
	var f servicesFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}
	if len(f.Services) == 0 {
		return nil, errors.New("services: catalogue is empty")
	}

	seen := make(map[string]struct{}, len(f.Services))
	for i := range f.Services {
		p := &f.Services[i]
		p.Name = strings.TrimSpace(p.Name)
		if err := validateProfile(*p); err != nil {
			return nil, err
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("services: duplicate service %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return f.Services, nil
}

func validateProfile(p models.ServiceProfile) error {
	if p.Name == "" {
		return errors.New("services: profile without name")
	}
	if p.BaseRate.IsNegative() || p.PricePerKm.IsNegative() {
		return fmt.Errorf("services: %s has a negative rate", p.Name)
	}
	if p.MaxDistanceKm <= 0 {
		return fmt.Errorf("services: %s needs a positive maxDistanceKm", p.Name)
	}
	if p.EtaLabel == "" && p.AvgSpeedKmh <= 0 {
		return fmt.Errorf("services: %s needs avgSpeedKmh or etaLabel", p.Name)
	}
	prev := -1.0
	for _, t := range p.TieredRates {
		if t.ThresholdKm < 0 || t.RatePerKm.IsNegative() {
			return fmt.Errorf("services: %s has an invalid tier", p.Name)
		}
		if t.ThresholdKm <= prev {
			return fmt.Errorf("services: %s tiers must have ascending thresholds", p.Name)
		}
		prev = t.ThresholdKm
	}
	return nil
}
