package service

import (
	"context"
	"errors"
	"sync"

	"github.com/GTDGit/gtd_ongkir/internal/models"
)

var testOrigin = models.Coordinate{Lat: -6.2088, Lng: 106.8456}

func testIndex() *TerritoryIndex {
	return NewTerritoryIndex(
		[]models.Province{{Code: "31", Name: "DKI JAKARTA"}},
		[]models.City{{Code: "74", ProvinceCode: "31", FullCode: "3174", Name: "KOTA ADM. JAKARTA SELATAN"}},
		[]models.District{
			{Code: "02", CityCode: "3174", FullCode: "317402", Name: "SETIABUDI"},
			{Code: "03", CityCode: "3174", FullCode: "317403", Name: "TEBET"},
		},
		[]models.Ward{
			{Code: "1001", DistrictCode: "317402", FullCode: "3174021001", Name: "KUNINGAN TIMUR"},
			{Code: "1002", DistrictCode: "317402", FullCode: "3174021002", Name: "KARET"},
			{Code: "1003", DistrictCode: "317402", FullCode: "3174021003", Name: "MENTENG ATAS"},
			{Code: "1001", DistrictCode: "317403", FullCode: "3174031001", Name: "TEBET BARAT"},
		},
	)
}

func testWardTable() WardTable {
	t := WardTable{}
	t.Set("Kota Adm. Jakarta Selatan", "Setiabudi", "Kuningan Timur", &models.Coordinate{Lat: -6.2297, Lng: 106.8295})
	t.Set("Kota Adm. Jakarta Selatan", "Setiabudi", "Karet", &models.Coordinate{Lat: -6.2203, Lng: 106.8155})
	t.Set("Kota Adm. Jakarta Selatan", "Setiabudi", "Menteng Atas", nil)
	t.Set("Kota Adm. Jakarta Selatan", "Tebet", "Tebet Barat", nil)
	return t
}

func testTable() *GeocodeTable {
	return NewGeocodeTable(testIndex(), testWardTable(), nil)
}

type fakeGeocoder struct {
	mu    sync.Mutex
	calls []string
	match GeocodeMatch
	err   error
}

func (f *fakeGeocoder) Geocode(ctx context.Context, query string) (GeocodeMatch, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	f.mu.Unlock()
	if f.err != nil {
		return GeocodeMatch{}, f.err
	}
	return f.match, nil
}

func (f *fakeGeocoder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type memoryGeocodeStore struct {
	data map[string]models.Coordinate
	puts int
}

func newMemoryGeocodeStore() *memoryGeocodeStore {
	return &memoryGeocodeStore{data: map[string]models.Coordinate{}}
}

func (m *memoryGeocodeStore) Get(ctx context.Context, query string) (models.Coordinate, bool, error) {
	c, ok := m.data[query]
	return c, ok, nil
}

func (m *memoryGeocodeStore) Put(ctx context.Context, query string, match GeocodeMatch) error {
	m.puts++
	m.data[query] = match.Coordinate
	return nil
}

var errProviderDown = errors.New("provider down")

type fakeStage struct {
	method models.DistanceMethod
	km     float64
	err    error
	// block waits for ctx cancellation before answering
	block bool

	mu    sync.Mutex
	calls int
}

func (f *fakeStage) Method() models.DistanceMethod { return f.method }

func (f *fakeStage) Route(ctx context.Context, origin, destination models.Coordinate) (models.DistanceResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return models.DistanceResult{}, ctx.Err()
	}
	if f.err != nil {
		return models.DistanceResult{}, f.err
	}
	return models.DistanceResult{Km: f.km}, nil
}

func (f *fakeStage) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
