package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/gtd_ongkir/internal/models"
)

// TerritoryRepository reads the administrative hierarchy. Wards live in the
// sub_districts table.
type TerritoryRepository struct {
	db *sqlx.DB
}

// NewTerritoryRepository creates a new TerritoryRepository
func NewTerritoryRepository(db *sqlx.DB) *TerritoryRepository {
	return &TerritoryRepository{db: db}
}

// GetAllProvinces returns all provinces
func (r *TerritoryRepository) GetAllProvinces(ctx context.Context) ([]models.Province, error) {
	var provinces []models.Province
	err := r.db.SelectContext(ctx, &provinces, `SELECT code, name FROM provinces ORDER BY code`)
	return provinces, err
}

// GetAllCities returns all cities ordered by full code
func (r *TerritoryRepository) GetAllCities(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	err := r.db.SelectContext(ctx, &cities, `
		SELECT code, province_code, full_code, name
		FROM cities ORDER BY full_code
	`)
	return cities, err
}

// GetAllDistricts returns all districts ordered by full code
func (r *TerritoryRepository) GetAllDistricts(ctx context.Context) ([]models.District, error) {
	var districts []models.District
	err := r.db.SelectContext(ctx, &districts, `
		SELECT code, city_code, full_code, name
		FROM districts ORDER BY full_code
	`)
	return districts, err
}

// GetAllWards returns all wards ordered by full code
func (r *TerritoryRepository) GetAllWards(ctx context.Context) ([]models.Ward, error) {
	var wards []models.Ward
	err := r.db.SelectContext(ctx, &wards, `
		SELECT code, district_code, full_code, name
		FROM sub_districts ORDER BY full_code
	`)
	return wards, err
}

// CountWards returns the total count of wards
func (r *TerritoryRepository) CountWards(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM sub_districts`)
	return count, err
}
