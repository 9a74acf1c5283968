package repository

import (
	"context"
	"database/sql"
	"fmt"

	"easyorder/internal/domain"
	"easyorder/internal/errors"
)

type MySQLRegionRepository struct {
	db *sql.DB
}

func NewMySQLRegionRepository(db *sql.DB) *MySQLRegionRepository {
	return &MySQLRegionRepository{db: db}
}

func (r *MySQLRegionRepository) FindByID(ctx context.Context, id int) (*domain.Region, error) {
	query := `
		SELECT region_id, country_id, code, default_name
		FROM directory_country_region
		WHERE region_id = ?
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id), fmt.Sprintf("region with id %d not found", id))
}

// FindByName matches the default name or the region code within a country. Comparison follows the
// column collation, which is case-insensitive.
func (r *MySQLRegionRepository) FindByName(ctx context.Context, countryID, name string) (*domain.Region, error) {
	query := `
		SELECT region_id, country_id, code, default_name
		FROM directory_country_region
		WHERE country_id = ?
		  AND (default_name = ? OR code = ?)
		ORDER BY default_name = ? DESC, region_id ASC
		LIMIT 1
	`

	row := r.db.QueryRowContext(ctx, query, countryID, name, name, name)
	return r.scanOne(row, fmt.Sprintf("region %q not found in country %s", name, countryID))
}

func (r *MySQLRegionRepository) scanOne(row *sql.Row, notFound string) (*domain.Region, error) {
	var region domain.Region
	err := row.Scan(&region.ID, &region.CountryID, &region.Code, &region.DefaultName)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying region: %w", err)
	}

	return &region, nil
}
