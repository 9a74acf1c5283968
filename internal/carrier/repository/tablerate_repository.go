package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"easyorder/internal/carrier"
	"easyorder/internal/errors"
)

type MySQLTableRateRepository struct {
	db *sql.DB
}

func NewMySQLTableRateRepository(db *sql.DB) *MySQLTableRateRepository {
	return &MySQLTableRateRepository{db: db}
}

// FindRate returns the price of the most specific row: exact country beats wildcard "0", exact region
// beats 0, exact postcode beats "*", and the highest threshold not above the condition value wins.
func (r *MySQLTableRateRepository) FindRate(ctx context.Context, q carrier.TableRateQuery) (decimal.Decimal, error) {
	query := `
		SELECT price
		FROM shipping_tablerate
		WHERE website_id = ?
		  AND dest_country_id IN (?, '0')
		  AND dest_region_id IN (?, 0)
		  AND dest_zip IN (?, '*', '')
		  AND condition_name = ?
		  AND condition_value <= ?
		ORDER BY dest_country_id DESC, dest_region_id DESC, dest_zip DESC, condition_value DESC
		LIMIT 1
	`

	var price decimal.Decimal
	err := r.db.QueryRowContext(ctx, query,
		q.StoreID, q.CountryID, q.RegionID, q.Postcode, q.ConditionName, q.ConditionValue,
	).Scan(&price)

	if err == sql.ErrNoRows {
		return decimal.Zero, errors.NewNotFoundError(fmt.Sprintf("no table rate for %s/%d/%s", q.CountryID, q.RegionID, q.Postcode))
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("querying table rate: %w", err)
	}

	return price, nil
}
