package repository

import (
	"context"
	"database/sql"
	"fmt"

	"easyorder/internal/domain"
	"easyorder/internal/errors"
)

const (
	GridIndexerID      = "sales_order_grid"
	IndexerStatusValid = "valid"
)

const gridColumns = `entity_id, status, store_id, store_name, customer_id, base_grand_total, grand_total,
	increment_id, base_currency_code, order_currency_code, shipping_name, billing_name, created_at, updated_at,
	billing_address, shipping_address, shipping_information, customer_email, customer_group, subtotal,
	shipping_and_handling, customer_name, payment_method, total_refunded`

// MySQLOrderGridRepository maintains the admin order listing table.
type MySQLOrderGridRepository struct {
	db *sql.DB
}

func NewMySQLOrderGridRepository(db *sql.DB) *MySQLOrderGridRepository {
	return &MySQLOrderGridRepository{db: db}
}

func (r *MySQLOrderGridRepository) Exists(ctx context.Context, orderID uint) (bool, error) {
	var id uint
	err := r.db.QueryRowContext(ctx, `SELECT entity_id FROM sales_order_grid WHERE entity_id = ?`, orderID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking order grid row: %w", err)
	}
	return true, nil
}

func (r *MySQLOrderGridRepository) Insert(ctx context.Context, row domain.OrderGridRow) error {
	query := `INSERT INTO sales_order_grid (` + gridColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, gridArgs(row)...); err != nil {
		return fmt.Errorf("inserting order grid row: %w", err)
	}
	return nil
}

// Reindex rewrites the grid row of a single order.
func (r *MySQLOrderGridRepository) Reindex(ctx context.Context, row domain.OrderGridRow) error {
	query := `REPLACE INTO sales_order_grid (` + gridColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, gridArgs(row)...); err != nil {
		return fmt.Errorf("reindexing order grid row: %w", err)
	}
	return nil
}

// IsIndexerValid reports whether the grid indexer is up to date. An indexer without recorded state is valid.
func (r *MySQLOrderGridRepository) IsIndexerValid(ctx context.Context) (bool, error) {
	var status string
	err := r.db.QueryRowContext(ctx, `SELECT status FROM indexer_state WHERE indexer_id = ?`, GridIndexerID).Scan(&status)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying indexer state: %w", err)
	}
	return status == IndexerStatusValid, nil
}

func (r *MySQLOrderGridRepository) FindByID(ctx context.Context, orderID uint) (*domain.OrderGridRow, error) {
	query := `SELECT ` + gridColumns + ` FROM sales_order_grid WHERE entity_id = ?`

	var row domain.OrderGridRow
	var customerID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&row.EntityID, &row.Status, &row.StoreID, &row.StoreName, &customerID, &row.BaseGrandTotal,
		&row.GrandTotal, &row.IncrementID, &row.BaseCurrencyCode, &row.OrderCurrencyCode, &row.ShippingName,
		&row.BillingName, &row.CreatedAt, &row.UpdatedAt, &row.BillingAddress, &row.ShippingAddress,
		&row.ShippingInformation, &row.CustomerEmail, &row.CustomerGroup, &row.Subtotal,
		&row.ShippingAndHandling, &row.CustomerName, &row.PaymentMethod, &row.TotalRefunded,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %d is not in the grid", orderID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order grid row: %w", err)
	}
	if customerID.Valid {
		cid := int(customerID.Int64)
		row.CustomerID = &cid
	}
	return &row, nil
}

func gridArgs(row domain.OrderGridRow) []interface{} {
	return []interface{}{
		row.EntityID, row.Status, row.StoreID, row.StoreName, row.CustomerID, row.BaseGrandTotal,
		row.GrandTotal, row.IncrementID, row.BaseCurrencyCode, row.OrderCurrencyCode, row.ShippingName,
		row.BillingName, row.CreatedAt, row.UpdatedAt, row.BillingAddress, row.ShippingAddress,
		row.ShippingInformation, row.CustomerEmail, row.CustomerGroup, row.Subtotal,
		row.ShippingAndHandling, row.CustomerName, row.PaymentMethod, row.TotalRefunded,
	}
}
