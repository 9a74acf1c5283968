package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"easyorder/internal/domain"
	"easyorder/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

// NextIncrementID reserves the next customer-facing order number.
func (r *MySQLOrderRepository) NextIncrementID(ctx context.Context, tx *sql.Tx) (string, error) {
	result, err := tx.ExecContext(ctx, `INSERT INTO sequence_order () VALUES ()`)
	if err != nil {
		return "", fmt.Errorf("reserving order sequence: %w", err)
	}

	value, err := result.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("getting last insert id: %w", err)
	}

	return fmt.Sprintf("%09d", value), nil
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) (uint, error) {
	query := `
		INSERT INTO sales_order (increment_id, quote_id, store_id, store_name, state, status, customer_email,
		                         customer_firstname, customer_lastname, customer_group_id, customer_is_guest,
		                         shipping_method, shipping_description, subtotal, shipping_amount, grand_total,
		                         base_grand_total, total_refunded, base_currency_code, order_currency_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		order.IncrementID, order.QuoteID, order.StoreID, order.StoreName, order.State, order.Status,
		order.CustomerEmail, order.CustomerFirstname, order.CustomerLastname, order.CustomerGroupID,
		order.CustomerIsGuest, order.ShippingMethod, order.ShippingDescription, order.Subtotal,
		order.ShippingAmount, order.GrandTotal, order.BaseGrandTotal, order.TotalRefunded,
		order.BaseCurrencyCode, order.OrderCurrencyCode,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderRepository) InsertAddress(ctx context.Context, tx *sql.Tx, orderID uint, addressType string, address domain.Address) error {
	query := `
		INSERT INTO sales_order_address (parent_id, address_type, firstname, lastname, company, street, city,
		                                 country_id, region_id, region, postcode, telephone, email)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		orderID, addressType, address.Firstname, address.Lastname, address.Company,
		strings.Join(address.Street, "\n"), address.City, address.CountryID, address.RegionID,
		address.Region, address.Postcode, address.Telephone, address.Email,
	)
	if err != nil {
		return fmt.Errorf("inserting %s address: %w", addressType, err)
	}

	return nil
}

func (r *MySQLOrderRepository) InsertPayment(ctx context.Context, tx *sql.Tx, orderID uint, method string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO sales_order_payment (parent_id, method) VALUES (?, ?)`, orderID, method)
	if err != nil {
		return fmt.Errorf("inserting order payment: %w", err)
	}
	return nil
}

// FindByID loads the order header with its addresses and payment method. Items are loaded separately.
func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := `
		SELECT o.entity_id, o.increment_id, o.quote_id, o.store_id, o.store_name, o.state, o.status,
		       o.customer_email, o.customer_firstname, o.customer_lastname, o.customer_group_id,
		       o.customer_is_guest, o.shipping_method, o.shipping_description, o.subtotal, o.shipping_amount,
		       o.grand_total, o.base_grand_total, o.total_refunded, o.base_currency_code, o.order_currency_code,
		       COALESCE(p.method, ''), o.created_at, o.updated_at
		FROM sales_order o
		LEFT JOIN sales_order_payment p ON p.parent_id = o.entity_id
		WHERE o.entity_id = ?
	`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.IncrementID, &order.QuoteID, &order.StoreID, &order.StoreName, &order.State,
		&order.Status, &order.CustomerEmail, &order.CustomerFirstname, &order.CustomerLastname,
		&order.CustomerGroupID, &order.CustomerIsGuest, &order.ShippingMethod, &order.ShippingDescription,
		&order.Subtotal, &order.ShippingAmount, &order.GrandTotal, &order.BaseGrandTotal, &order.TotalRefunded,
		&order.BaseCurrencyCode, &order.OrderCurrencyCode, &order.PaymentMethod, &order.CreatedAt, &order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	if err := r.loadAddresses(ctx, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *MySQLOrderRepository) loadAddresses(ctx context.Context, order *domain.Order) error {
	query := `
		SELECT address_type, firstname, lastname, company, street, city, country_id, region_id, region,
		       postcode, telephone, email
		FROM sales_order_address
		WHERE parent_id = ?
	`

	rows, err := r.db.QueryContext(ctx, query, order.ID)
	if err != nil {
		return fmt.Errorf("querying order addresses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var addressType, street string
		var regionID sql.NullInt64
		var address domain.Address
		err := rows.Scan(
			&addressType, &address.Firstname, &address.Lastname, &address.Company, &street, &address.City,
			&address.CountryID, &regionID, &address.Region, &address.Postcode, &address.Telephone, &address.Email,
		)
		if err != nil {
			return fmt.Errorf("scanning order address row: %w", err)
		}
		if street != "" {
			address.Street = strings.Split(street, "\n")
		}
		if regionID.Valid {
			rid := int(regionID.Int64)
			address.RegionID = &rid
		}

		switch addressType {
		case domain.AddressTypeBilling:
			order.BillingAddress = &address
		case domain.AddressTypeShipping:
			order.ShippingAddress = &address
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating order address rows: %w", err)
	}

	return nil
}

// Save persists the mutable order status fields.
func (r *MySQLOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	query := `UPDATE sales_order SET state = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE entity_id = ?`

	result, err := r.db.ExecContext(ctx, query, order.State, order.Status, order.ID)
	if err != nil {
		return fmt.Errorf("saving order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	// an update within the same second changes nothing and reports zero rows
	if rowsAffected == 0 {
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM sales_order WHERE entity_id = ?`, order.ID).Scan(&one)
		if err == sql.ErrNoRows {
			return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", order.ID))
		}
		if err != nil {
			return fmt.Errorf("checking order existence: %w", err)
		}
	}

	return nil
}
