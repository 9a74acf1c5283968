package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"easyorder/internal/domain"
	"easyorder/internal/errors"
)

type MySQLQuoteRepository struct {
	db *sql.DB
}

func NewMySQLQuoteRepository(db *sql.DB) *MySQLQuoteRepository {
	return &MySQLQuoteRepository{db: db}
}

// Save inserts or updates the quote and replaces its items, assigning ids to new rows.
func (r *MySQLQuoteRepository) Save(ctx context.Context, q *domain.Quote) error {
	billing, err := json.Marshal(q.BillingAddress)
	if err != nil {
		return fmt.Errorf("encoding billing address: %w", err)
	}
	shipping, err := json.Marshal(q.ShippingAddress)
	if err != nil {
		return fmt.Errorf("encoding shipping address: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning quote transaction: %w", err)
	}
	defer tx.Rollback()

	args := []interface{}{
		q.StoreID, q.IsActive, q.CustomerEmail, q.CustomerFirstname, q.CustomerLastname,
		q.CustomerGroupID, q.CustomerIsGuest, q.CurrencyCode, billing, shipping, q.PaymentMethod,
		q.Subtotal, q.SubtotalWithDiscount, q.GrandTotal,
	}

	if q.ID == 0 {
		query := `
			INSERT INTO quote (store_id, is_active, customer_email, customer_firstname, customer_lastname,
			                   customer_group_id, customer_is_guest, quote_currency_code, billing_address,
			                   shipping_address, payment_method, subtotal, subtotal_with_discount, grand_total)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("inserting quote: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
		q.ID = uint(id)
	} else {
		query := `
			UPDATE quote SET store_id = ?, is_active = ?, customer_email = ?, customer_firstname = ?,
			       customer_lastname = ?, customer_group_id = ?, customer_is_guest = ?, quote_currency_code = ?,
			       billing_address = ?, shipping_address = ?, payment_method = ?, subtotal = ?,
			       subtotal_with_discount = ?, grand_total = ?
			WHERE entity_id = ?
		`
		result, err := tx.ExecContext(ctx, query, append(args, q.ID)...)
		if err != nil {
			return fmt.Errorf("updating quote: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("getting rows affected: %w", err)
		}
		if rowsAffected == 0 {
			if err := r.exists(ctx, tx, q.ID); err != nil {
				return err
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM quote_item WHERE quote_id = ?`, q.ID); err != nil {
		return fmt.Errorf("clearing quote items: %w", err)
	}

	for i := range q.Items {
		item := &q.Items[i]
		attrs, err := json.Marshal(item.SuperAttributes)
		if err != nil {
			return fmt.Errorf("encoding super attributes: %w", err)
		}
		result, err := tx.ExecContext(ctx, `
			INSERT INTO quote_item (quote_id, product_id, parent_product_id, sku, name, qty, price, weight,
			                        row_total, super_attributes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, q.ID, item.ProductID, item.ParentProductID, item.SKU, item.Name, item.Qty, item.Price,
			item.Weight, item.RowTotal, attrs)
		if err != nil {
			return fmt.Errorf("inserting quote item: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
		item.ID = uint(id)
		item.QuoteID = q.ID
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing quote: %w", err)
	}

	return nil
}

// MySQL reports zero affected rows for an update that changes nothing.
func (r *MySQLQuoteRepository) exists(ctx context.Context, tx *sql.Tx, id uint) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM quote WHERE entity_id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return errors.NewNotFoundError(fmt.Sprintf("quote with id %d not found", id))
	}
	if err != nil {
		return fmt.Errorf("checking quote existence: %w", err)
	}
	return nil
}

func (r *MySQLQuoteRepository) Get(ctx context.Context, id uint) (*domain.Quote, error) {
	query := `
		SELECT entity_id, store_id, is_active, customer_email, customer_firstname, customer_lastname,
		       customer_group_id, customer_is_guest, quote_currency_code, billing_address, shipping_address,
		       payment_method, subtotal, subtotal_with_discount, grand_total, created_at, updated_at
		FROM quote
		WHERE entity_id = ?
	`

	var q domain.Quote
	var billing, shipping []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&q.ID, &q.StoreID, &q.IsActive, &q.CustomerEmail, &q.CustomerFirstname, &q.CustomerLastname,
		&q.CustomerGroupID, &q.CustomerIsGuest, &q.CurrencyCode, &billing, &shipping,
		&q.PaymentMethod, &q.Subtotal, &q.SubtotalWithDiscount, &q.GrandTotal, &q.CreatedAt, &q.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("quote with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying quote by id: %w", err)
	}

	if len(billing) > 0 {
		if err := json.Unmarshal(billing, &q.BillingAddress); err != nil {
			return nil, fmt.Errorf("decoding billing address: %w", err)
		}
	}
	if len(shipping) > 0 {
		if err := json.Unmarshal(shipping, &q.ShippingAddress); err != nil {
			return nil, fmt.Errorf("decoding shipping address: %w", err)
		}
	}

	items, err := r.findItems(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Items = items

	return &q, nil
}

func (r *MySQLQuoteRepository) findItems(ctx context.Context, quoteID uint) ([]domain.QuoteItem, error) {
	query := `
		SELECT item_id, quote_id, product_id, parent_product_id, sku, name, qty, price, weight, row_total,
		       super_attributes
		FROM quote_item
		WHERE quote_id = ?
		ORDER BY item_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("querying quote items: %w", err)
	}
	defer rows.Close()

	var items []domain.QuoteItem
	for rows.Next() {
		var item domain.QuoteItem
		var parentID sql.NullInt64
		var attrs []byte
		err := rows.Scan(
			&item.ID, &item.QuoteID, &item.ProductID, &parentID, &item.SKU, &item.Name, &item.Qty,
			&item.Price, &item.Weight, &item.RowTotal, &attrs,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning quote item row: %w", err)
		}
		if parentID.Valid {
			pid := int(parentID.Int64)
			item.ParentProductID = &pid
		}
		if len(attrs) > 0 && string(attrs) != "null" {
			if err := json.Unmarshal(attrs, &item.SuperAttributes); err != nil {
				return nil, fmt.Errorf("decoding super attributes: %w", err)
			}
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating quote item rows: %w", err)
	}

	return items, nil
}

// Deactivate marks the quote as converted inside the order placement transaction.
func (r *MySQLQuoteRepository) Deactivate(ctx context.Context, tx *sql.Tx, id uint) error {
	result, err := tx.ExecContext(ctx, `UPDATE quote SET is_active = 0 WHERE entity_id = ? AND is_active = 1`, id)
	if err != nil {
		return fmt.Errorf("deactivating quote: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewConflictError(fmt.Sprintf("quote with id %d is missing or already converted", id))
	}

	return nil
}
