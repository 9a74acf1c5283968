package repository

import (
	"context"
	"database/sql"
	"fmt"

	"easyorder/internal/domain"
)

type MySQLOrderItemRepository struct {
	db *sql.DB
}

func NewMySQLOrderItemRepository(db *sql.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

func (r *MySQLOrderItemRepository) Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (uint, error) {
	query := `
		INSERT INTO sales_order_item (order_id, product_id, parent_product_id, sku, name, qty_ordered, price,
		                              weight, row_total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		item.OrderID, item.ProductID, item.ParentProductID, item.SKU, item.Name, item.Qty, item.Price,
		item.Weight, item.RowTotal,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order item: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderItemRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	query := `
		SELECT item_id, order_id, product_id, parent_product_id, sku, name, qty_ordered, price, weight, row_total
		FROM sales_order_item
		WHERE order_id = ?
		ORDER BY item_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		var parentID sql.NullInt64
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &parentID, &item.SKU, &item.Name, &item.Qty,
			&item.Price, &item.Weight, &item.RowTotal,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		if parentID.Valid {
			pid := int(parentID.Int64)
			item.ParentProductID = &pid
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}
