package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"easyorder/internal/domain"
	"easyorder/internal/errors"
)

const productColumns = `
	p.entity_id, p.sku, p.name, p.type_id, p.price, p.special_price, p.weight,
	p.status, p.is_salable, p.created_at, p.updated_at`

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM catalog_product_entity p
		WHERE p.entity_id = ?`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return p, nil
}

// FindChildren returns the variants linked to a configurable parent in link order, with their
// super attribute values loaded.
func (r *MySQLRepository) FindChildren(ctx context.Context, parentID int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM catalog_product_super_link l
		JOIN catalog_product_entity p ON p.entity_id = l.product_id
		WHERE l.parent_id = ?
		ORDER BY l.link_id ASC`

	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("querying product children: %w", err)
	}
	defer rows.Close()

	var children []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		p.ParentID = &parentID
		children = append(children, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	if len(children) == 0 {
		return children, nil
	}

	ids := make([]int, len(children))
	for i, c := range children {
		ids[i] = c.ID
	}
	attrs, err := r.findAttributes(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range children {
		children[i].Attributes = attrs[children[i].ID]
	}

	return children, nil
}

func (r *MySQLRepository) findAttributes(ctx context.Context, ids []int) (map[int]map[int]int, error) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT entity_id, attribute_id, value
		FROM catalog_product_entity_int
		WHERE entity_id IN (%s)`,
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying product attributes: %w", err)
	}
	defer rows.Close()

	attrs := make(map[int]map[int]int, len(ids))
	for rows.Next() {
		var entityID, attributeID, value int
		if err := rows.Scan(&entityID, &attributeID, &value); err != nil {
			return nil, fmt.Errorf("scanning product attribute row: %w", err)
		}
		if attrs[entityID] == nil {
			attrs[entityID] = make(map[int]int)
		}
		attrs[entityID][attributeID] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product attribute rows: %w", err)
	}

	return attrs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var special decimal.NullDecimal
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.TypeID, &p.Price, &special, &p.Weight,
		&p.Status, &p.IsSalable, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if special.Valid {
		p.SpecialPrice = &special.Decimal
	}
	return &p, nil
}
