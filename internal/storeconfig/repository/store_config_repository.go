package repository

import (
	"context"
	"database/sql"
	"fmt"

	"easyorder/internal/errors"
)

type MySQLStoreConfigRepository struct {
	db *sql.DB
}

func NewMySQLStoreConfigRepository(db *sql.DB) *MySQLStoreConfigRepository {
	return &MySQLStoreConfigRepository{db: db}
}

// FindValue returns the value stored for path, preferring the store scope over the default scope.
func (r *MySQLStoreConfigRepository) FindValue(ctx context.Context, storeID int, path string) (string, error) {
	query := `
		SELECT value
		FROM core_config_data
		WHERE path = ?
		  AND (scope = 'default' OR (scope = 'stores' AND scope_id = ?))
		ORDER BY scope = 'stores' DESC
		LIMIT 1
	`

	var value sql.NullString
	err := r.db.QueryRowContext(ctx, query, path, storeID).Scan(&value)

	if err == sql.ErrNoRows {
		return "", errors.NewNotFoundError(fmt.Sprintf("config path %s not found", path))
	}
	if err != nil {
		return "", fmt.Errorf("querying config value for %s: %w", path, err)
	}

	return value.String, nil
}

// FindByPrefix returns every default or store scoped value whose path starts with prefix.
func (r *MySQLStoreConfigRepository) FindByPrefix(ctx context.Context, storeID int, prefix string) (map[string]string, error) {
	query := `
		SELECT path, value
		FROM core_config_data
		WHERE path LIKE ?
		  AND (scope = 'default' OR (scope = 'stores' AND scope_id = ?))
		ORDER BY scope = 'stores' ASC
	`

	rows, err := r.db.QueryContext(ctx, query, prefix+"%", storeID)
	if err != nil {
		return nil, fmt.Errorf("querying config values by prefix %s: %w", prefix, err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var path string
		var value sql.NullString
		if err := rows.Scan(&path, &value); err != nil {
			return nil, fmt.Errorf("scanning config row: %w", err)
		}
		// store scope rows come last and override defaults
		values[path] = value.String
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating config rows: %w", err)
	}

	return values, nil
}
