package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the test database, skipping the test when it is not reachable.
// Expects a MySQL database named 'easyorder_test' on localhost:3306.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/easyorder_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Verify connection
	err = db.Ping()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties every table and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{
		"sales_order_grid", "sales_order_payment", "sales_order_address", "sales_order_item", "sales_order",
		"sequence_order", "indexer_state", "quote_item", "quote", "shipping_tablerate",
		"catalog_product_entity_int", "catalog_product_super_link", "catalog_product_entity",
		"directory_country_region", "core_config_data",
	}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the tables the repositories read and write.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createCoreConfigDataTable := `
	CREATE TABLE IF NOT EXISTS core_config_data (
		config_id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		scope VARCHAR(8) NOT NULL DEFAULT 'default',
		scope_id INT NOT NULL DEFAULT 0,
		path VARCHAR(255) NOT NULL DEFAULT 'general',
		value TEXT,
		UNIQUE KEY uq_scope_path (scope, scope_id, path)
	)`

	createDirectoryCountryRegionTable := `
	CREATE TABLE IF NOT EXISTS directory_country_region (
		region_id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		country_id VARCHAR(4) NOT NULL DEFAULT '0',
		code VARCHAR(32),
		default_name VARCHAR(255),
		INDEX idx_country (country_id)
	)`

	createProductTable := `
	CREATE TABLE IF NOT EXISTS catalog_product_entity (
		entity_id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		sku VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL DEFAULT '',
		type_id VARCHAR(32) NOT NULL DEFAULT 'simple',
		price DECIMAL(20,6) NOT NULL DEFAULT 0,
		special_price DECIMAL(20,6) NULL,
		weight DECIMAL(12,4) NOT NULL DEFAULT 0,
		status SMALLINT NOT NULL DEFAULT 1,
		is_salable TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_sku (sku)
	)`

	createSuperLinkTable := `
	CREATE TABLE IF NOT EXISTS catalog_product_super_link (
		link_id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		product_id INT UNSIGNED NOT NULL,
		parent_id INT UNSIGNED NOT NULL,
		UNIQUE KEY uq_product_parent (product_id, parent_id)
	)`

	createProductIntTable := `
	CREATE TABLE IF NOT EXISTS catalog_product_entity_int (
		value_id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		entity_id INT UNSIGNED NOT NULL,
		attribute_id SMALLINT UNSIGNED NOT NULL,
		value INT,
		UNIQUE KEY uq_entity_attribute (entity_id, attribute_id)
	)`

	createTableRateTable := `
	CREATE TABLE IF NOT EXISTS shipping_tablerate (
		pk INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		website_id INT NOT NULL DEFAULT 0,
		dest_country_id VARCHAR(4) NOT NULL DEFAULT '0',
		dest_region_id INT NOT NULL DEFAULT 0,
		dest_zip VARCHAR(10) NOT NULL DEFAULT '*',
		condition_name VARCHAR(30) NOT NULL,
		condition_value DECIMAL(12,4) NOT NULL DEFAULT 0,
		price DECIMAL(12,4) NOT NULL DEFAULT 0
	)`

	createQuoteTable := `
	CREATE TABLE IF NOT EXISTS quote (
		entity_id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		store_id SMALLINT UNSIGNED NOT NULL DEFAULT 0,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		customer_email VARCHAR(255) NOT NULL DEFAULT '',
		customer_firstname VARCHAR(255) NOT NULL DEFAULT '',
		customer_lastname VARCHAR(255) NOT NULL DEFAULT '',
		customer_group_id INT NOT NULL DEFAULT 0,
		customer_is_guest TINYINT(1) NOT NULL DEFAULT 0,
		quote_currency_code VARCHAR(3) NOT NULL DEFAULT '',
		billing_address JSON,
		shipping_address JSON,
		payment_method VARCHAR(255) NOT NULL DEFAULT '',
		subtotal DECIMAL(20,4) NOT NULL DEFAULT 0,
		subtotal_with_discount DECIMAL(20,4) NOT NULL DEFAULT 0,
		grand_total DECIMAL(20,4) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createQuoteItemTable := `
	CREATE TABLE IF NOT EXISTS quote_item (
		item_id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		quote_id INT UNSIGNED NOT NULL,
		product_id INT UNSIGNED NOT NULL,
		parent_product_id INT UNSIGNED NULL,
		sku VARCHAR(255) NOT NULL DEFAULT '',
		name VARCHAR(255) NOT NULL DEFAULT '',
		qty INT NOT NULL DEFAULT 1,
		price DECIMAL(20,4) NOT NULL DEFAULT 0,
		weight DECIMAL(12,4) NOT NULL DEFAULT 0,
		row_total DECIMAL(20,4) NOT NULL DEFAULT 0,
		super_attributes JSON,
		FOREIGN KEY (quote_id) REFERENCES quote(entity_id) ON DELETE CASCADE,
		INDEX idx_quote (quote_id)
	)`

	createSequenceOrderTable := `
	CREATE TABLE IF NOT EXISTS sequence_order (
		sequence_value INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY
	)`

	createSalesOrderTable := `
	CREATE TABLE IF NOT EXISTS sales_order (
		entity_id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		increment_id VARCHAR(32) NOT NULL,
		quote_id INT UNSIGNED NOT NULL,
		store_id SMALLINT UNSIGNED NOT NULL DEFAULT 0,
		store_name VARCHAR(255) NOT NULL DEFAULT '',
		state VARCHAR(32) NOT NULL,
		status VARCHAR(32) NOT NULL,
		customer_email VARCHAR(128) NOT NULL DEFAULT '',
		customer_firstname VARCHAR(128) NOT NULL DEFAULT '',
		customer_lastname VARCHAR(128) NOT NULL DEFAULT '',
		customer_group_id INT NOT NULL DEFAULT 0,
		customer_is_guest TINYINT(1) NOT NULL DEFAULT 0,
		shipping_method VARCHAR(120) NOT NULL DEFAULT '',
		shipping_description VARCHAR(255) NOT NULL DEFAULT '',
		subtotal DECIMAL(20,4) NOT NULL DEFAULT 0,
		shipping_amount DECIMAL(20,4) NOT NULL DEFAULT 0,
		grand_total DECIMAL(20,4) NOT NULL DEFAULT 0,
		base_grand_total DECIMAL(20,4) NOT NULL DEFAULT 0,
		total_refunded DECIMAL(20,4) NOT NULL DEFAULT 0,
		base_currency_code VARCHAR(3) NOT NULL DEFAULT '',
		order_currency_code VARCHAR(3) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_increment (increment_id, store_id)
	)`

	createSalesOrderItemTable := `
	CREATE TABLE IF NOT EXISTS sales_order_item (
		item_id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		order_id INT UNSIGNED NOT NULL,
		product_id INT UNSIGNED NOT NULL,
		parent_product_id INT UNSIGNED NULL,
		sku VARCHAR(255) NOT NULL DEFAULT '',
		name VARCHAR(255) NOT NULL DEFAULT '',
		qty_ordered INT NOT NULL DEFAULT 1,
		price DECIMAL(20,4) NOT NULL DEFAULT 0,
		weight DECIMAL(12,4) NOT NULL DEFAULT 0,
		row_total DECIMAL(20,4) NOT NULL DEFAULT 0,
		FOREIGN KEY (order_id) REFERENCES sales_order(entity_id) ON DELETE CASCADE,
		INDEX idx_order (order_id)
	)`

	createSalesOrderAddressTable := `
	CREATE TABLE IF NOT EXISTS sales_order_address (
		entity_id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		parent_id INT UNSIGNED NOT NULL,
		address_type VARCHAR(16) NOT NULL,
		firstname VARCHAR(255) NOT NULL DEFAULT '',
		lastname VARCHAR(255) NOT NULL DEFAULT '',
		company VARCHAR(255) NOT NULL DEFAULT '',
		street VARCHAR(1024) NOT NULL DEFAULT '',
		city VARCHAR(255) NOT NULL DEFAULT '',
		country_id VARCHAR(2) NOT NULL DEFAULT '',
		region_id INT NULL,
		region VARCHAR(255) NOT NULL DEFAULT '',
		postcode VARCHAR(32) NOT NULL DEFAULT '',
		telephone VARCHAR(64) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT '',
		FOREIGN KEY (parent_id) REFERENCES sales_order(entity_id) ON DELETE CASCADE,
		INDEX idx_parent (parent_id)
	)`

	createSalesOrderPaymentTable := `
	CREATE TABLE IF NOT EXISTS sales_order_payment (
		entity_id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		parent_id INT UNSIGNED NOT NULL,
		method VARCHAR(128) NOT NULL,
		FOREIGN KEY (parent_id) REFERENCES sales_order(entity_id) ON DELETE CASCADE
	)`

	createSalesOrderGridTable := `
	CREATE TABLE IF NOT EXISTS sales_order_grid (
		entity_id INT UNSIGNED NOT NULL PRIMARY KEY,
		status VARCHAR(32) NOT NULL DEFAULT '',
		store_id SMALLINT UNSIGNED NOT NULL DEFAULT 0,
		store_name VARCHAR(255) NOT NULL DEFAULT '',
		customer_id INT UNSIGNED NULL,
		base_grand_total DECIMAL(20,4) NOT NULL DEFAULT 0,
		grand_total DECIMAL(20,4) NOT NULL DEFAULT 0,
		increment_id VARCHAR(50) NOT NULL,
		base_currency_code VARCHAR(3) NOT NULL DEFAULT '',
		order_currency_code VARCHAR(255) NOT NULL DEFAULT '',
		shipping_name VARCHAR(255) NOT NULL DEFAULT '',
		billing_name VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		billing_address VARCHAR(255) NOT NULL DEFAULT '',
		shipping_address VARCHAR(255) NOT NULL DEFAULT '',
		shipping_information VARCHAR(255) NOT NULL DEFAULT '',
		customer_email VARCHAR(255) NOT NULL DEFAULT '',
		customer_group INT NOT NULL DEFAULT 0,
		subtotal DECIMAL(20,4) NOT NULL DEFAULT 0,
		shipping_and_handling DECIMAL(20,4) NOT NULL DEFAULT 0,
		customer_name VARCHAR(255) NOT NULL DEFAULT '',
		payment_method VARCHAR(255) NOT NULL DEFAULT '',
		total_refunded DECIMAL(20,4) NOT NULL DEFAULT 0
	)`

	createIndexerStateTable := `
	CREATE TABLE IF NOT EXISTS indexer_state (
		state_id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		indexer_id VARCHAR(255) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'invalid',
		UNIQUE KEY uq_indexer (indexer_id)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"core_config_data", createCoreConfigDataTable},
		{"directory_country_region", createDirectoryCountryRegionTable},
		{"catalog_product_entity", createProductTable},
		{"catalog_product_super_link", createSuperLinkTable},
		{"catalog_product_entity_int", createProductIntTable},
		{"shipping_tablerate", createTableRateTable},
		{"quote", createQuoteTable},
		{"quote_item", createQuoteItemTable},
		{"sequence_order", createSequenceOrderTable},
		{"sales_order", createSalesOrderTable},
		{"sales_order_item", createSalesOrderItemTable},
		{"sales_order_address", createSalesOrderAddressTable},
		{"sales_order_payment", createSalesOrderPaymentTable},
		{"sales_order_grid", createSalesOrderGridTable},
		{"indexer_state", createIndexerStateTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
