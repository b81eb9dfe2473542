package store

import (
	"context"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		product_id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price NUMERIC(12, 2) NOT NULL,
		stock_quantity INTEGER NOT NULL DEFAULT 0,
		discount_amount NUMERIC(5, 2) DEFAULT 0,
		image_url VARCHAR(512) NOT NULL DEFAULT '/assets/default'
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		product_id BIGINT NOT NULL REFERENCES products (product_id) ON DELETE CASCADE,
		session_id VARCHAR(128) NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity >= 1),
		PRIMARY KEY (product_id, session_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cart_items_session ON cart_items (session_id)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id BIGSERIAL PRIMARY KEY,
		userPhoneNumb VARCHAR(32) NOT NULL,
		items TEXT NOT NULL,
		totalPrice NUMERIC(14, 2) NOT NULL,
		registerDate DATE NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_phone ON purchases (userPhoneNumb)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		product_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(12, 2) NOT NULL,
		stock_quantity INT NOT NULL DEFAULT 0,
		discount_amount DECIMAL(5, 2) DEFAULT 0,
		image_url VARCHAR(512) NOT NULL DEFAULT '/assets/default'
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		product_id BIGINT NOT NULL,
		session_id VARCHAR(128) NOT NULL,
		quantity INT NOT NULL,
		PRIMARY KEY (product_id, session_id),
		INDEX idx_cart_items_session (session_id),
		FOREIGN KEY (product_id) REFERENCES products (product_id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		userPhoneNumb VARCHAR(32) NOT NULL,
		items TEXT NOT NULL,
		totalPrice DECIMAL(14, 2) NOT NULL,
		registerDate DATE NOT NULL,
		INDEX idx_purchases_phone (userPhoneNumb)
	)`,
}

// schema returns the DDL statements for the store's dialect
func (s *Store) schema() []string {
	if s.isMySQL() {
		return mysqlSchema
	}
	return postgresSchema
}

// Migrate creates the storefront tables if they do not exist
func (s *Store) Migrate(ctx context.Context) error {
	for i, stmt := range s.schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
