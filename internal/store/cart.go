package store

import (
	"context"

	"storefront/internal/models"
)

// upsertCartItemSQL returns the single-statement insert-or-increment for the dialect
func (s *Store) upsertCartItemSQL() string {
	if s.isMySQL() {
		return `INSERT INTO cart_items (product_id, session_id, quantity) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`
	}
	return s.q(`INSERT INTO cart_items (product_id, session_id, quantity) VALUES (?, ?, ?)
		ON CONFLICT (product_id, session_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`)
}

// AddToCart inserts a cart item or increments its quantity
func (s *Store) AddToCart(ctx context.Context, productID int64, sessionID string, quantity int) error {
	_, err := s.db.ExecContext(ctx, s.upsertCartItemSQL(), productID, sessionID, quantity)
	return err
}

// GetCartItems retrieves the items of a session's cart
func (s *Store) GetCartItems(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	items := []models.CartItem{}
	err := s.db.SelectContext(ctx, &items,
		s.q("SELECT product_id, session_id, quantity FROM cart_items WHERE session_id = ?"), sessionID)
	return items, err
}

// GetCartLines retrieves cart items joined with their products
func (s *Store) GetCartLines(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	err := s.db.SelectContext(ctx, &lines, s.q(`
		SELECT ci.quantity, p.product_id, p.name, p.price, p.stock_quantity, p.image_url,
			COALESCE(p.discount_amount, 0) AS discount_amount
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.product_id
		WHERE ci.session_id = ?`), sessionID)
	return lines, err
}

// DeleteFromCart removes one product from a session's cart
func (s *Store) DeleteFromCart(ctx context.Context, productID int64, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		s.q("DELETE FROM cart_items WHERE product_id = ? AND session_id = ?"), productID, sessionID)
	return err
}

// ClearCart removes every item of a session's cart
func (s *Store) ClearCart(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, s.q("DELETE FROM cart_items WHERE session_id = ?"), sessionID)
	return err
}
