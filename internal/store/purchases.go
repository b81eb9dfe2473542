package store

import (
	"context"
	"fmt"

	"storefront/internal/models"
)

// SavePurchase inserts a purchase and decrements stock by one unit per item
// in a single transaction.
func (s *Store) SavePurchase(ctx context.Context, purchase *models.Purchase) error {
	itemIDs, err := purchase.ItemIDs()
	if err != nil {
		return fmt.Errorf("invalid purchase items: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert := "INSERT INTO purchases (userPhoneNumb, items, totalPrice, registerDate) VALUES (?, ?, ?, ?)"
	if s.isMySQL() {
		res, err := tx.ExecContext(ctx, insert,
			purchase.UserPhoneNumb, purchase.Items, purchase.TotalPrice, purchase.RegisterDate)
		if err != nil {
			return fmt.Errorf("failed to insert purchase: %w", err)
		}
		if purchase.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	} else {
		err = tx.GetContext(ctx, &purchase.ID, s.q(insert+" RETURNING id"),
			purchase.UserPhoneNumb, purchase.Items, purchase.TotalPrice, purchase.RegisterDate)
		if err != nil {
			return fmt.Errorf("failed to insert purchase: %w", err)
		}
	}

	decrement := s.q("UPDATE products SET stock_quantity = stock_quantity - 1 WHERE product_id = ? AND stock_quantity >= 1")
	for _, productID := range itemIDs {
		res, err := tx.ExecContext(ctx, decrement, productID)
		if err != nil {
			return fmt.Errorf("failed to update stock for product %d: %w", productID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: product %d", ErrInsufficientStock, productID)
		}
	}

	return tx.Commit()
}

// GetPurchasedItems returns the raw items strings of a user's purchases
func (s *Store) GetPurchasedItems(ctx context.Context, userPhoneNumb string) ([]string, error) {
	items := []string{}
	err := s.db.SelectContext(ctx, &items,
		s.q("SELECT items FROM purchases WHERE userPhoneNumb = ?"), userPhoneNumb)
	return items, err
}
