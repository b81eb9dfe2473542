package store

import (
	"context"
	"fmt"

	"storefront/internal/models"
)

const productColumns = "product_id, name, price, stock_quantity, COALESCE(discount_amount, 0) AS discount_amount, image_url"

// GetProducts retrieves all products in store order
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, "SELECT "+productColumns+" FROM products")
	return products, err
}

// SortProducts retrieves all products ordered by an allow-listed column
func (s *Store) SortProducts(ctx context.Context, sortBy, order string) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, BuildSortQuery(sortBy, order))
	return products, err
}

// UpdateStock decrements stock without a floor check
func (s *Store) UpdateStock(ctx context.Context, productID int64, quantity int) error {
	_, err := s.db.ExecContext(ctx,
		s.q("UPDATE products SET stock_quantity = stock_quantity - ? WHERE product_id = ?"),
		quantity, productID)
	return err
}

// GetDiscountedProductIDs returns ids of products with a discount above zero
func (s *Store) GetDiscountedProductIDs(ctx context.Context) ([]int64, error) {
	ids := []int64{}
	err := s.db.SelectContext(ctx, &ids, "SELECT product_id FROM products WHERE discount_amount > 0")
	return ids, err
}

// CreateProduct inserts a product and sets its generated id
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	if s.isMySQL() {
		res, err := s.db.ExecContext(ctx,
			"INSERT INTO products (name, price, stock_quantity, discount_amount, image_url) VALUES (?, ?, ?, ?, ?)",
			product.Name, product.Price, product.StockQuantity, product.DiscountAmount, product.ImageURL)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}
		product.ProductID, err = res.LastInsertId()
		return err
	}

	return s.db.GetContext(ctx, &product.ProductID,
		s.q("INSERT INTO products (name, price, stock_quantity, discount_amount, image_url) VALUES (?, ?, ?, ?, ?) RETURNING product_id"),
		product.Name, product.Price, product.StockQuantity, product.DiscountAmount, product.ImageURL)
}
