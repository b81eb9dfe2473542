package service

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartService handles per-session carts
type CartService struct {
	store  CartStore
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store CartStore) *CartService {
	return &CartService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// AddToCart adds quantity units of a product, incrementing an existing line
func (s *CartService) AddToCart(ctx context.Context, productID int64, sessionID string, quantity int) (bool, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddToCart")
	defer span.End()

	if sessionID == "" {
		return false, ErrMissingSession
	}
	if productID <= 0 {
		return false, ErrInvalidProduct
	}
	if quantity < 1 {
		return false, ErrInvalidQuantity
	}

	if err := s.store.AddToCart(ctx, productID, sessionID, quantity); err != nil {
		s.logger.Error("Error adding to cart",
			zap.Int64("product_id", productID),
			zap.String("session_id", sessionID),
			zap.Error(err))
		return false, fmt.Errorf("failed to add to cart: %w", err)
	}

	util.CartItemsAddedTotal.Inc()
	return true, nil
}

// GetCartItems returns the session's cart items
func (s *CartService) GetCartItems(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	items, err := s.store.GetCartItems(ctx, sessionID)
	if err != nil {
		s.logger.Error("Error fetching cart items", zap.String("session_id", sessionID), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch cart items: %w", err)
	}
	return items, nil
}

// GetProductIDs returns the product ids in the session's cart
func (s *CartService) GetProductIDs(ctx context.Context, sessionID string) ([]int64, error) {
	items, err := s.GetCartItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	return ids, nil
}

// GetCartLines returns cart items joined with product details
func (s *CartService) GetCartLines(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	ctx, span := util.StartSpan(ctx, "CartService.GetCartLines")
	defer span.End()

	lines, err := s.store.GetCartLines(ctx, sessionID)
	if err != nil {
		s.logger.Error("Error fetching cart lines", zap.String("session_id", sessionID), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}
	return lines, nil
}

// DeleteFromCart removes a product from the cart; missing rows are ignored
func (s *CartService) DeleteFromCart(ctx context.Context, productID int64, sessionID string) error {
	if err := s.store.DeleteFromCart(ctx, productID, sessionID); err != nil {
		s.logger.Error("Error deleting from cart",
			zap.Int64("product_id", productID),
			zap.String("session_id", sessionID),
			zap.Error(err))
		return fmt.Errorf("failed to delete from cart: %w", err)
	}

	s.logger.Info("Product deleted from cart",
		zap.Int64("product_id", productID),
		zap.String("session_id", sessionID))
	return nil
}

// ClearCart removes every item from the session's cart
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.store.ClearCart(ctx, sessionID); err != nil {
		s.logger.Error("Error clearing cart", zap.String("session_id", sessionID), zap.Error(err))
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// CalculateTotalPrice sums discounted line totals; an empty cart totals zero
func (s *CartService) CalculateTotalPrice(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	lines, err := s.GetCartLines(ctx, sessionID)
	if err != nil {
		return decimal.Zero, err
	}
	return SumLines(lines), nil
}

// SumLines totals cart lines
func SumLines(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.TotalPrice())
	}
	return total
}
