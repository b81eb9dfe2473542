package service

import (
	"context"
	"time"

	"storefront/internal/models"
)

// ProductStore is the product side of the relational store
type ProductStore interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	SortProducts(ctx context.Context, sortBy, order string) ([]models.Product, error)
	UpdateStock(ctx context.Context, productID int64, quantity int) error
	GetDiscountedProductIDs(ctx context.Context) ([]int64, error)
	CreateProduct(ctx context.Context, product *models.Product) error
}

// CartStore is the cart side of the relational store
type CartStore interface {
	AddToCart(ctx context.Context, productID int64, sessionID string, quantity int) error
	GetCartItems(ctx context.Context, sessionID string) ([]models.CartItem, error)
	GetCartLines(ctx context.Context, sessionID string) ([]models.CartLine, error)
	DeleteFromCart(ctx context.Context, productID int64, sessionID string) error
	ClearCart(ctx context.Context, sessionID string) error
}

// PurchaseStore persists purchases
type PurchaseStore interface {
	SavePurchase(ctx context.Context, purchase *models.Purchase) error
	GetPurchasedItems(ctx context.Context, userPhoneNumb string) ([]string, error)
}

// Cache is a string key-value cache with expiration
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Locker provides short-lived exclusive locks
type Locker interface {
	AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, lockKey string) error
}

// PurchaseNotifier is told about every saved purchase
type PurchaseNotifier interface {
	NotifyPurchase(ctx context.Context, purchase *models.Purchase) error
}
