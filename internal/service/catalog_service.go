package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// AllProductsCacheKey holds the JSON product listing
const AllProductsCacheKey = "allProducts"

// DefaultCatalogCacheTTL is the expiration of the cached listing
const DefaultCatalogCacheTTL = 3600 * time.Second

// CatalogService handles product listing and stock
type CatalogService struct {
	products ProductStore
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(products ProductStore, cache Cache, cacheTTL time.Duration) *CatalogService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCatalogCacheTTL
	}
	return &CatalogService{
		products: products,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   util.GetLogger(),
	}
}

// FindAll returns every product in store order
func (s *CatalogService) FindAll(ctx context.Context) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.FindAll")
	defer span.End()

	products, err := s.products.GetProducts(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch products", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

// Sort returns every product ordered by an allow-listed column and direction
func (s *CatalogService) Sort(ctx context.Context, sortBy, order string) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Sort")
	defer span.End()

	products, err := s.products.SortProducts(ctx, sortBy, order)
	if err != nil {
		s.logger.Error("Failed to sort products",
			zap.String("sort_by", sortBy),
			zap.String("order", order),
			zap.Error(err))
		return nil, fmt.Errorf("failed to sort products: %w", err)
	}
	return products, nil
}

// UpdateStock decrements a product's stock by quantity
func (s *CatalogService) UpdateStock(ctx context.Context, productID int64, quantity int) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateStock")
	defer span.End()

	if err := s.products.UpdateStock(ctx, productID, quantity); err != nil {
		s.logger.Error("Failed to update stock",
			zap.Int64("product_id", productID),
			zap.Error(err))
		return fmt.Errorf("failed to update stock: %w", err)
	}

	s.logger.Info("Stock updated",
		zap.Int64("product_id", productID),
		zap.Int("quantity", quantity))
	return nil
}

// FindAllCached returns the product listing through the read-through cache.
// Cache failures are logged and the listing is served from the store.
func (s *CatalogService) FindAllCached(ctx context.Context) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.FindAllCached")
	defer span.End()

	cached, found, err := s.cache.Get(ctx, AllProductsCacheKey)
	switch {
	case err != nil:
		util.CatalogCacheErrorsTotal.WithLabelValues("get").Inc()
		s.logger.Warn("Catalog cache read failed, continuing with DB", zap.Error(err))

	case found:
		var products []models.Product
		if err := json.Unmarshal([]byte(cached), &products); err != nil {
			util.CatalogCacheErrorsTotal.WithLabelValues("decode").Inc()
			s.logger.Warn("Failed to decode cached products, continuing with DB", zap.Error(err))
			break
		}
		util.CatalogCacheHitsTotal.Inc()
		return products, nil
	}

	util.CatalogCacheMissesTotal.Inc()

	products, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(products)
	if err != nil {
		s.logger.Error("Failed to encode products for cache", zap.Error(err))
		return products, nil
	}

	if err := s.cache.Set(ctx, AllProductsCacheKey, string(data), s.cacheTTL); err != nil {
		util.CatalogCacheErrorsTotal.WithLabelValues("set").Inc()
		s.logger.Warn("Failed to cache products", zap.Error(err))
	}

	return products, nil
}

// InvalidateCache drops the cached listing
func (s *CatalogService) InvalidateCache(ctx context.Context) error {
	if err := s.cache.Del(ctx, AllProductsCacheKey); err != nil {
		util.CatalogCacheErrorsTotal.WithLabelValues("del").Inc()
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}

// CreateProduct adds a product to the catalog
func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateProduct")
	defer span.End()

	if product.ImageURL == "" {
		product.ImageURL = models.DefaultImageURL
	}

	if err := s.products.CreateProduct(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.String("name", product.Name), zap.Error(err))
		return fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created",
		zap.Int64("product_id", product.ProductID),
		zap.String("name", product.Name))
	return nil
}

// CacheInvalidator is a PurchaseNotifier that drops the cached listing
// after purchases change stock.
type CacheInvalidator struct {
	catalog *CatalogService
}

// NewCacheInvalidator creates a notifier backed by the catalog cache
func NewCacheInvalidator(catalog *CatalogService) *CacheInvalidator {
	return &CacheInvalidator{catalog: catalog}
}

// NotifyPurchase invalidates the catalog cache
func (ci *CacheInvalidator) NotifyPurchase(ctx context.Context, _ *models.Purchase) error {
	return ci.catalog.InvalidateCache(ctx)
}
