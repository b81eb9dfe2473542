package worker

import (
	"context"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// CacheInvalidator drops cached catalog data
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

// CatalogWorker invalidates the product listing cache when purchases
// change stock
type CatalogWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	catalog      CacheInvalidator
	logger       *zap.Logger
}

// NewCatalogWorker creates a new catalog worker
func NewCatalogWorker(consumer *broker.Consumer, catalog CacheInvalidator) *CatalogWorker {
	w := &CatalogWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		catalog:      catalog,
		logger:       util.GetLogger(),
	}
	w.eventHandler.OnPurchaseCompleted(w.HandlePurchaseCompleted)
	return w
}

// HandlePurchaseCompleted invalidates the catalog cache for a purchase event
func (w *CatalogWorker) HandlePurchaseCompleted(ctx context.Context, event *models.PurchaseCompletedEvent) error {
	ctx, span := util.StartSpan(ctx, "CatalogWorker.HandlePurchaseCompleted")
	defer span.End()

	if err := w.catalog.InvalidateCache(ctx); err != nil {
		return err
	}

	w.logger.Info("Catalog cache invalidated",
		zap.String("event_id", event.EventID),
		zap.Int64("purchase_id", event.PurchaseID),
		zap.Int64s("product_ids", event.ProductIDs))
	return nil
}

// Start starts the worker
func (w *CatalogWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting catalog worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *CatalogWorker) Stop() error {
	w.logger.Info("Stopping catalog worker")
	return w.consumer.Close()
}
