package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"storefront/internal/models"
	"storefront/internal/store"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// PurchaseConfig holds checkout rules
type PurchaseConfig struct {
	MinPhoneLength  int
	CheckoutLockTTL time.Duration
}

// DefaultPurchaseConfig returns the standard checkout rules
func DefaultPurchaseConfig() PurchaseConfig {
	return PurchaseConfig{
		MinPhoneLength:  11,
		CheckoutLockTTL: 30 * time.Second,
	}
}

// PurchaseService records purchases and enforces the offer rule
type PurchaseService struct {
	purchases PurchaseStore
	products  ProductStore
	cart      *CartService
	locker    Locker
	notifier  PurchaseNotifier
	cfg       PurchaseConfig
	now       func() time.Time
	logger    *zap.Logger
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	purchases PurchaseStore,
	products ProductStore,
	cart *CartService,
	locker Locker,
	notifier PurchaseNotifier,
	cfg PurchaseConfig,
) *PurchaseService {
	return &PurchaseService{
		purchases: purchases,
		products:  products,
		cart:      cart,
		locker:    locker,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
		logger:    util.GetLogger(),
	}
}

// Save stamps today's date on the purchase and stores it together with the
// stock decrements of its items.
func (s *PurchaseService) Save(ctx context.Context, purchase *models.Purchase) error {
	ctx, span := util.StartSpan(ctx, "PurchaseService.Save")
	defer span.End()

	start := time.Now()
	defer func() {
		util.PurchaseSaveLatency.Observe(time.Since(start).Seconds())
	}()

	purchase.RegisterDate = s.now().Format(models.RegisterDateLayout)

	if err := s.purchases.SavePurchase(ctx, purchase); err != nil {
		s.logger.Error("Failed to save purchase",
			zap.String("items", purchase.Items),
			zap.Error(err))
		return fmt.Errorf("failed to save purchase: %w", err)
	}

	s.logger.Info("Purchase saved",
		zap.Int64("purchase_id", purchase.ID),
		zap.String("items", purchase.Items),
		zap.String("total_price", purchase.TotalPrice.String()))
	return nil
}

// CheckIfBoughtOnOffer reports whether any of productIDs was bought before by
// this phone number and is discounted now.
func (s *PurchaseService) CheckIfBoughtOnOffer(ctx context.Context, userPhoneNumb string, productIDs []int64) (bool, error) {
	ctx, span := util.StartSpan(ctx, "PurchaseService.CheckIfBoughtOnOffer")
	defer span.End()

	history, err := s.purchases.GetPurchasedItems(ctx, userPhoneNumb)
	if err != nil {
		return false, fmt.Errorf("failed to load purchase history: %w", err)
	}
	if len(history) == 0 {
		return false, nil
	}

	purchased := make(map[int64]struct{})
	for _, items := range history {
		ids, err := models.SplitItemIDs(items)
		if err != nil {
			s.logger.Warn("Skipping malformed purchase items",
				zap.String("items", items),
				zap.Error(err))
			continue
		}
		for _, id := range ids {
			purchased[id] = struct{}{}
		}
	}

	discountedIDs, err := s.products.GetDiscountedProductIDs(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load discounted products: %w", err)
	}
	discounted := make(map[int64]struct{}, len(discountedIDs))
	for _, id := range discountedIDs {
		discounted[id] = struct{}{}
	}

	for _, id := range productIDs {
		_, wasBought := purchased[id]
		_, onOffer := discounted[id]
		if wasBought && onOffer {
			return true, nil
		}
	}
	return false, nil
}

// Checkout turns the session's cart into a purchase for userPhoneNumb
func (s *PurchaseService) Checkout(ctx context.Context, sessionID, userPhoneNumb string) (*models.Purchase, error) {
	ctx, span := util.StartSpan(ctx, "PurchaseService.Checkout")
	defer span.End()

	if sessionID == "" {
		return nil, s.reject(ErrMissingSession, "missing_session")
	}
	if utf8.RuneCountInString(userPhoneNumb) < s.cfg.MinPhoneLength {
		return nil, s.reject(ErrInvalidPhone, "invalid_phone")
	}

	lockKey := "checkout:" + sessionID
	locked, err := s.locker.AcquireLock(ctx, lockKey, s.cfg.CheckoutLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire checkout lock: %w", err)
	}
	if !locked {
		return nil, s.reject(ErrCheckoutInProgress, "in_progress")
	}
	defer func() {
		if err := s.locker.ReleaseLock(ctx, lockKey); err != nil {
			s.logger.Error("Failed to release checkout lock",
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
	}()

	productIDs, err := s.cart.GetProductIDs(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	boughtOnOffer, err := s.CheckIfBoughtOnOffer(ctx, userPhoneNumb, productIDs)
	if err != nil {
		return nil, err
	}
	if boughtOnOffer {
		return nil, s.reject(ErrBoughtOnOffer, "bought_on_offer")
	}

	totalPrice, err := s.cart.CalculateTotalPrice(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if totalPrice.IsZero() {
		return nil, s.reject(ErrEmptyCart, "empty_cart")
	}

	purchase := models.NewPurchase(userPhoneNumb, productIDs, totalPrice)
	if err := s.Save(ctx, purchase); err != nil {
		if errors.Is(err, store.ErrInsufficientStock) {
			util.PurchasesRejectedTotal.WithLabelValues("insufficient_stock").Inc()
		}
		return nil, err
	}

	// The purchase is committed at this point; a cart left behind must not
	// turn it into a failed checkout.
	if err := s.cart.ClearCart(ctx, sessionID); err != nil {
		s.logger.Error("Failed to clear cart after purchase",
			zap.String("session_id", sessionID),
			zap.Int64("purchase_id", purchase.ID),
			zap.Error(err))
	}

	util.PurchasesCompletedTotal.Inc()

	if s.notifier != nil {
		if err := s.notifier.NotifyPurchase(ctx, purchase); err != nil {
			s.logger.Error("Failed to notify purchase",
				zap.Int64("purchase_id", purchase.ID),
				zap.Error(err))
		}
	}

	s.logger.Info("Checkout completed",
		zap.String("session_id", sessionID),
		zap.Int64("purchase_id", purchase.ID))
	return purchase, nil
}

func (s *PurchaseService) reject(err error, reason string) error {
	util.PurchasesRejectedTotal.WithLabelValues(reason).Inc()
	return err
}
