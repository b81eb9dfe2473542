package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/store"
	"storefront/internal/store/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPhone = "07700900123"

type recordingNotifier struct {
	mu        sync.Mutex
	purchases []*models.Purchase
	err       error
}

func (n *recordingNotifier) NotifyPurchase(ctx context.Context, purchase *models.Purchase) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.purchases = append(n.purchases, purchase)
	return n.err
}

type purchaseFixture struct {
	svc      *PurchaseService
	cart     *CartService
	db       *mocks.MemoryStore
	locks    *mocks.MemoryCache
	notifier *recordingNotifier
}

func newTestPurchase() *purchaseFixture {
	db := mocks.NewMemoryStore()
	locks := mocks.NewMemoryCache()
	notifier := &recordingNotifier{}
	cart := NewCartService(db)
	svc := NewPurchaseService(db, db, cart, locks, notifier, DefaultPurchaseConfig())
	svc.now = func() time.Time { return time.Date(2024, time.March, 5, 18, 30, 0, 0, time.UTC) }

	return &purchaseFixture{svc: svc, cart: cart, db: db, locks: locks, notifier: notifier}
}

// ============================================
// Offer rule
// ============================================

func TestCheckIfBoughtOnOffer_NoHistory(t *testing.T) {
	f := newTestPurchase()
	id := f.db.AddProduct(models.Product{Name: "Lamp", Price: decimal.NewFromInt(100), DiscountAmount: decimal.NewFromInt(20), StockQuantity: 5})

	bought, err := f.svc.CheckIfBoughtOnOffer(context.Background(), validPhone, []int64{id})

	require.NoError(t, err)
	assert.False(t, bought)
}

func TestCheckIfBoughtOnOffer_PreviouslyBoughtAndDiscountedNow(t *testing.T) {
	f := newTestPurchase()
	plain := f.db.AddProduct(models.Product{Name: "Mug", Price: decimal.NewFromInt(10), StockQuantity: 5})
	onOffer := f.db.AddProduct(models.Product{Name: "Lamp", Price: decimal.NewFromInt(100), DiscountAmount: decimal.NewFromInt(20), StockQuantity: 5})
	f.db.AddPurchase(*models.NewPurchase(validPhone, []int64{plain, onOffer}, decimal.NewFromInt(90)))

	bought, err := f.svc.CheckIfBoughtOnOffer(context.Background(), validPhone, []int64{onOffer})
	require.NoError(t, err)
	assert.True(t, bought)

	bought, err = f.svc.CheckIfBoughtOnOffer(context.Background(), validPhone, []int64{plain})
	require.NoError(t, err)
	assert.False(t, bought, "bought before but not discounted now")
}

func TestCheckIfBoughtOnOffer_DiscountedButNeverBought(t *testing.T) {
	f := newTestPurchase()
	plain := f.db.AddProduct(models.Product{Name: "Mug", Price: decimal.NewFromInt(10), StockQuantity: 5})
	onOffer := f.db.AddProduct(models.Product{Name: "Lamp", Price: decimal.NewFromInt(100), DiscountAmount: decimal.NewFromInt(20), StockQuantity: 5})
	f.db.AddPurchase(*models.NewPurchase(validPhone, []int64{plain}, decimal.NewFromInt(10)))

	bought, err := f.svc.CheckIfBoughtOnOffer(context.Background(), validPhone, []int64{onOffer})

	require.NoError(t, err)
	assert.False(t, bought)
}

func TestCheckIfBoughtOnOffer_OtherUsersHistoryIgnored(t *testing.T) {
	f := newTestPurchase()
	onOffer := f.db.AddProduct(models.Product{Name: "Lamp", Price: decimal.NewFromInt(100), DiscountAmount: decimal.NewFromInt(20), StockQuantity: 5})
	f.db.AddPurchase(*models.NewPurchase("09999999999", []int64{onOffer}, decimal.NewFromInt(80)))

	bought, err := f.svc.CheckIfBoughtOnOffer(context.Background(), validPhone, []int64{onOffer})

	require.NoError(t, err)
	assert.False(t, bought)
}

// ============================================
// Save
// ============================================

func TestSave_StampsZeroPaddedDate(t *testing.T) {
	f := newTestPurchase()
	id := f.db.AddProduct(models.Product{Name: "Mug", Price: decimal.NewFromInt(10), StockQuantity: 5})
	purchase := models.NewPurchase(validPhone, []int64{id}, decimal.NewFromInt(10))

	require.NoError(t, f.svc.Save(context.Background(), purchase))

	assert.Equal(t, "2024-03-05", purchase.RegisterDate)
	assert.NotZero(t, purchase.ID)
	p, _ := f.db.Product(id)
	assert.Equal(t, 4, p.StockQuantity)
}

// ============================================
// Checkout
// ============================================

func TestCheckout_FullFlow(t *testing.T) {
	f := newTestPurchase()
	ctx := context.Background()
	a := f.db.AddProduct(models.Product{Name: "A", Price: decimal.NewFromInt(50), StockQuantity: 10})
	_, err := f.cart.AddToCart(ctx, a, "sid_a", 1)
	require.NoError(t, err)

	purchase, err := f.svc.Checkout(ctx, "sid_a", validPhone)

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(purchase.TotalPrice))

	items, _ := f.cart.GetCartItems(ctx, "sid_a")
	assert.Empty(t, items)

	saved := f.db.Purchases()
	require.Len(t, saved, 1)
	assert.Equal(t, validPhone, saved[0].UserPhoneNumb)
	assert.True(t, decimal.NewFromInt(50).Equal(saved[0].TotalPrice))

	p, _ := f.db.Product(a)
	assert.Equal(t, 9, p.StockQuantity)

	assert.Len(t, f.notifier.purchases, 1)
	assert.False(t, f.locks.Locked("checkout:sid_a"))
}

func TestCheckout_ShortPhoneLeavesCartUntouched(t *testing.T) {
	f := newTestPurchase()
	ctx := context.Background()
	a := f.db.AddProduct(models.Product{Name: "A", Price: decimal.NewFromInt(50), StockQuantity: 10})
	_, _ = f.cart.AddToCart(ctx, a, "sid_a", 1)

	_, err := f.svc.Checkout(ctx, "sid_a", "0770090012")

	assert.ErrorIs(t, err, ErrInvalidPhone)
	items, _ := f.cart.GetCartItems(ctx, "sid_a")
	assert.Len(t, items, 1)
	assert.Empty(t, f.db.Purchases())
}

func TestCheckout_MissingSession(t *testing.T) {
	f := newTestPurchase()

	_, err := f.svc.Checkout(context.Background(), "", validPhone)

	assert.ErrorIs(t, err, ErrMissingSession)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newTestPurchase()

	_, err := f.svc.Checkout(context.Background(), "sid_empty", validPhone)

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.db.Purchases())
}

func TestCheckout_RejectsRebuyOnOffer(t *testing.T) {
	f := newTestPurchase()
	ctx := context.Background()
	onOffer := f.db.AddProduct(models.Product{Name: "Lamp", Price: decimal.NewFromInt(100), DiscountAmount: decimal.NewFromInt(20), StockQuantity: 5})
	f.db.AddPurchase(*models.NewPurchase(validPhone, []int64{onOffer}, decimal.NewFromInt(80)))
	_, _ = f.cart.AddToCart(ctx, onOffer, "sid_a", 1)

	_, err := f.svc.Checkout(ctx, "sid_a", validPhone)

	assert.ErrorIs(t, err, ErrBoughtOnOffer)
	items, _ := f.cart.GetCartItems(ctx, "sid_a")
	assert.Len(t, items, 1)
	assert.False(t, f.locks.Locked("checkout:sid_a"))
}

func TestCheckout_ConcurrentCheckoutIsRejected(t *testing.T) {
	f := newTestPurchase()
	ctx := context.Background()
	a := f.db.AddProduct(models.Product{Name: "A", Price: decimal.NewFromInt(50), StockQuantity: 10})
	_, _ = f.cart.AddToCart(ctx, a, "sid_a", 1)
	_, _ = f.locks.AcquireLock(ctx, "checkout:sid_a", time.Minute)

	_, err := f.svc.Checkout(ctx, "sid_a", validPhone)

	assert.ErrorIs(t, err, ErrCheckoutInProgress)
	assert.Empty(t, f.db.Purchases())
}

func TestCheckout_OutOfStockRollsBack(t *testing.T) {
	f := newTestPurchase()
	ctx := context.Background()
	a := f.db.AddProduct(models.Product{Name: "A", Price: decimal.NewFromInt(50), StockQuantity: 3})
	b := f.db.AddProduct(models.Product{Name: "B", Price: decimal.NewFromInt(5), StockQuantity: 0})
	_, _ = f.cart.AddToCart(ctx, a, "sid_a", 1)
	_, _ = f.cart.AddToCart(ctx, b, "sid_a", 1)

	_, err := f.svc.Checkout(ctx, "sid_a", validPhone)

	assert.ErrorIs(t, err, store.ErrInsufficientStock)
	assert.Empty(t, f.db.Purchases())
	p, _ := f.db.Product(a)
	assert.Equal(t, 3, p.StockQuantity)
	items, _ := f.cart.GetCartItems(ctx, "sid_a")
	assert.Len(t, items, 2)
}

func TestCheckout_NotifierFailureDoesNotFailPurchase(t *testing.T) {
	f := newTestPurchase()
	ctx := context.Background()
	f.notifier.err = errors.New("broker unavailable")
	a := f.db.AddProduct(models.Product{Name: "A", Price: decimal.NewFromInt(50), StockQuantity: 10})
	_, _ = f.cart.AddToCart(ctx, a, "sid_a", 1)

	purchase, err := f.svc.Checkout(ctx, "sid_a", validPhone)

	require.NoError(t, err)
	assert.NotNil(t, purchase)
	assert.Len(t, f.db.Purchases(), 1)
}

func TestCheckout_ClearCartFailureKeepsPurchase(t *testing.T) {
	f := newTestPurchase()
	ctx := context.Background()
	a := f.db.AddProduct(models.Product{Name: "A", Price: decimal.NewFromInt(50), StockQuantity: 10})
	_, _ = f.cart.AddToCart(ctx, a, "sid_a", 1)
	f.db.FailOn("ClearCart", errors.New("connection reset"))

	purchase, err := f.svc.Checkout(ctx, "sid_a", validPhone)

	require.NoError(t, err)
	require.NotNil(t, purchase)
	assert.Len(t, f.db.Purchases(), 1)
	p, _ := f.db.Product(a)
	assert.Equal(t, 9, p.StockQuantity)
	assert.Len(t, f.notifier.purchases, 1)
	assert.False(t, f.locks.Locked("checkout:sid_a"))
}

func TestCheckout_StoreErrorPropagates(t *testing.T) {
	f := newTestPurchase()
	ctx := context.Background()
	dbErr := errors.New("deadlock detected")
	a := f.db.AddProduct(models.Product{Name: "A", Price: decimal.NewFromInt(50), StockQuantity: 10})
	_, _ = f.cart.AddToCart(ctx, a, "sid_a", 1)
	f.db.FailOn("SavePurchase", dbErr)

	_, err := f.svc.Checkout(ctx, "sid_a", validPhone)

	assert.ErrorIs(t, err, dbErr)
	items, _ := f.cart.GetCartItems(ctx, "sid_a")
	assert.Len(t, items, 1)
}

func TestCacheInvalidator_NotifyPurchase(t *testing.T) {
	catalog, db, cache := newTestCatalog()
	seedProducts(db)
	ctx := context.Background()
	_, err := catalog.FindAllCached(ctx)
	require.NoError(t, err)

	require.NoError(t, NewCacheInvalidator(catalog).NotifyPurchase(ctx, &models.Purchase{}))

	assert.False(t, cache.Has(AllProductsCacheKey))
}
