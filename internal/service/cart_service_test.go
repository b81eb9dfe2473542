package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront/internal/models"
	"storefront/internal/store/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCart() (*CartService, *mocks.MemoryStore) {
	db := mocks.NewMemoryStore()
	return NewCartService(db), db
}

func TestCart_AddSameProductTwice_IsOneLine(t *testing.T) {
	cart, db := newTestCart()
	ctx := context.Background()
	id := db.AddProduct(models.Product{Name: "Mug", Price: decimal.NewFromInt(10), StockQuantity: 5})

	ok, err := cart.AddToCart(ctx, id, "sid_a", 1)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = cart.AddToCart(ctx, id, "sid_a", 1)
	require.NoError(t, err)

	items, err := cart.GetCartItems(ctx, "sid_a")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

// Covers the service under concurrent calls only; the in-memory store is
// mutex guarded. The SQL upsert is covered by TestAddToCart_ConcurrentAddsAreOneRow
// in the store package.
func TestCart_ConcurrentAddsThroughService_AreOneLine(t *testing.T) {
	cart, db := newTestCart()
	ctx := context.Background()
	id := db.AddProduct(models.Product{Name: "Mug", Price: decimal.NewFromInt(10), StockQuantity: 50})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cart.AddToCart(ctx, id, "sid_a", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := cart.GetCartItems(ctx, "sid_a")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 20, items[0].Quantity)
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	cart, db := newTestCart()
	ctx := context.Background()
	id := db.AddProduct(models.Product{Name: "Mug", Price: decimal.NewFromInt(10), StockQuantity: 5})

	_, err := cart.AddToCart(ctx, id, "sid_a", 1)
	require.NoError(t, err)

	items, err := cart.GetCartItems(ctx, "sid_b")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCart_AddToCart_Validation(t *testing.T) {
	cart, _ := newTestCart()
	ctx := context.Background()

	_, err := cart.AddToCart(ctx, 1, "", 1)
	assert.ErrorIs(t, err, ErrMissingSession)

	_, err = cart.AddToCart(ctx, 0, "sid_a", 1)
	assert.ErrorIs(t, err, ErrInvalidProduct)

	ok, err := cart.AddToCart(ctx, 1, "sid_a", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.False(t, ok)
}

func TestCart_AddToCart_StoreErrorPropagates(t *testing.T) {
	cart, db := newTestCart()
	dbErr := errors.New("connection reset")
	db.FailOn("AddToCart", dbErr)

	ok, err := cart.AddToCart(context.Background(), 1, "sid_a", 1)

	assert.ErrorIs(t, err, dbErr)
	assert.False(t, ok)
}

func TestCart_CalculateTotalPrice_AppliesDiscount(t *testing.T) {
	cart, db := newTestCart()
	ctx := context.Background()
	id := db.AddProduct(models.Product{Name: "Lamp", Price: decimal.NewFromInt(100), DiscountAmount: decimal.NewFromInt(20), StockQuantity: 9})

	_, err := cart.AddToCart(ctx, id, "sid_a", 3)
	require.NoError(t, err)

	total, err := cart.CalculateTotalPrice(ctx, "sid_a")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(240).Equal(total), "got %s", total)
}

func TestCart_CalculateTotalPrice_EmptyCartIsZero(t *testing.T) {
	cart, _ := newTestCart()

	total, err := cart.CalculateTotalPrice(context.Background(), "sid_empty")

	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestCart_CalculateTotalPrice_MixedLines(t *testing.T) {
	cart, db := newTestCart()
	ctx := context.Background()
	a := db.AddProduct(models.Product{Name: "A", Price: decimal.NewFromInt(50), StockQuantity: 9})
	b := db.AddProduct(models.Product{Name: "B", Price: decimal.RequireFromString("19.99"), DiscountAmount: decimal.NewFromInt(10), StockQuantity: 9})

	_, err := cart.AddToCart(ctx, a, "sid_a", 2)
	require.NoError(t, err)
	_, err = cart.AddToCart(ctx, b, "sid_a", 1)
	require.NoError(t, err)

	total, err := cart.CalculateTotalPrice(ctx, "sid_a")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("117.991").Equal(total), "got %s", total)
}

func TestCart_DeleteFromCart(t *testing.T) {
	cart, db := newTestCart()
	ctx := context.Background()
	a := db.AddProduct(models.Product{Name: "A", Price: decimal.NewFromInt(1), StockQuantity: 9})
	b := db.AddProduct(models.Product{Name: "B", Price: decimal.NewFromInt(1), StockQuantity: 9})
	_, _ = cart.AddToCart(ctx, a, "sid_a", 1)
	_, _ = cart.AddToCart(ctx, b, "sid_a", 1)

	require.NoError(t, cart.DeleteFromCart(ctx, a, "sid_a"))
	// deleting something that is not there is not an error
	require.NoError(t, cart.DeleteFromCart(ctx, 999, "sid_a"))

	ids, err := cart.GetProductIDs(ctx, "sid_a")
	require.NoError(t, err)
	assert.Equal(t, []int64{b}, ids)
}

func TestCart_ClearCart(t *testing.T) {
	cart, db := newTestCart()
	ctx := context.Background()
	a := db.AddProduct(models.Product{Name: "A", Price: decimal.NewFromInt(1), StockQuantity: 9})
	_, _ = cart.AddToCart(ctx, a, "sid_a", 1)
	_, _ = cart.AddToCart(ctx, a, "sid_b", 1)

	require.NoError(t, cart.ClearCart(ctx, "sid_a"))

	left, _ := cart.GetCartItems(ctx, "sid_a")
	other, _ := cart.GetCartItems(ctx, "sid_b")
	assert.Empty(t, left)
	assert.Len(t, other, 1)
}

func TestCart_GetCartLines(t *testing.T) {
	cart, db := newTestCart()
	ctx := context.Background()
	id := db.AddProduct(models.Product{Name: "Lamp", Price: decimal.NewFromInt(100), DiscountAmount: decimal.NewFromInt(20), StockQuantity: 9})
	_, _ = cart.AddToCart(ctx, id, "sid_a", 2)

	lines, err := cart.GetCartLines(ctx, "sid_a")

	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Lamp", lines[0].Name)
	assert.True(t, decimal.NewFromInt(160).Equal(lines[0].TotalPrice()))
}
