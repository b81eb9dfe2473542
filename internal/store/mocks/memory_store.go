package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"storefront/internal/models"
	"storefront/internal/store"
)

// MemoryStore is an in-memory implementation of the product, cart and
// purchase stores for testing
type MemoryStore struct {
	mu sync.RWMutex

	products      []*models.Product
	nextProductID int64
	cart          []models.CartItem
	purchases     []models.Purchase
	nextPurchase  int64

	errs map[string]error
}

// NewMemoryStore creates a new MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		errs: make(map[string]error),
	}
}

// FailOn makes the named method return err until cleared with a nil err
func (m *MemoryStore) FailOn(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.errs, method)
		return
	}
	m.errs[method] = err
}

func (m *MemoryStore) failure(method string) error {
	return m.errs[method]
}

// AddProduct seeds a product and returns its id
func (m *MemoryStore) AddProduct(p models.Product) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextProductID++
	p.ProductID = m.nextProductID
	m.products = append(m.products, &p)
	return p.ProductID
}

// Product returns a copy of a stored product
func (m *MemoryStore) Product(id int64) (models.Product, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if p := m.findProduct(id); p != nil {
		return *p, true
	}
	return models.Product{}, false
}

// Purchases returns every saved purchase
func (m *MemoryStore) Purchases() []models.Purchase {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Purchase, len(m.purchases))
	copy(out, m.purchases)
	return out
}

func (m *MemoryStore) findProduct(id int64) *models.Product {
	for _, p := range m.products {
		if p.ProductID == id {
			return p
		}
	}
	return nil
}

// GetProducts returns every product in insertion order
func (m *MemoryStore) GetProducts(ctx context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failure("GetProducts"); err != nil {
		return nil, err
	}

	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, nil
}

// SortProducts orders products by an allow-listed column
func (m *MemoryStore) SortProducts(ctx context.Context, sortBy, order string) ([]models.Product, error) {
	m.mu.RLock()
	err := m.failure("SortProducts")
	m.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	products, err := m.GetProducts(ctx)
	if err != nil {
		return nil, err
	}

	sortBy, order = store.ValidateSort(sortBy, order)
	less := func(a, b models.Product) bool {
		switch sortBy {
		case "price":
			return a.Price.LessThan(b.Price)
		case "discount_amount":
			return a.DiscountAmount.LessThan(b.DiscountAmount)
		default:
			return a.ProductID < b.ProductID
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		if order == "DESC" {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})

	if sortBy == "discount_amount" {
		for i := range products {
			products[i].DiscountedPrice.Decimal = products[i].FinalPrice()
			products[i].DiscountedPrice.Valid = true
		}
	}
	return products, nil
}

// UpdateStock decrements stock without a floor check
func (m *MemoryStore) UpdateStock(ctx context.Context, productID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("UpdateStock"); err != nil {
		return err
	}
	if p := m.findProduct(productID); p != nil {
		p.StockQuantity -= quantity
	}
	return nil
}

// GetDiscountedProductIDs returns ids of products with a positive discount
func (m *MemoryStore) GetDiscountedProductIDs(ctx context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failure("GetDiscountedProductIDs"); err != nil {
		return nil, err
	}

	ids := []int64{}
	for _, p := range m.products {
		if p.IsDiscounted() {
			ids = append(ids, p.ProductID)
		}
	}
	return ids, nil
}

// CreateProduct inserts a product
func (m *MemoryStore) CreateProduct(ctx context.Context, product *models.Product) error {
	m.mu.RLock()
	err := m.failure("CreateProduct")
	m.mu.RUnlock()
	if err != nil {
		return err
	}
	product.ProductID = m.AddProduct(*product)
	return nil
}

// AddToCart inserts or increments a cart line
func (m *MemoryStore) AddToCart(ctx context.Context, productID int64, sessionID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("AddToCart"); err != nil {
		return err
	}

	for i := range m.cart {
		if m.cart[i].ProductID == productID && m.cart[i].SessionID == sessionID {
			m.cart[i].Quantity += quantity
			return nil
		}
	}
	m.cart = append(m.cart, models.CartItem{ProductID: productID, SessionID: sessionID, Quantity: quantity})
	return nil
}

// GetCartItems returns the session's cart items
func (m *MemoryStore) GetCartItems(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failure("GetCartItems"); err != nil {
		return nil, err
	}

	items := []models.CartItem{}
	for _, item := range m.cart {
		if item.SessionID == sessionID {
			items = append(items, item)
		}
	}
	return items, nil
}

// GetCartLines joins the session's cart items with products
func (m *MemoryStore) GetCartLines(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failure("GetCartLines"); err != nil {
		return nil, err
	}

	lines := []models.CartLine{}
	for _, item := range m.cart {
		if item.SessionID != sessionID {
			continue
		}
		p := m.findProduct(item.ProductID)
		if p == nil {
			continue
		}
		lines = append(lines, models.CartLine{
			ProductID:      p.ProductID,
			Name:           p.Name,
			Price:          p.Price,
			StockQuantity:  p.StockQuantity,
			DiscountAmount: p.DiscountAmount,
			ImageURL:       p.ImageURL,
			Quantity:       item.Quantity,
		})
	}
	return lines, nil
}

// DeleteFromCart removes a cart line if present
func (m *MemoryStore) DeleteFromCart(ctx context.Context, productID int64, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("DeleteFromCart"); err != nil {
		return err
	}

	kept := m.cart[:0]
	for _, item := range m.cart {
		if item.ProductID == productID && item.SessionID == sessionID {
			continue
		}
		kept = append(kept, item)
	}
	m.cart = kept
	return nil
}

// ClearCart removes every line of the session's cart
func (m *MemoryStore) ClearCart(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("ClearCart"); err != nil {
		return err
	}

	kept := m.cart[:0]
	for _, item := range m.cart {
		if item.SessionID != sessionID {
			kept = append(kept, item)
		}
	}
	m.cart = kept
	return nil
}

// SavePurchase stores a purchase and decrements stock by one per item,
// all or nothing
func (m *MemoryStore) SavePurchase(ctx context.Context, purchase *models.Purchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("SavePurchase"); err != nil {
		return err
	}

	ids, err := purchase.ItemIDs()
	if err != nil {
		return err
	}

	pending := make(map[int64]int)
	for _, id := range ids {
		p := m.findProduct(id)
		if p == nil || p.StockQuantity-pending[id] < 1 {
			return fmt.Errorf("%w: product %d", store.ErrInsufficientStock, id)
		}
		pending[id]++
	}
	for id, n := range pending {
		m.findProduct(id).StockQuantity -= n
	}

	m.nextPurchase++
	purchase.ID = m.nextPurchase
	m.purchases = append(m.purchases, *purchase)
	return nil
}

// GetPurchasedItems returns the items strings of a user's purchases
func (m *MemoryStore) GetPurchasedItems(ctx context.Context, userPhoneNumb string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failure("GetPurchasedItems"); err != nil {
		return nil, err
	}

	items := []string{}
	for _, p := range m.purchases {
		if p.UserPhoneNumb == userPhoneNumb {
			items = append(items, p.Items)
		}
	}
	return items, nil
}

// AddPurchase seeds purchase history
func (m *MemoryStore) AddPurchase(p models.Purchase) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextPurchase++
	p.ID = m.nextPurchase
	m.purchases = append(m.purchases, p)
}
