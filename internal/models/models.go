package models

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultImageURL is used for products created without an image
const DefaultImageURL = "/assets/default"

// ItemsDelimiter separates product ids in Purchase.Items
const ItemsDelimiter = ","

// RegisterDateLayout is the calendar-date format of Purchase.RegisterDate
const RegisterDateLayout = "2006-01-02"

// Product represents a product in the catalog
type Product struct {
	ProductID      int64           `db:"product_id" json:"product_id"`
	Name           string          `db:"name" json:"name"`
	Price          decimal.Decimal `db:"price" json:"price"`
	StockQuantity  int             `db:"stock_quantity" json:"stock_quantity"`
	DiscountAmount decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	ImageURL       string          `db:"image_url" json:"image_url"`

	// DiscountedPrice is only projected when sorting by discount
	DiscountedPrice decimal.NullDecimal `db:"discounted_price" json:"discounted_price,omitempty"`
}

// FinalPrice returns the price after the product's discount
func (p Product) FinalPrice() decimal.Decimal {
	return FinalPrice(p.Price, p.DiscountAmount)
}

// IsDiscounted reports whether the product currently has a discount
func (p Product) IsDiscounted() bool {
	return p.DiscountAmount.IsPositive()
}

// CartItem represents a product in a session's cart
type CartItem struct {
	ProductID int64  `db:"product_id" json:"product_id"`
	SessionID string `db:"session_id" json:"session_id,omitempty"`
	Quantity  int    `db:"quantity" json:"quantity"`
}

// CartLine is a cart item joined with its product
type CartLine struct {
	ProductID      int64           `db:"product_id" json:"product_id"`
	Name           string          `db:"name" json:"name"`
	Price          decimal.Decimal `db:"price" json:"price"`
	StockQuantity  int             `db:"stock_quantity" json:"stock_quantity"`
	DiscountAmount decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	ImageURL       string          `db:"image_url" json:"image_url"`
	Quantity       int             `db:"quantity" json:"quantity"`
}

// FinalPrice returns the discounted unit price
func (l CartLine) FinalPrice() decimal.Decimal {
	return FinalPrice(l.Price, l.DiscountAmount)
}

// TotalPrice returns the discounted unit price times quantity
func (l CartLine) TotalPrice() decimal.Decimal {
	return LineTotal(l.Price, l.DiscountAmount, l.Quantity)
}

// Purchase is an append-only record of a completed order
type Purchase struct {
	ID            int64           `db:"id" json:"id"`
	UserPhoneNumb string          `db:"userPhoneNumb" json:"user_phone_numb"`
	Items         string          `db:"items" json:"items"`
	TotalPrice    decimal.Decimal `db:"totalPrice" json:"total_price"`
	RegisterDate  string          `db:"registerDate" json:"register_date"`
}

// NewPurchase creates a purchase for the given product ids
func NewPurchase(userPhoneNumb string, productIDs []int64, totalPrice decimal.Decimal) *Purchase {
	return &Purchase{
		UserPhoneNumb: userPhoneNumb,
		Items:         JoinItemIDs(productIDs),
		TotalPrice:    totalPrice,
	}
}

// ItemIDs splits Items back into product ids
func (p *Purchase) ItemIDs() ([]int64, error) {
	return SplitItemIDs(p.Items)
}

// JoinItemIDs encodes product ids for storage
func JoinItemIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ItemsDelimiter)
}

// SplitItemIDs decodes a stored items string, ignoring blank entries
func SplitItemIDs(items string) ([]int64, error) {
	ids := make([]int64, 0)
	for _, part := range strings.Split(items, ItemsDelimiter) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
