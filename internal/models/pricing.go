package models

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FinalPrice applies a percentage discount: price × (1 − discount/100).
func FinalPrice(price, discountPercent decimal.Decimal) decimal.Decimal {
	return price.Sub(price.Mul(discountPercent).Div(hundred))
}

// LineTotal is the final price multiplied by quantity.
func LineTotal(price, discountPercent decimal.Decimal, quantity int) decimal.Decimal {
	return FinalPrice(price, discountPercent).Mul(decimal.NewFromInt(int64(quantity)))
}
