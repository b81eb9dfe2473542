package store

import "fmt"

// Sort defaults used when the requested column or direction is not allowed
const (
	DefaultSortBy = "product_id"
	DefaultOrder  = "ASC"
)

var (
	allowedSortBy = map[string]bool{"price": true, "product_id": true, "discount_amount": true}
	allowedOrder  = map[string]bool{"ASC": true, "DESC": true}
)

// ValidateSort returns an allow-listed column and direction.
// Unknown values fall back to the defaults instead of failing.
func ValidateSort(sortBy, order string) (string, string) {
	if !allowedSortBy[sortBy] {
		sortBy = DefaultSortBy
	}
	if !allowedOrder[order] {
		order = DefaultOrder
	}
	return sortBy, order
}

// BuildSortQuery builds the product listing query ordered by a validated column.
func BuildSortQuery(sortBy, order string) string {
	sortBy, order = ValidateSort(sortBy, order)

	if sortBy == "discount_amount" {
		return fmt.Sprintf(
			"SELECT %s, (price - (price * COALESCE(discount_amount, 0) / 100)) AS discounted_price FROM products ORDER BY %s %s",
			productColumns, sortBy, order)
	}
	return fmt.Sprintf("SELECT %s FROM products ORDER BY %s %s", productColumns, sortBy, order)
}
