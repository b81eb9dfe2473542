package api

import (
	"errors"
	"net/http"

	"storefront/internal/service"
	"storefront/internal/store"
)

// errorResponse maps a failed action to a status and the message shown on
// the error page. fallback is used for unexpected errors.
func errorResponse(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, service.ErrMissingSession):
		return http.StatusBadRequest, "Session ID is required for this action."
	case errors.Is(err, service.ErrInvalidPhone):
		return http.StatusBadRequest, "A valid phone number is required for purchase."
	case errors.Is(err, service.ErrBoughtOnOffer):
		return http.StatusConflict, "You cannot buy this product again as it was previously purchased on offer."
	case errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest, "Your cart is empty or an error occurred."
	case errors.Is(err, service.ErrCheckoutInProgress):
		return http.StatusConflict, "Your purchase is already being processed."
	case errors.Is(err, store.ErrInsufficientStock):
		return http.StatusConflict, "A product in your cart is out of stock."
	case errors.Is(err, service.ErrInvalidProduct):
		return http.StatusBadRequest, "A valid product is required."
	case errors.Is(err, service.ErrInvalidQuantity):
		return http.StatusBadRequest, "Quantity must be at least 1."
	default:
		return http.StatusInternalServerError, fallback
	}
}
