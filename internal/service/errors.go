package service

import "errors"

var (
	ErrMissingSession     = errors.New("session id is missing")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrBoughtOnOffer      = errors.New("product previously purchased on offer")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrInvalidProduct     = errors.New("invalid product id")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
)
