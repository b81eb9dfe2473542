package store

import "errors"

// ErrInsufficientStock is returned when a purchase would take a product's
// stock below zero
var ErrInsufficientStock = errors.New("insufficient stock")
