package calc

import "errors"

var (
	ErrNegativeQuantity  = errors.New("quantity must not be negative")
	ErrInsufficientStock = errors.New("insufficient stock for adjustment")
	ErrInvalidAdjustment = errors.New("invalid adjustment type")
)
