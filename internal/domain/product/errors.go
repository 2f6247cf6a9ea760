package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrStockNotFound   = errors.New("stock not found")

	// ErrInventoryUnavailable marks transport failures and malformed answers
	// from the inventory, as opposed to products it does not know.
	ErrInventoryUnavailable = errors.New("inventory unavailable")
)
