package cart

import "errors"

var (
	ErrOutOfStock      = errors.New("requested amount is out of stock")
	ErrNotFound        = errors.New("product not in cart")
	ErrAddFailed       = errors.New("add product failed")
	ErrUpdateFailed    = errors.New("update product amount failed")
	ErrRemoveFailed    = errors.New("remove product failed")
	ErrInvalidSnapshot = errors.New("invalid cart snapshot")

	// ErrSnapshotNotFound is returned by Storage when the slot is empty.
	ErrSnapshotNotFound = errors.New("cart snapshot not found")
)
