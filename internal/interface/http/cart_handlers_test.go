package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	domcart "example.com/rocketshoes/app/internal/domain/cart"
	domproduct "example.com/rocketshoes/app/internal/domain/product"
)

func TestCartErrorMessage(t *testing.T) {
	storageErr := errors.New("disk full")
	tests := []struct {
		name string
		op   cartOp
		err  error
		want string
	}{
		{"add out of stock", opAdd, fmt.Errorf("%w: 2 > 1", domcart.ErrOutOfStock), msgOutOfStock},
		{"update out of stock", opUpdate, domcart.ErrOutOfStock, msgOutOfStock},
		{"add failed", opAdd, fmt.Errorf("%w: %w", domcart.ErrAddFailed, storageErr), msgAddFailed},
		{"remove not found", opRemove, domcart.ErrNotFound, msgRemoveFailed},
		{"remove failed", opRemove, fmt.Errorf("%w: %w", domcart.ErrRemoveFailed, storageErr), msgRemoveFailed},
		{"update not found", opUpdate, domcart.ErrNotFound, msgUpdateFailed},
		{"update failed", opUpdate, fmt.Errorf("%w: %w", domcart.ErrUpdateFailed, storageErr), msgUpdateFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, cartErrorMessage(tt.op, tt.err))
		})
	}
}

func TestDomainErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domcart.ErrOutOfStock, http.StatusUnprocessableEntity},
		{domcart.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: %w", domcart.ErrAddFailed, domproduct.ErrProductNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: %w", domcart.ErrUpdateFailed, domproduct.ErrStockNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: %w", domcart.ErrAddFailed, domproduct.ErrInventoryUnavailable), http.StatusBadGateway},
		{fmt.Errorf("%w: %w", domcart.ErrRemoveFailed, errors.New("redis down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, domainErrorStatus(tt.err), tt.err.Error())
	}
}
