package http

import (
	"context"
	"errors"
	"net/http"

	domcart "example.com/rocketshoes/app/internal/domain/cart"
	"example.com/rocketshoes/app/internal/domain/notice"
	cartuc "example.com/rocketshoes/app/internal/usecase/cart"
)

const (
	msgOutOfStock   = "Quantidade solicitada fora de estoque"
	msgAddFailed    = "Erro na adição do produto"
	msgRemoveFailed = "Erro na remoção do produto"
	msgUpdateFailed = "Erro na alteração de quantidade do produto"
)

type cartOp int

const (
	opAdd cartOp = iota
	opRemove
	opUpdate
)

type addCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

type updateCartItemRequest struct {
	Amount *int64 `json:"amount" validate:"required"`
}

// cartErrorMessage picks the shopper-facing text for a failed cart operation.
func cartErrorMessage(op cartOp, err error) string {
	if errors.Is(err, domcart.ErrOutOfStock) {
		return msgOutOfStock
	}
	switch op {
	case opAdd:
		return msgAddFailed
	case opRemove:
		return msgRemoveFailed
	default:
		return msgUpdateFailed
	}
}

func (a *API) respondCartError(ctx context.Context, w http.ResponseWriter, op cartOp, err error) {
	msg := cartErrorMessage(op, err)
	a.log.WithError(err).WithField("notification", msg).Warn("cart operation failed")
	if a.notifier != nil {
		a.notifier.Notify(ctx, msg, notice.SeverityError)
	}
	writeJSON(w, domainErrorStatus(err), errorResponse{Error: msg, Severity: string(notice.SeverityError)})
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	store := getCartStore(r.Context())
	if store == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(store.Session(), store.Cart()))
}

func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	store := getCartStore(r.Context())
	if store == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req addCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	if err := store.AddProduct(r.Context(), req.ProductID); err != nil {
		a.respondCartError(r.Context(), w, opAdd, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(store.Session(), store.Cart()))
}

func (a *API) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	store := getCartStore(r.Context())
	if store == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req updateCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	err = store.UpdateProductAmount(r.Context(), cartuc.UpdateProductAmount{ProductID: id, Amount: *req.Amount})
	if err != nil {
		a.respondCartError(r.Context(), w, opUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(store.Session(), store.Cart()))
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	store := getCartStore(r.Context())
	if store == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	if err := store.RemoveProduct(r.Context(), id); err != nil {
		a.respondCartError(r.Context(), w, opRemove, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(store.Session(), store.Cart()))
}
