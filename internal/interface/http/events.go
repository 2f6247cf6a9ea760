package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	domcart "example.com/rocketshoes/app/internal/domain/cart"
)

// handleCartEvents streams the cart as server-sent events: one on connect and
// one per committed change. Slow readers only ever see the latest cart.
func (a *API) handleCartEvents(w http.ResponseWriter, r *http.Request) {
	store := getCartStore(r.Context())
	if store == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	rc := http.NewResponseController(w)
	updates := make(chan domcart.Cart, 1)
	unsubscribe := store.Subscribe(func(c domcart.Cart) {
		for {
			select {
			case updates <- c:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeCartEvent(w, store.Session(), store.Cart()); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		a.log.WithError(err).Warn("cart events: streaming unsupported")
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case c := <-updates:
			if err := writeCartEvent(w, store.Session(), c); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func writeCartEvent(w http.ResponseWriter, sessionID string, c domcart.Cart) error {
	data, err := json.Marshal(mapCart(sessionID, c))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: cart\ndata: %s\n\n", data)
	return err
}
