package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	cartuc "example.com/rocketshoes/app/internal/usecase/cart"
)

type ctxKey int

const ctxCartStoreKey ctxKey = iota

var (
	errUnauthenticated = errors.New("unauthenticated")
	errSessionLoad     = errors.New("cart could not be loaded")
)

// sessionMiddleware resolves the bearer token to the shopper's cart store.
func (a *API) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respondError(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		sessionID, err := a.tokenSvc.ParseToken(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}

		store, err := a.sessions.Store(r.Context(), sessionID)
		if err != nil {
			a.log.WithError(err).WithField("session", sessionID).Error("open cart store")
			respondError(w, http.StatusInternalServerError, errSessionLoad)
			return
		}

		ctx := context.WithValue(r.Context(), ctxCartStoreKey, store)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getCartStore(ctx context.Context) *cartuc.Store {
	if store, ok := ctx.Value(ctxCartStoreKey).(*cartuc.Store); ok {
		return store
	}
	return nil
}

func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.WithFields(logrus.Fields{
					"request_id": chimw.GetReqID(r.Context()),
					"method":     r.Method,
					"path":       r.URL.Path,
					"status":     ww.Status(),
					"bytes":      ww.BytesWritten(),
					"duration":   time.Since(start).String(),
					"remote":     r.RemoteAddr,
				}).Info("http request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
