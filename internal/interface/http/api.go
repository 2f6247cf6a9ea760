package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	domcart "example.com/rocketshoes/app/internal/domain/cart"
	"example.com/rocketshoes/app/internal/domain/notice"
	domproduct "example.com/rocketshoes/app/internal/domain/product"
	cartuc "example.com/rocketshoes/app/internal/usecase/cart"
	productuc "example.com/rocketshoes/app/internal/usecase/product"
)

type TokenService interface {
	GenerateToken(sessionID string) (string, error)
	ParseToken(token string) (string, error)
}

type SessionRegistry interface {
	NewID() string
	Store(ctx context.Context, sessionID string) (*cartuc.Store, error)
}

type API struct {
	sessions   SessionRegistry
	productSvc *productuc.Service
	tokenSvc   TokenService
	notifier   notice.Notifier
	log        logrus.FieldLogger
	validator  *validator.Validate
}

type Dependencies struct {
	Sessions       SessionRegistry
	ProductService *productuc.Service
	TokenService   TokenService
	Notifier       notice.Notifier
	Logger         logrus.FieldLogger
}

func NewAPI(deps Dependencies) *API {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &API{
		sessions:   deps.Sessions,
		productSvc: deps.ProductService,
		tokenSvc:   deps.TokenService,
		notifier:   deps.Notifier,
		log:        log,
		validator:  validator.New(),
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(a.log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json", "text/plain"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", a.handleCreateSession)
		r.Get("/products", a.handleListProducts)
		r.Get("/products/{id}", a.handleGetProduct)
		r.Get("/stock/{id}", a.handleGetStock)

		r.Group(func(cr chi.Router) {
			cr.Use(a.sessionMiddleware)
			cr.Get("/cart", a.handleGetCart)
			cr.Get("/cart/events", a.handleCartEvents)
			cr.Post("/cart/items", a.handleAddCartItem)
			cr.Put("/cart/items/{id}", a.handleUpdateCartItem)
			cr.Delete("/cart/items/{id}", a.handleRemoveCartItem)
		})
	})

	return r
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error    string `json:"error"`
	Severity string `json:"severity,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	idStr := chi.URLParam(r, key)
	return strconv.ParseInt(idStr, 10, 64)
}

func mapProduct(p *domproduct.Product) map[string]any {
	return map[string]any{
		"id":    p.ID,
		"title": p.Title,
		"price": p.Price,
		"image": p.Image,
	}
}

func mapCart(sessionID string, cart domcart.Cart) map[string]any {
	items := make([]map[string]any, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, map[string]any{
			"id":     item.ID,
			"title":  item.Title,
			"price":  item.Price,
			"image":  item.Image,
			"amount": item.Amount,
		})
	}
	return map[string]any{
		"session_id": sessionID,
		"items":      items,
	}
}

func handleDomainError(w http.ResponseWriter, err error) {
	respondError(w, domainErrorStatus(err), err)
}

func domainErrorStatus(err error) int {
	switch {
	case errors.Is(err, domcart.ErrOutOfStock):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domcart.ErrNotFound),
		errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, domproduct.ErrStockNotFound):
		return http.StatusNotFound
	case errors.Is(err, domproduct.ErrInventoryUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
