package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	domcart "example.com/rocketshoes/app/internal/domain/cart"
	domproduct "example.com/rocketshoes/app/internal/domain/product"
)

const tracerName = "example.com/rocketshoes/app/internal/usecase/cart"

type Inventory interface {
	GetByID(ctx context.Context, id int64) (*domproduct.Product, error)
	GetStock(ctx context.Context, id int64) (*domproduct.Stock, error)
}

type UpdateProductAmount struct {
	ProductID int64
	Amount    int64
}

// Store owns the cart of one shopper session. Mutations are serialized and
// each one either persists and commits a new cart or leaves it untouched.
type Store struct {
	session   string
	storage   domcart.Storage
	inventory Inventory
	log       logrus.FieldLogger
	tracer    trace.Tracer

	// writeMu is held for a whole mutation, inventory round-trips included.
	writeMu sync.Mutex

	mu          sync.RWMutex
	cart        domcart.Cart
	subscribers map[int]func(domcart.Cart)
	nextSubID   int
}

type Option func(*Store)

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		s.log = log
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Store) {
		s.tracer = tracer
	}
}

// NewStore restores the session's cart from storage. A missing snapshot
// yields an empty cart.
func NewStore(ctx context.Context, session string, storage domcart.Storage, inventory Inventory, opts ...Option) (*Store, error) {
	s := &Store{
		session:     session,
		storage:     storage,
		inventory:   inventory,
		log:         logrus.StandardLogger(),
		tracer:      otel.Tracer(tracerName),
		subscribers: make(map[int]func(domcart.Cart)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("session", session)

	raw, err := storage.Get(ctx, session, domcart.StorageKey)
	switch {
	case errors.Is(err, domcart.ErrSnapshotNotFound):
		s.cart = domcart.Cart{Items: []domcart.Item{}}
	case err != nil:
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	default:
		restored, err := domcart.ParseSnapshot(raw)
		if err != nil {
			return nil, err
		}
		s.cart = restored
	}

	s.log.WithField("items", s.cart.Len()).Debug("cart restored")
	return s, nil
}

func (s *Store) Session() string {
	return s.session
}

// Cart returns a copy of the current cart.
func (s *Store) Cart() domcart.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// Subscribe registers fn to receive the cart after every committed change.
// Calls happen in commit order. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(domcart.Cart)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Subscribers reports how many subscriptions are live.
func (s *Store) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}

func (s *Store) AddProduct(ctx context.Context, productID int64) (err error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, span := s.startSpan(ctx, "AddProduct", productID)
	defer func() { endSpan(span, err) }()

	product, err := s.inventory.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("%w: %w", domcart.ErrAddFailed, err)
	}
	stock, err := s.inventory.GetStock(ctx, productID)
	if err != nil {
		return fmt.Errorf("%w: %w", domcart.ErrAddFailed, err)
	}

	next, amount := s.Cart().WithIncrement(*product)
	if amount > stock.Amount {
		return fmt.Errorf("%w: product %d wants %d, %d available", domcart.ErrOutOfStock, productID, amount, stock.Amount)
	}

	if err := s.commit(ctx, next); err != nil {
		return fmt.Errorf("%w: %w", domcart.ErrAddFailed, err)
	}
	s.log.WithFields(logrus.Fields{"product_id": productID, "amount": amount}).Info("product added to cart")
	return nil
}

func (s *Store) RemoveProduct(ctx context.Context, productID int64) (err error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, span := s.startSpan(ctx, "RemoveProduct", productID)
	defer func() { endSpan(span, err) }()

	next, removed := s.Cart().Without(productID)
	if !removed {
		return fmt.Errorf("%w: product %d", domcart.ErrNotFound, productID)
	}

	if err := s.commit(ctx, next); err != nil {
		return fmt.Errorf("%w: %w", domcart.ErrRemoveFailed, err)
	}
	s.log.WithField("product_id", productID).Info("product removed from cart")
	return nil
}

// UpdateProductAmount sets the absolute quantity of a product already in the
// cart. Products not in the cart are reported as ErrNotFound.
func (s *Store) UpdateProductAmount(ctx context.Context, req UpdateProductAmount) (err error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, span := s.startSpan(ctx, "UpdateProductAmount", req.ProductID)
	span.SetAttributes(attribute.Int64("cart.amount", req.Amount))
	defer func() { endSpan(span, err) }()

	stock, err := s.inventory.GetStock(ctx, req.ProductID)
	if err != nil {
		return fmt.Errorf("%w: %w", domcart.ErrUpdateFailed, err)
	}
	if req.Amount <= 0 || req.Amount > stock.Amount {
		return fmt.Errorf("%w: product %d wants %d, %d available", domcart.ErrOutOfStock, req.ProductID, req.Amount, stock.Amount)
	}

	next, found := s.Cart().WithAmount(req.ProductID, req.Amount)
	if !found {
		return fmt.Errorf("%w: product %d", domcart.ErrNotFound, req.ProductID)
	}

	if err := s.commit(ctx, next); err != nil {
		return fmt.Errorf("%w: %w", domcart.ErrUpdateFailed, err)
	}
	s.log.WithFields(logrus.Fields{"product_id": req.ProductID, "amount": req.Amount}).Info("cart amount updated")
	return nil
}

// commit writes next to storage and only then makes it the current cart.
// Callers hold writeMu.
func (s *Store) commit(ctx context.Context, next domcart.Cart) error {
	data, err := domcart.MarshalSnapshot(next)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, s.session, domcart.StorageKey, data); err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}

	s.mu.Lock()
	s.cart = next
	subscribers := make([]func(domcart.Cart), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(next.Clone())
	}
	return nil
}

func (s *Store) startSpan(ctx context.Context, op string, productID int64) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "cart."+op, trace.WithAttributes(
		attribute.String("cart.session", s.session),
		attribute.Int64("cart.product_id", productID),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
