package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	domcart "example.com/rocketshoes/app/internal/domain/cart"
	cartuc "example.com/rocketshoes/app/internal/usecase/cart"
)

var ErrInvalidSession = errors.New("invalid session id")

type entry struct {
	store    *cartuc.Store
	lastSeen time.Time
}

// Registry hands out one cart store per shopper session. Stores are built on
// first use and, when an idle timeout is set, dropped once nobody has asked
// for them in that long. A dropped cart is reloaded from its snapshot.
type Registry struct {
	storage   domcart.Storage
	inventory cartuc.Inventory
	log       logrus.FieldLogger
	idleTTL   time.Duration
	now       func() time.Time

	loads singleflight.Group

	mu     sync.Mutex
	stores map[string]*entry
}

type Option func(*Registry)

// WithIdleTimeout enables eviction of stores unused for d. Zero disables it.
func WithIdleTimeout(d time.Duration) Option {
	return func(r *Registry) {
		r.idleTTL = d
	}
}

func NewRegistry(storage domcart.Storage, inventory cartuc.Inventory, log logrus.FieldLogger, opts ...Option) *Registry {
	r := &Registry{
		storage:   storage,
		inventory: inventory,
		log:       log,
		now:       time.Now,
		stores:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewID returns a fresh session identifier.
func (r *Registry) NewID() string {
	return uuid.NewString()
}

// Store returns the session's cart store. Snapshot loads run outside the
// registry lock; concurrent loads of the same session share one result.
func (r *Registry) Store(ctx context.Context, id string) (*cartuc.Store, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidSession
	}

	if store := r.cached(id); store != nil {
		return store, nil
	}

	v, err, _ := r.loads.Do(id, func() (any, error) {
		if store := r.cached(id); store != nil {
			return store, nil
		}

		store, err := cartuc.NewStore(ctx, id, r.storage, r.inventory, cartuc.WithLogger(r.log))
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if e, ok := r.stores[id]; ok {
			e.lastSeen = r.now()
			return e.store, nil
		}
		r.stores[id] = &entry{store: store, lastSeen: r.now()}
		r.log.WithField("session", id).Debug("cart store opened")
		return store, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*cartuc.Store), nil
}

func (r *Registry) cached(id string) *cartuc.Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.stores[id]
	if !ok {
		return nil
	}
	e.lastSeen = r.now()
	return e.store
}

// EvictIdle drops stores idle for longer than the idle timeout. Stores with
// live subscribers are kept. It returns the number of stores dropped.
func (r *Registry) EvictIdle() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, e := range r.stores {
		if e.lastSeen.Before(cutoff) && e.store.Subscribers() == 0 {
			delete(r.stores, id)
			evicted++
		}
	}
	if evicted > 0 {
		r.log.WithFields(logrus.Fields{"evicted": evicted, "live": len(r.stores)}).Debug("idle cart stores evicted")
	}
	return evicted
}

// Run calls EvictIdle every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if r.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.EvictIdle()
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
