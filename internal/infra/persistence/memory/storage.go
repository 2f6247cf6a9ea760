// Package memory keeps cart snapshots in process memory. Snapshots are lost
// on restart; it backs local development and tests.
package memory

import (
	"context"
	"sync"

	domcart "example.com/rocketshoes/app/internal/domain/cart"
)

type slotKey struct {
	session string
	key     string
}

type SnapshotStorage struct {
	mu    sync.RWMutex
	slots map[slotKey][]byte
}

func NewSnapshotStorage() *SnapshotStorage {
	return &SnapshotStorage{slots: make(map[slotKey][]byte)}
}

func (s *SnapshotStorage) Get(ctx context.Context, session, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.slots[slotKey{session, key}]
	if !ok {
		return nil, domcart.ErrSnapshotNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *SnapshotStorage) Set(ctx context.Context, session, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[slotKey{session, key}] = append([]byte(nil), value...)
	return nil
}
