// Package redis keeps cart snapshots in a Redis hash per session.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	domcart "example.com/rocketshoes/app/internal/domain/cart"
)

const keyPrefix = "cart:"

type SnapshotStorage struct {
	client *goredis.Client
}

// Open accepts either a redis:// URL or a plain host:port address.
func Open(ctx context.Context, addr string) (*SnapshotStorage, error) {
	opts, err := goredis.ParseURL(addr)
	if err != nil {
		opts = &goredis.Options{
			Addr:         addr,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}
	}
	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return NewSnapshotStorage(client), nil
}

func NewSnapshotStorage(client *goredis.Client) *SnapshotStorage {
	return &SnapshotStorage{client: client}
}

func (s *SnapshotStorage) Close() error {
	return s.client.Close()
}

func (s *SnapshotStorage) Get(ctx context.Context, session, key string) ([]byte, error) {
	val, err := s.client.HGet(ctx, keyPrefix+session, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domcart.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis HGET: %w", err)
	}
	return val, nil
}

func (s *SnapshotStorage) Set(ctx context.Context, session, key string, value []byte) error {
	if err := s.client.HSet(ctx, keyPrefix+session, key, value).Err(); err != nil {
		return fmt.Errorf("redis HSET: %w", err)
	}
	return nil
}
