// Package postgres stores cart snapshots in PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domcart "example.com/rocketshoes/app/internal/domain/cart"
)

// payload is TEXT so the snapshot comes back byte for byte as written.
const createTable = `
CREATE TABLE IF NOT EXISTS cart_snapshots (
    session_id  TEXT        NOT NULL,
    storage_key TEXT        NOT NULL,
    payload     TEXT        NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (session_id, storage_key)
)`

// DB is the subset of *pgxpool.Pool the storage needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type SnapshotStorage struct {
	db   DB
	pool *pgxpool.Pool
}

// Open connects a pool to dsn and makes sure the snapshot table exists.
func Open(ctx context.Context, dsn string) (*SnapshotStorage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if _, err := pool.Exec(ctx, createTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create cart_snapshots: %w", err)
	}
	return &SnapshotStorage{db: pool, pool: pool}, nil
}

// NewSnapshotStorage uses db as is; the table must already exist.
func NewSnapshotStorage(db DB) *SnapshotStorage {
	return &SnapshotStorage{db: db}
}

// Close releases the pool opened by Open.
func (s *SnapshotStorage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *SnapshotStorage) Get(ctx context.Context, session, key string) ([]byte, error) {
	var payload string
	err := s.db.QueryRow(ctx, `
        SELECT payload FROM cart_snapshots
        WHERE session_id = $1 AND storage_key = $2
    `, session, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domcart.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

func (s *SnapshotStorage) Set(ctx context.Context, session, key string, value []byte) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO cart_snapshots (session_id, storage_key, payload, updated_at)
        VALUES ($1, $2, $3, now())
        ON CONFLICT (session_id, storage_key)
        DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
    `, session, key, string(value))
	return err
}
