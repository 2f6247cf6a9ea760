package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domcart "example.com/rocketshoes/app/internal/domain/cart"
)

type SnapshotStorage struct {
	db *sql.DB
}

func NewSnapshotStorage(db *sql.DB) *SnapshotStorage {
	return &SnapshotStorage{db: db}
}

func (s *SnapshotStorage) Get(ctx context.Context, session, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
        SELECT payload FROM cart_snapshots
        WHERE session_id = ? AND storage_key = ?
    `, session, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domcart.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *SnapshotStorage) Set(ctx context.Context, session, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO cart_snapshots (session_id, storage_key, payload, updated_at)
        VALUES (?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = VALUES(updated_at)
    `, session, key, value, time.Now().UTC())
	return err
}
