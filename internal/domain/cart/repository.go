package cart

import "context"

// StorageKey names the slot the serialized cart lives in.
const StorageKey = "@RocketShoes:cart"

// Storage is a key-value store scoped per shopper session. Get returns
// ErrSnapshotNotFound when nothing was written under key yet.
type Storage interface {
	Get(ctx context.Context, session, key string) ([]byte, error)
	Set(ctx context.Context, session, key string, value []byte) error
}
