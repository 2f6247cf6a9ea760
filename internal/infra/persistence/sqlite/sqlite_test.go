package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	domcart "example.com/rocketshoes/app/internal/domain/cart"
	domproduct "example.com/rocketshoes/app/internal/domain/product"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	require.Error(t, err)
}

func TestSnapshotStorage_RoundTrip(t *testing.T) {
	s := NewSnapshotStorage(openTestDB(t))
	ctx := context.Background()

	_, err := s.Get(ctx, "sess", domcart.StorageKey)
	require.ErrorIs(t, err, domcart.ErrSnapshotNotFound)

	require.NoError(t, s.Set(ctx, "sess", domcart.StorageKey, []byte(`[{"id":1,"amount":1}]`)))
	require.NoError(t, s.Set(ctx, "sess", domcart.StorageKey, []byte(`[{"id":1,"amount":2}]`)))
	require.NoError(t, s.Set(ctx, "other", domcart.StorageKey, []byte(`[]`)))

	got, err := s.Get(ctx, "sess", domcart.StorageKey)
	require.NoError(t, err)
	require.Equal(t, `[{"id":1,"amount":2}]`, string(got))

	got, err = s.Get(ctx, "other", domcart.StorageKey)
	require.NoError(t, err)
	require.Equal(t, `[]`, string(got))
}

func TestSnapshotStorage_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.db")
	ctx := context.Background()

	db, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewSnapshotStorage(db).Set(ctx, "sess", domcart.StorageKey, []byte(`[]`)))
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	got, err := NewSnapshotStorage(db).Get(ctx, "sess", domcart.StorageKey)
	require.NoError(t, err)
	require.Equal(t, `[]`, string(got))
}

func TestProductRepository(t *testing.T) {
	repo := NewProductRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domproduct.Product{ID: 2, Title: "Tênis VR", Price: 139.9, Image: "2.jpg"}, 5))
	require.NoError(t, repo.Save(ctx, &domproduct.Product{ID: 1, Title: "Tênis de Caminhada", Price: 179.9, Image: "1.jpg"}, 3))
	require.NoError(t, repo.Save(ctx, &domproduct.Product{ID: 1, Title: "Tênis de Caminhada Leve", Price: 169.9, Image: "1.jpg"}, 1))

	p, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Tênis de Caminhada Leve", p.Title)
	require.Equal(t, 169.9, p.Price)

	st, err := repo.GetStock(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), st.Amount)

	_, err = repo.GetByID(ctx, 9)
	require.ErrorIs(t, err, domproduct.ErrProductNotFound)
	_, err = repo.GetStock(ctx, 9)
	require.ErrorIs(t, err, domproduct.ErrStockNotFound)

	products, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, int64(1), products[0].ID)
	require.Equal(t, int64(2), products[1].ID)
}

func TestProductRepository_RejectsNegativeStock(t *testing.T) {
	repo := NewProductRepository(openTestDB(t))

	err := repo.Save(context.Background(), &domproduct.Product{ID: 1, Title: "x"}, -1)

	require.Error(t, err)
}
