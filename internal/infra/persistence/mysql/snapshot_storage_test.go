package mysql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	domcart "example.com/rocketshoes/app/internal/domain/cart"
	domproduct "example.com/rocketshoes/app/internal/domain/product"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestSnapshotStorage_RoundTrip(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSnapshotStorage(db)
	ctx := context.Background()
	payload := []byte(`[{"id":1,"title":"Tênis","price":179.9,"image":"","amount":2}]`)

	mock.ExpectExec("INSERT INTO cart_snapshots").
		WithArgs("sess-1", domcart.StorageKey, payload, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Set(ctx, "sess-1", domcart.StorageKey, payload))

	mock.ExpectQuery("SELECT payload FROM cart_snapshots").
		WithArgs("sess-1", domcart.StorageKey).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))
	got, err := s.Get(ctx, "sess-1", domcart.StorageKey)
	require.NoError(t, err)
	require.Equal(t, payload, got)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotStorage_GetMissing(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT payload FROM cart_snapshots").
		WithArgs("nobody", domcart.StorageKey).
		WillReturnError(sql.ErrNoRows)

	_, err := NewSnapshotStorage(db).Get(context.Background(), "nobody", domcart.StorageKey)

	require.ErrorIs(t, err, domcart.ErrSnapshotNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery("SELECT id, title, price, image").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price", "image"}))
	_, err := repo.GetByID(context.Background(), 9)
	require.ErrorIs(t, err, domproduct.ErrProductNotFound)

	mock.ExpectQuery("SELECT id, stock FROM products").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "stock"}))
	_, err = repo.GetStock(context.Background(), 9)
	require.ErrorIs(t, err, domproduct.ErrStockNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_SaveAndGetStock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)
	p := &domproduct.Product{ID: 3, Title: "Tênis Trail", Price: 139.9, Image: "https://img/3.jpg"}

	mock.ExpectExec("INSERT INTO products").
		WithArgs(p.ID, p.Title, p.Price, p.Image, int64(4)).
		WillReturnResult(sqlmock.NewResult(3, 1))
	require.NoError(t, repo.Save(context.Background(), p, 4))

	mock.ExpectQuery("SELECT id, stock FROM products").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "stock"}).AddRow(int64(3), int64(4)))
	st, err := repo.GetStock(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, &domproduct.Stock{ID: 3, Amount: 4}, st)

	require.NoError(t, mock.ExpectationsWereMet())
}
