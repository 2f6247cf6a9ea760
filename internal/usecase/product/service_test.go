package product

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	dom "example.com/rocketshoes/app/internal/domain/product"
)

type mockCatalog struct {
	products map[int64]*dom.Product
	stock    map[int64]int64
	listErr  error
	saveErr  error
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		products: make(map[int64]*dom.Product),
		stock:    make(map[int64]int64),
	}
}

func (m *mockCatalog) List(ctx context.Context) ([]*dom.Product, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*dom.Product
	for id := int64(1); id <= int64(len(m.products)); id++ {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockCatalog) GetByID(ctx context.Context, id int64) (*dom.Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, dom.ErrProductNotFound
}

func (m *mockCatalog) GetStock(ctx context.Context, id int64) (*dom.Stock, error) {
	if amount, ok := m.stock[id]; ok {
		return &dom.Stock{ID: id, Amount: amount}, nil
	}
	return nil, dom.ErrStockNotFound
}

func (m *mockCatalog) Save(ctx context.Context, p *dom.Product, stock int64) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.products[p.ID] = p
	m.stock[p.ID] = stock
	return nil
}

type readOnlyCatalog struct{ dom.Catalog }

const seedJSON = `{
  "products": [
    {"id": 1, "title": "Tênis de Caminhada Leve Confortável", "price": 179.9, "image": "https://img/1.jpg"},
    {"id": 2, "title": "Tênis VR Caminhada Confortável Detalhes Couro Masculino", "price": 139.9, "image": "https://img/2.jpg"},
    {"id": 3, "title": "Tênis Adidas Duramo Lite 2.0", "price": 219.9, "image": "https://img/3.jpg"}
  ],
  "stock": [
    {"id": 1, "amount": 3},
    {"id": 2, "amount": 5},
    {"id": 9, "amount": 1}
  ]
}`

func TestSeed_LoadsProductsAndStock(t *testing.T) {
	catalog := newMockCatalog()
	svc := NewService(catalog)

	n, err := svc.Seed(context.Background(), strings.NewReader(seedJSON))

	require.NoError(t, err)
	require.Equal(t, 3, n)

	p, err := svc.GetByID(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, 139.9, p.Price)

	st, err := svc.GetStock(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(3), st.Amount)

	st, err = svc.GetStock(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, int64(0), st.Amount, "product without stock entry gets zero units")

	_, err = svc.GetStock(context.Background(), 9)
	require.ErrorIs(t, err, dom.ErrStockNotFound)
}

func TestSeed_RejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "malformed", doc: `{"products": [`},
		{name: "missing title", doc: `{"products": [{"id": 1, "price": 10}]}`},
		{name: "negative stock", doc: `{"products": [], "stock": [{"id": 1, "amount": -1}]}`},
		{name: "zero id", doc: `{"products": [{"id": 0, "title": "x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := newMockCatalog()
			svc := NewService(catalog)

			_, err := svc.Seed(context.Background(), strings.NewReader(tt.doc))

			require.Error(t, err)
			require.Empty(t, catalog.products)
		})
	}
}

func TestSeed_ReadOnlyCatalog(t *testing.T) {
	svc := NewService(readOnlyCatalog{newMockCatalog()})

	_, err := svc.Seed(context.Background(), strings.NewReader(seedJSON))

	require.ErrorIs(t, err, ErrCatalogReadOnly)
}

func TestSeed_SaveFailureReportsProgress(t *testing.T) {
	catalog := newMockCatalog()
	catalog.saveErr = errors.New("constraint failed")
	svc := NewService(catalog)

	n, err := svc.Seed(context.Background(), strings.NewReader(seedJSON))

	require.Error(t, err)
	require.Equal(t, 0, n)
}

func TestList_DelegatesToCatalog(t *testing.T) {
	catalog := newMockCatalog()
	catalog.products[1] = &dom.Product{ID: 1, Title: "a"}
	catalog.products[2] = &dom.Product{ID: 2, Title: "b"}
	svc := NewService(catalog)

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	catalog.listErr = errors.New("down")
	_, err = svc.List(context.Background())
	require.Error(t, err)
}
