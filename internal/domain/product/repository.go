package product

import "context"

// Catalog is the read-only view of the inventory used by the cart and the
// product listing.
type Catalog interface {
	List(ctx context.Context) ([]*Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetStock(ctx context.Context, id int64) (*Stock, error)
}

// Writer is implemented by catalogs that can be seeded locally.
type Writer interface {
	Save(ctx context.Context, p *Product, stock int64) error
}
