package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	dom "example.com/rocketshoes/app/internal/domain/product"
)

var ErrCatalogReadOnly = errors.New("catalog cannot be seeded")

type Service struct {
	catalog  dom.Catalog
	validate *validator.Validate
}

func NewService(catalog dom.Catalog) *Service {
	return &Service{catalog: catalog, validate: validator.New()}
}

func (s *Service) List(ctx context.Context) ([]*dom.Product, error) {
	return s.catalog.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*dom.Product, error) {
	return s.catalog.GetByID(ctx, id)
}

func (s *Service) GetStock(ctx context.Context, id int64) (*dom.Stock, error) {
	return s.catalog.GetStock(ctx, id)
}

type seedDocument struct {
	Products []seedProduct `json:"products" validate:"dive"`
	Stock    []seedStock   `json:"stock" validate:"dive"`
}

type seedProduct struct {
	ID    int64   `json:"id" validate:"gt=0"`
	Title string  `json:"title" validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
	Image string  `json:"image"`
}

type seedStock struct {
	ID     int64 `json:"id" validate:"gt=0"`
	Amount int64 `json:"amount" validate:"gte=0"`
}

// Seed loads a {"products": [...], "stock": [...]} document into the
// catalog. Products without a stock entry are saved with zero units and stock
// entries without a product are ignored. It returns the number of products
// written.
func (s *Service) Seed(ctx context.Context, r io.Reader) (int, error) {
	writer, ok := s.catalog.(dom.Writer)
	if !ok {
		return 0, ErrCatalogReadOnly
	}

	var doc seedDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("decode seed: %w", err)
	}
	if err := s.validate.Struct(doc); err != nil {
		return 0, fmt.Errorf("validate seed: %w", err)
	}

	stock := make(map[int64]int64, len(doc.Stock))
	for _, st := range doc.Stock {
		stock[st.ID] = st.Amount
	}

	for i, p := range doc.Products {
		product := &dom.Product{ID: p.ID, Title: p.Title, Price: p.Price, Image: p.Image}
		if err := writer.Save(ctx, product, stock[p.ID]); err != nil {
			return i, fmt.Errorf("save product %d: %w", p.ID, err)
		}
	}
	return len(doc.Products), nil
}
