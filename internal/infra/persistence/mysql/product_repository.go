package mysql

import (
	"context"
	"database/sql"
	"errors"

	domproduct "example.com/rocketshoes/app/internal/domain/product"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Save(ctx context.Context, p *domproduct.Product, stock int64) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO products (id, title, price, image, stock)
        VALUES (?, ?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE
            title = VALUES(title), price = VALUES(price), image = VALUES(image), stock = VALUES(stock)
    `, p.ID, p.Title, p.Price, p.Image, stock)
	return err
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, title, price, image
        FROM products WHERE id = ?
    `, id)

	var p domproduct.Product
	if err := row.Scan(&p.ID, &p.Title, &p.Price, &p.Image); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domproduct.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) GetStock(ctx context.Context, id int64) (*domproduct.Stock, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, stock FROM products WHERE id = ?`, id)

	var st domproduct.Stock
	if err := row.Scan(&st.ID, &st.Amount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domproduct.ErrStockNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*domproduct.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, title, price, image
        FROM products
        ORDER BY id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*domproduct.Product{}
	for rows.Next() {
		var p domproduct.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Image); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}
