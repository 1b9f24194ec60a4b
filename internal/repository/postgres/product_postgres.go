package postgres

import (
	"context"
	"database/sql"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

// ProductPostgres is a PostgreSQL implementation of repository.ProductRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ProductPostgres struct {
	db *sql.DB
}

// NewProductPostgres creates a new ProductPostgres repository.
func NewProductPostgres(db *sql.DB) *ProductPostgres {
	return &ProductPostgres{db: db}
}

var _ repository.ProductRepository = (*ProductPostgres)(nil)

const productColumns = `id, name, description, price_cents, in_stock, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*model.Product, error) {
	var p model.Product
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.PriceCents,
		&p.InStock,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new product row and returns the stored record.
func (r *ProductPostgres) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	const q = `
		INSERT INTO products (id, name, description, price_cents, in_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + productColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.Name,
		p.Description,
		p.PriceCents,
		p.InStock,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return scanProduct(row)
}

// FindByID fetches a single product by its ID.
func (r *ProductPostgres) FindByID(ctx context.Context, id string) (*model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRowContext(ctx, q, id))
}

// List returns products using LIMIT/OFFSET pagination and a total count.
// A non-empty Search filters by case-insensitive name substring; the same
// filter applies to the count so Total always matches the page's universe.
func (r *ProductPostgres) List(ctx context.Context, q repository.ProductQuery) (*repository.PageResult[model.Product], error) {
	pattern := "%" + q.Search + "%"

	const qCount = `SELECT COUNT(*) FROM products WHERE ($1 = '' OR name ILIKE $2)`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, q.Search, pattern).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = '' OR name ILIKE $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.QueryContext(ctx, qList, q.Search, pattern, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Product]{
		Items: items,
		Total: total,
	}, nil
}

// Update rewrites the mutable columns of a product and returns the stored row.
func (r *ProductPostgres) Update(ctx context.Context, p *model.Product) (*model.Product, error) {
	const q = `
		UPDATE products
		SET name = $2, description = $3, price_cents = $4, in_stock = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + productColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.Name,
		p.Description,
		p.PriceCents,
		p.InStock,
		p.UpdatedAt,
	)
	return scanProduct(row)
}

// Delete removes a product by ID. sql.ErrNoRows signals a missing row so the
// service layer can answer 404 instead of silently succeeding.
func (r *ProductPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM products WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
