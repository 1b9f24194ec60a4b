package repository

import (
	"context"

	"catalogapi/internal/model"
)

// ProductRepository defines data access for products using SQL queries only.
// No business logic here — strictly persistence operations.
type ProductRepository interface {
	// Create inserts a new product record and returns the stored row
	// (may include values set by the DB).
	Create(ctx context.Context, p *model.Product) (*model.Product, error)

	// FindByID returns a product by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Product, error)

	// List returns a paginated page of products and the total row count
	// for the given query.
	List(ctx context.Context, q ProductQuery) (*PageResult[model.Product], error)

	// Update rewrites all mutable columns of an existing product and
	// returns the stored row. sql.ErrNoRows if the product is gone.
	Update(ctx context.Context, p *model.Product) (*model.Product, error)

	// Delete removes a product by ID. sql.ErrNoRows if no row was deleted.
	Delete(ctx context.Context, id string) error
}

// ProductQuery extends pagination with an optional case-insensitive
// name search.
type ProductQuery struct {
	PageQuery
	Search string
}
