package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("resource not found")
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Notifier receives product lifecycle events. Implementations must return
// immediately; delivery happens on a background runner.
type Notifier interface {
	ProductCreated(p model.Product)
	ProductDeleted(id string)
}

// ProductListResult is the service-level DTO for paginated products.
type ProductListResult struct {
	Items []model.Product `json:"data"`
	Total int             `json:"total"`
}

// ProductService defines the use cases for managing catalog entries.
type ProductService interface {
	// Create stores a new product and notifies listeners.
	Create(ctx context.Context, req model.CreateProductRequest) (*model.Product, error)

	// Get returns a single product by its ID.
	Get(ctx context.Context, id string) (*model.Product, error)

	// List returns products using limit/offset, an optional name search,
	// and a total count. Limits are clamped to [1, 100].
	List(ctx context.Context, limit, offset int, search string) (*ProductListResult, error)

	// Update applies the fields present in req to an existing product.
	// Absent fields keep their stored values.
	Update(ctx context.Context, id string, req model.UpdateProductRequest) (*model.Product, error)

	// Delete removes a product by ID and notifies listeners.
	Delete(ctx context.Context, id string) error
}

// productService is a concrete implementation of ProductService.
type productService struct {
	repo     repository.ProductRepository
	notifier Notifier
}

// NewProductService constructs a new ProductService. notifier may be nil
// when no event delivery is configured.
func NewProductService(repo repository.ProductRepository, notifier Notifier) ProductService {
	return &productService{repo: repo, notifier: notifier}
}

func (s *productService) Create(ctx context.Context, req model.CreateProductRequest) (*model.Product, error) {
	now := time.Now().UTC()
	p := &model.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		InStock:     req.InStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	stored, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	if s.notifier != nil {
		s.notifier.ProductCreated(*stored)
	}
	return stored, nil
}

// Get returns a product by ID.
func (s *productService) Get(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns paginated products without exposing repository types.
func (s *productService) List(ctx context.Context, limit, offset int, search string) (*ProductListResult, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.ProductQuery{
		PageQuery: repository.PageQuery{Limit: limit, Offset: offset},
		Search:    search,
	})
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *productService) Update(ctx context.Context, id string, req model.UpdateProductRequest) (*model.Product, error) {
	if id == "" {
		return nil, ErrIDRequired
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	if req.PriceCents != nil {
		current.PriceCents = *req.PriceCents
	}
	if req.InStock != nil {
		current.InStock = *req.InStock
	}
	current.UpdatedAt = time.Now().UTC()

	stored, err := s.repo.Update(ctx, current)
	if err != nil {
		// The row can disappear between the read and the write.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return stored, nil
}

// Delete removes a product. Attachment rows go with it via the FK cascade.
// TODO: sweep the orphaned attachment objects out of storage after a cascade.
func (s *productService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if s.notifier != nil {
		s.notifier.ProductDeleted(id)
	}
	return nil
}
