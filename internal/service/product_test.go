package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
	repoMocks "catalogapi/internal/repository/mocks"
)

// notifierRecorder captures lifecycle notifications without a runner.
type notifierRecorder struct {
	created []model.Product
	deleted []string
}

func (n *notifierRecorder) ProductCreated(p model.Product) { n.created = append(n.created, p) }
func (n *notifierRecorder) ProductDeleted(id string)       { n.deleted = append(n.deleted, id) }

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	req := model.CreateProductRequest{
		Name:        "Mechanical Keyboard",
		Description: "Tenkeyless, brown switches",
		PriceCents:  8999,
		InStock:     true,
	}

	t.Run("happy path notifies listener", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		rec := &notifierRecorder{}
		svc := NewProductService(mRepo, rec)

		mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Product) bool {
			return p.ID != "" && p.Name == req.Name && p.PriceCents == 8999 && p.InStock
		})).Return(&model.Product{ID: "p1", Name: req.Name, PriceCents: 8999}, nil)

		p, err := svc.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, "p1", p.ID)
		assert.Len(t, rec.created, 1)
		assert.Equal(t, "p1", rec.created[0].ID)
		mRepo.AssertExpectations(t)
	})

	t.Run("repository error skips notification", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		rec := &notifierRecorder{}
		svc := NewProductService(mRepo, rec)

		mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))

		_, err := svc.Create(ctx, req)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "create product: db fail")
		assert.Empty(t, rec.created)
		mRepo.AssertExpectations(t)
	})

	t.Run("nil notifier is allowed", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		svc := NewProductService(mRepo, nil)

		mRepo.On("Create", ctx, mock.Anything).Return(&model.Product{ID: "p1"}, nil)

		_, err := svc.Create(ctx, req)
		assert.NoError(t, err)
	})
}

func TestProductService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mRepo *repoMocks.MockProductRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   "p1",
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {
				mRepo.On("FindByID", ctx, "p1").Return(&model.Product{ID: "p1"}, nil)
			},
		},
		{
			name:       "empty id",
			id:         "",
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found",
			id:   "missing",
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {
				mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "repository error",
			id:   "p1",
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {
				mRepo.On("FindByID", ctx, "p1").Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockProductRepository)
			svc := NewProductService(mRepo, nil)
			tt.setupMocks(mRepo)

			p, err := svc.Get(ctx, tt.id)

			if tt.wantErr != nil {
				assert.Error(t, err)
				if errors.Is(tt.wantErr, ErrIDRequired) || errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.id, p.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		limit      int
		offset     int
		search     string
		setupMocks func(mRepo *repoMocks.MockProductRepository)
		wantErr    bool
		checkRes   func(t *testing.T, res *ProductListResult)
	}{
		{
			name:   "happy path",
			limit:  10,
			offset: 0,
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {
				mRepo.On("List", ctx, repository.ProductQuery{
					PageQuery: repository.PageQuery{Limit: 10, Offset: 0},
				}).Return(&repository.PageResult[model.Product]{
					Items: []model.Product{{ID: "1"}, {ID: "2"}},
					Total: 2,
				}, nil)
			},
			checkRes: func(t *testing.T, res *ProductListResult) {
				assert.Len(t, res.Items, 2)
				assert.Equal(t, 2, res.Total)
			},
		},
		{
			name:   "zero limit uses default",
			limit:  0,
			offset: -3,
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {
				mRepo.On("List", ctx, repository.ProductQuery{
					PageQuery: repository.PageQuery{Limit: 10, Offset: 0},
				}).Return(&repository.PageResult[model.Product]{Items: []model.Product{}, Total: 0}, nil)
			},
		},
		{
			name:   "oversized limit is clamped",
			limit:  5000,
			offset: 0,
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {
				mRepo.On("List", ctx, repository.ProductQuery{
					PageQuery: repository.PageQuery{Limit: 100, Offset: 0},
				}).Return(&repository.PageResult[model.Product]{Items: []model.Product{}, Total: 0}, nil)
			},
		},
		{
			name:   "search is passed through",
			limit:  10,
			offset: 0,
			search: "keyboard",
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {
				mRepo.On("List", ctx, repository.ProductQuery{
					PageQuery: repository.PageQuery{Limit: 10, Offset: 0},
					Search:    "keyboard",
				}).Return(&repository.PageResult[model.Product]{Items: []model.Product{{ID: "1"}}, Total: 1}, nil)
			},
			checkRes: func(t *testing.T, res *ProductListResult) {
				assert.Equal(t, 1, res.Total)
			},
		},
		{
			name:  "repository error",
			limit: 10,
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {
				mRepo.On("List", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockProductRepository)
			svc := NewProductService(mRepo, nil)
			tt.setupMocks(mRepo)

			res, err := svc.List(ctx, tt.limit, tt.offset, tt.search)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.checkRes != nil {
					tt.checkRes(t, res)
				}
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	name := "USB Hub"
	price := int64(2599)
	stock := false

	t.Run("applies only the provided fields", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		svc := NewProductService(mRepo, nil)

		current := &model.Product{
			ID:          "p1",
			Name:        "Old Name",
			Description: "unchanged",
			PriceCents:  100,
			InStock:     true,
		}
		mRepo.On("FindByID", ctx, "p1").Return(current, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(p *model.Product) bool {
			return p.Name == name &&
				p.Description == "unchanged" &&
				p.PriceCents == price &&
				p.InStock == stock &&
				!p.UpdatedAt.IsZero()
		})).Return(&model.Product{ID: "p1", Name: name}, nil)

		p, err := svc.Update(ctx, "p1", model.UpdateProductRequest{
			Name:       &name,
			PriceCents: &price,
			InStock:    &stock,
		})

		assert.NoError(t, err)
		assert.Equal(t, name, p.Name)
		mRepo.AssertExpectations(t)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := NewProductService(new(repoMocks.MockProductRepository), nil)
		_, err := svc.Update(ctx, "", model.UpdateProductRequest{})
		assert.ErrorIs(t, err, ErrIDRequired)
	})

	t.Run("not found on read", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		svc := NewProductService(mRepo, nil)

		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, err := svc.Update(ctx, "missing", model.UpdateProductRequest{Name: &name})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("row deleted between read and write", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		svc := NewProductService(mRepo, nil)

		mRepo.On("FindByID", ctx, "p1").Return(&model.Product{ID: "p1"}, nil)
		mRepo.On("Update", ctx, mock.Anything).Return(nil, sql.ErrNoRows)

		_, err := svc.Update(ctx, "p1", model.UpdateProductRequest{Name: &name})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path notifies listener", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		rec := &notifierRecorder{}
		svc := NewProductService(mRepo, rec)

		mRepo.On("Delete", ctx, "p1").Return(nil)

		err := svc.Delete(ctx, "p1")

		assert.NoError(t, err)
		assert.Equal(t, []string{"p1"}, rec.deleted)
		mRepo.AssertExpectations(t)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := NewProductService(new(repoMocks.MockProductRepository), nil)
		assert.ErrorIs(t, svc.Delete(ctx, ""), ErrIDRequired)
	})

	t.Run("not found skips notification", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		rec := &notifierRecorder{}
		svc := NewProductService(mRepo, rec)

		mRepo.On("Delete", ctx, "missing").Return(sql.ErrNoRows)

		err := svc.Delete(ctx, "missing")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Empty(t, rec.deleted)
	})
}
