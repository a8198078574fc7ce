package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog/internal/domain"
	"github.com/utafrali/catalog/internal/repository"
	apperrors "github.com/utafrali/catalog/pkg/errors"
)

func TestListProducts_AttachesRelations(t *testing.T) {
	svc, d := newTestProductService()
	ctx := context.Background()

	d.repo.On("List", ctx, repository.ProductFilter{}).Return([]domain.Product{{ID: 1}, {ID: 2}}, nil)
	d.tags.On("ListByProducts", ctx, []int64{1, 2}).Return(map[int64][]domain.Tag{1: {{ID: 10, Slug: "sale"}}}, nil)
	d.images.On("ListByProducts", ctx, []int64{1, 2}).Return(map[int64][]domain.ProductImage{2: {{ID: 5, Image: "a.jpg"}}}, nil)
	d.reviews.On("ListByProducts", ctx, []int64{1, 2}).Return(map[int64][]domain.Review{1: {{ID: 7, Rating: 5}}}, nil)

	products, err := svc.ListProducts(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "sale", products[0].Tags[0].Slug)
	assert.Len(t, products[0].Reviews, 1)
	assert.Empty(t, products[0].Images)
	assert.Equal(t, "a.jpg", products[1].Images[0].Image)
}

func TestListProducts_EmptySkipsBatchLoads(t *testing.T) {
	svc, d := newTestProductService()
	ctx := context.Background()

	d.repo.On("List", ctx, repository.ProductFilter{}).Return([]domain.Product{}, nil)

	products, err := svc.ListProducts(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, products)
	d.tags.AssertNotCalled(t, "ListByProducts", mock.Anything, mock.Anything)
}

func TestGetProduct_EnrichFailure(t *testing.T) {
	svc, d := newTestProductService()
	ctx := context.Background()

	d.repo.On("GetByID", ctx, int64(1)).Return(&domain.Product{ID: 1}, nil)
	d.tags.On("ListByProducts", ctx, []int64{1}).Return(nil, errors.New("timeout"))

	_, err := svc.GetProduct(ctx, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load product tags")
}

func TestGetProduct_NotFound(t *testing.T) {
	svc, d := newTestProductService()
	ctx := context.Background()

	d.repo.On("GetByID", ctx, int64(9)).Return(nil, apperrors.ErrNotFound)

	_, err := svc.GetProduct(ctx, 9)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateProduct_Success(t *testing.T) {
	svc, d := newTestProductService()
	ctx := context.Background()

	d.repo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Product).ID = 42 }).
		Return(nil)
	d.repo.On("GetByID", ctx, int64(42)).
		Return(&domain.Product{ID: 42, SellerID: 3, SellerUsername: "alice", Title: "Lamp"}, nil)
	d.expectEnrich(42)
	d.publisher.On("PublishProductCreated", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	in := &domain.Product{ID: 999, SellerID: 1, Title: "Lamp", Price: decimal.NewFromInt(5)}
	created, err := svc.CreateProduct(ctx, 3, in)
	require.NoError(t, err)

	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, "alice", created.SellerUsername)
	assert.Equal(t, int64(3), in.SellerID)
	d.repo.AssertExpectations(t)
	d.publisher.AssertExpectations(t)
}

func TestCreateProduct_PublishFailureIsNotFatal(t *testing.T) {
	svc, d := newTestProductService()
	ctx := context.Background()

	d.repo.On("Create", ctx, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Product).ID = 1 }).
		Return(nil)
	d.repo.On("GetByID", ctx, int64(1)).Return(&domain.Product{ID: 1, SellerID: 3}, nil)
	d.expectEnrich(1)
	d.publisher.On("PublishProductCreated", ctx, mock.Anything).Return(errors.New("broker down"))

	_, err := svc.CreateProduct(ctx, 3, &domain.Product{Title: "x"})
	assert.NoError(t, err)
}

func TestCreateProduct_RequiresSeller(t *testing.T) {
	svc, _ := newTestProductService()
	_, err := svc.CreateProduct(context.Background(), 0, &domain.Product{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestUpdateProduct_BySeller(t *testing.T) {
	svc, d := newTestProductService()
	ctx := context.Background()

	existing := &domain.Product{ID: 5, SellerID: 3, Title: "Old", Price: decimal.NewFromInt(10)}
	d.repo.On("GetByID", ctx, int64(5)).Return(existing, nil)
	d.expectEnrich(5)
	d.repo.On("Update", ctx, mock.MatchedBy(func(p *domain.Product) bool {
		return p.ID == 5 && p.Title == "New" && p.SellerID == 3
	})).Return(nil)
	d.publisher.On("PublishProductUpdated", ctx, mock.Anything).Return(nil)

	_, err := svc.UpdateProduct(ctx, 3, 5, func(p *domain.Product) { p.Title = "New" })
	require.NoError(t, err)
	d.repo.AssertExpectations(t)
	d.publisher.AssertExpectations(t)
}

func TestUpdateProduct_NotSellerForbidden(t *testing.T) {
	svc, d := newTestProductService()
	ctx := context.Background()

	d.repo.On("GetByID", ctx, int64(5)).Return(&domain.Product{ID: 5, SellerID: 3}, nil)
	d.expectEnrich(5)

	_, err := svc.UpdateProduct(ctx, 4, 5, func(p *domain.Product) { p.Title = "hijack" })
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	d.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteProduct(t *testing.T) {
	svc, d := newTestProductService()
	ctx := context.Background()

	d.repo.On("GetByID", ctx, int64(5)).Return(&domain.Product{ID: 5, SellerID: 3}, nil)
	d.expectEnrich(5)
	d.repo.On("Delete", ctx, int64(5)).Return(nil)
	d.publisher.On("PublishProductDeleted", ctx, int64(5)).Return(nil)

	require.NoError(t, svc.DeleteProduct(ctx, 3, 5))
	d.repo.AssertExpectations(t)
	d.publisher.AssertExpectations(t)
}

func TestDeleteProduct_NotSellerForbidden(t *testing.T) {
	svc, d := newTestProductService()
	ctx := context.Background()

	d.repo.On("GetByID", ctx, int64(5)).Return(&domain.Product{ID: 5, SellerID: 3}, nil)
	d.expectEnrich(5)

	err := svc.DeleteProduct(ctx, 7, 5)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	d.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
