package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog/internal/domain"
	"github.com/utafrali/catalog/internal/repository"
	apperrors "github.com/utafrali/catalog/pkg/errors"
)

func TestWishlistService_ListAttachesProducts(t *testing.T) {
	products, d := newTestProductService()
	repo := new(mockWishlistRepository)
	svc := NewWishlistService(repo, products, newTestLogger())
	ctx := context.Background()

	repo.On("ListByUser", ctx, int64(3)).Return([]domain.WishlistItem{
		{ID: 1, UserID: 3, ProductID: 7},
		{ID: 2, UserID: 3, ProductID: 8},
	}, nil)
	d.repo.On("List", ctx, repository.ProductFilter{IDs: []int64{7, 8}}).
		Return([]domain.Product{{ID: 7, Title: "Lamp"}}, nil)
	d.expectEnrich(7)

	items, err := svc.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Lamp", items[0].Product.Title)
}

func TestWishlistService_Add(t *testing.T) {
	products, _ := newTestProductService()
	repo := new(mockWishlistRepository)
	svc := NewWishlistService(repo, products, newTestLogger())
	ctx := context.Background()

	repo.On("Add", ctx, mock.MatchedBy(func(it *domain.WishlistItem) bool {
		return it.UserID == 3 && it.ProductID == 7
	})).Run(func(args mock.Arguments) { args.Get(1).(*domain.WishlistItem).ID = 11 }).Return(nil)

	item, err := svc.Add(ctx, 3, &domain.Product{ID: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(11), item.ID)
	assert.Equal(t, int64(7), item.Product.ID)
}

func TestWishlistService_Remove(t *testing.T) {
	products, _ := newTestProductService()
	repo := new(mockWishlistRepository)
	svc := NewWishlistService(repo, products, newTestLogger())

	repo.On("Remove", mock.Anything, int64(3), int64(99)).Return(apperrors.ErrNotFound)
	err := svc.Remove(context.Background(), 3, 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
