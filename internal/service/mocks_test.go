package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/catalog/internal/domain"
	"github.com/utafrali/catalog/internal/repository"
)

// --- Mock Repositories ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockTagRepository struct {
	mock.Mock
}

func (m *mockTagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Tag), args.Error(1)
}

func (m *mockTagRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tag), args.Error(1)
}

func (m *mockTagRepository) ListByProducts(ctx context.Context, ids []int64) (map[int64][]domain.Tag, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]domain.Tag), args.Error(1)
}

type mockImageRepository struct {
	mock.Mock
}

func (m *mockImageRepository) ListByProducts(ctx context.Context, ids []int64) (map[int64][]domain.ProductImage, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[int64][]domain.ProductImage), args.Error(1)
}

func (m *mockImageRepository) ListAll(ctx context.Context) ([]domain.ProductImage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ProductImage), args.Error(1)
}

func (m *mockImageRepository) UpdateImage(ctx context.Context, id int64, ref string) error {
	return m.Called(ctx, id, ref).Error(0)
}

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) ListByProducts(ctx context.Context, ids []int64) (map[int64][]domain.Review, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[int64][]domain.Review), args.Error(1)
}

type mockWishlistRepository struct {
	mock.Mock
}

func (m *mockWishlistRepository) Add(ctx context.Context, item *domain.WishlistItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockWishlistRepository) Remove(ctx context.Context, userID, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockWishlistRepository) ListByUser(ctx context.Context, userID int64) ([]domain.WishlistItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.WishlistItem), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishProductCreated(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPublisher) PublishProductUpdated(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPublisher) PublishProductDeleted(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// --- Test Helpers ---

type productDeps struct {
	repo      *mockProductRepository
	tags      *mockTagRepository
	images    *mockImageRepository
	reviews   *mockReviewRepository
	publisher *mockPublisher
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProductService() (*ProductService, *productDeps) {
	d := &productDeps{
		repo:      new(mockProductRepository),
		tags:      new(mockTagRepository),
		images:    new(mockImageRepository),
		reviews:   new(mockReviewRepository),
		publisher: new(mockPublisher),
	}
	return NewProductService(d.repo, d.tags, d.images, d.reviews, d.publisher, newTestLogger()), d
}

// expectEnrich stubs the three batch loads for ids with empty results.
func (d *productDeps) expectEnrich(ids ...int64) {
	d.tags.On("ListByProducts", mock.Anything, ids).Return(map[int64][]domain.Tag{}, nil)
	d.images.On("ListByProducts", mock.Anything, ids).Return(map[int64][]domain.ProductImage{}, nil)
	d.reviews.On("ListByProducts", mock.Anything, ids).Return(map[int64][]domain.Review{}, nil)
}
