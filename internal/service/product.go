package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/catalog/internal/domain"
	"github.com/utafrali/catalog/internal/repository"
	apperrors "github.com/utafrali/catalog/pkg/errors"
)

// EventPublisher publishes product domain events.
type EventPublisher interface {
	PublishProductCreated(ctx context.Context, product *domain.Product) error
	PublishProductUpdated(ctx context.Context, product *domain.Product) error
	PublishProductDeleted(ctx context.Context, id int64) error
}

// ProductService implements the business logic for product operations.
type ProductService struct {
	repo     repository.ProductRepository
	tags     repository.TagRepository
	images   repository.ImageRepository
	reviews  repository.ReviewRepository
	producer EventPublisher
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	repo repository.ProductRepository,
	tags repository.TagRepository,
	images repository.ImageRepository,
	reviews repository.ReviewRepository,
	producer EventPublisher,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		repo:     repo,
		tags:     tags,
		images:   images,
		reviews:  reviews,
		producer: producer,
		logger:   logger,
	}
}

// ListProducts returns products matching filter with tags, images and
// reviews attached.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if err := s.enrich(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct retrieves a product by id with tags, images and reviews
// attached.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	one := []domain.Product{*product}
	if err := s.enrich(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// ProductByID resolves a product reference for wishlist writes.
func (s *ProductService) ProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.GetProduct(ctx, id)
}

// CreateProduct stores product on behalf of sellerID and returns it as
// reloaded from storage.
func (s *ProductService) CreateProduct(ctx context.Context, sellerID int64, product *domain.Product) (*domain.Product, error) {
	if sellerID <= 0 {
		return nil, apperrors.Unauthorized("authentication required")
	}
	product.ID = 0
	product.SellerID = sellerID

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	created, err := s.GetProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishProductCreated(ctx, created); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.Int64("product_id", created.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", created.ID),
		slog.Int64("seller_id", sellerID),
	)
	return created, nil
}

// UpdateProduct applies changes to the product owned by userID. Only the
// seller may update a product.
func (s *ProductService) UpdateProduct(ctx context.Context, userID, id int64, apply func(*domain.Product)) (*domain.Product, error) {
	product, err := s.ownedProduct(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	apply(product)
	product.ID = id
	product.SellerID = userID

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	updated, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishProductUpdated(ctx, updated); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated", slog.Int64("product_id", id))
	return updated, nil
}

// DeleteProduct removes the product owned by userID.
func (s *ProductService) DeleteProduct(ctx context.Context, userID, id int64) error {
	if _, err := s.ownedProduct(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.Int64("product_id", id))
	return nil
}

func (s *ProductService) ownedProduct(ctx context.Context, userID, id int64) (*domain.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SellerID != userID {
		return nil, apperrors.Forbidden("only the seller may modify this product")
	}
	return product, nil
}

// enrich attaches tags, images and reviews to products in three batched
// queries.
func (s *ProductService) enrich(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	tags, err := s.tags.ListByProducts(ctx, ids)
	if err != nil {
		return fmt.Errorf("load product tags: %w", err)
	}
	images, err := s.images.ListByProducts(ctx, ids)
	if err != nil {
		return fmt.Errorf("load product images: %w", err)
	}
	reviews, err := s.reviews.ListByProducts(ctx, ids)
	if err != nil {
		return fmt.Errorf("load product reviews: %w", err)
	}

	for i := range products {
		id := products[i].ID
		products[i].Tags = tags[id]
		products[i].Images = images[id]
		products[i].Reviews = reviews[id]
	}
	return nil
}
