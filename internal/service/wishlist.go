package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/catalog/internal/domain"
	"github.com/utafrali/catalog/internal/repository"
	apperrors "github.com/utafrali/catalog/pkg/errors"
)

// WishlistService manages the products a user has saved.
type WishlistService struct {
	repo     repository.WishlistRepository
	products *ProductService
	logger   *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(repo repository.WishlistRepository, products *ProductService, logger *slog.Logger) *WishlistService {
	return &WishlistService{repo: repo, products: products, logger: logger}
}

// List returns the user's wishlist with each product attached. Items whose
// product no longer exists are left out.
func (s *WishlistService) List(ctx context.Context, userID int64) ([]domain.WishlistItem, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	products, err := s.products.ListProducts(ctx, repository.ProductFilter{IDs: ids})
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	out := items[:0]
	for _, it := range items {
		if p, ok := byID[it.ProductID]; ok {
			it.Product = p
			out = append(out, it)
		}
	}
	return out, nil
}

// Add saves product to the user's wishlist. Saving a product twice returns
// the existing item.
func (s *WishlistService) Add(ctx context.Context, userID int64, product *domain.Product) (*domain.WishlistItem, error) {
	if userID <= 0 {
		return nil, apperrors.Unauthorized("authentication required")
	}
	item := &domain.WishlistItem{UserID: userID, ProductID: product.ID, Product: product}
	if err := s.repo.Add(ctx, item); err != nil {
		return nil, fmt.Errorf("add wishlist item: %w", err)
	}

	s.logger.InfoContext(ctx, "wishlist item saved",
		slog.Int64("user_id", userID),
		slog.Int64("product_id", product.ID),
	)
	return item, nil
}

// Remove deletes one of the user's wishlist items.
func (s *WishlistService) Remove(ctx context.Context, userID, id int64) error {
	if err := s.repo.Remove(ctx, userID, id); err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	return nil
}
