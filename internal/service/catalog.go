package service

import (
	"context"
	"fmt"

	"github.com/utafrali/catalog/internal/domain"
	"github.com/utafrali/catalog/internal/repository"
)

// CatalogService serves categories, brands and tags, and resolves their
// slugs for product writes.
type CatalogService struct {
	categories repository.CategoryRepository
	brands     repository.BrandRepository
	tags       repository.TagRepository
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	categories repository.CategoryRepository,
	brands repository.BrandRepository,
	tags repository.TagRepository,
) *CatalogService {
	return &CatalogService{categories: categories, brands: brands, tags: tags}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	brands, err := s.brands.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	return brands, nil
}

func (s *CatalogService) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// CategoryBySlug returns the category or an error wrapping apperrors.ErrNotFound.
func (s *CatalogService) CategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	c, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get category by slug: %w", err)
	}
	return c, nil
}

// BrandBySlug returns the brand or an error wrapping apperrors.ErrNotFound.
func (s *CatalogService) BrandBySlug(ctx context.Context, slug string) (*domain.Brand, error) {
	b, err := s.brands.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get brand by slug: %w", err)
	}
	return b, nil
}

// TagBySlug returns the tag or an error wrapping apperrors.ErrNotFound.
func (s *CatalogService) TagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	t, err := s.tags.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get tag by slug: %w", err)
	}
	return t, nil
}
