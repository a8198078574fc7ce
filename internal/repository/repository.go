package repository

import (
	"context"

	"github.com/utafrali/catalog/internal/domain"
)

// ProductFilter narrows a product listing. Nil fields do not filter.
type ProductFilter struct {
	IDs          []int64
	CategorySlug *string
	BrandSlug    *string
	TagSlug      *string
	Featured     *bool
	SellerID     *int64
}

// ProductRepository defines the interface for product persistence operations.
// Loaded products carry their category, brand and seller username; tags,
// images and reviews are loaded separately.
type ProductRepository interface {
	// Create inserts the product and its tag links, filling in ID and CreatedAt.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by id or returns apperrors.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// List returns products matching filter, newest first.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)

	// Update rewrites the product's scalar fields and replaces its tag links.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product by id.
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository reads categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
}

// BrandRepository reads brands.
type BrandRepository interface {
	List(ctx context.Context) ([]domain.Brand, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Brand, error)
}

// TagRepository reads tags and product tag links.
type TagRepository interface {
	List(ctx context.Context) ([]domain.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	ListByProducts(ctx context.Context, productIDs []int64) (map[int64][]domain.Tag, error)
}

// ImageRepository reads and rewrites product image references.
type ImageRepository interface {
	ListByProducts(ctx context.Context, productIDs []int64) (map[int64][]domain.ProductImage, error)

	// ListAll returns every product image ordered by id.
	ListAll(ctx context.Context) ([]domain.ProductImage, error)

	// UpdateImage overwrites the stored reference of one image.
	UpdateImage(ctx context.Context, id int64, ref string) error
}

// ReviewRepository reads reviews together with their author and profile.
type ReviewRepository interface {
	ListByProducts(ctx context.Context, productIDs []int64) (map[int64][]domain.Review, error)
}

// WishlistRepository persists wishlist items scoped to a user.
type WishlistRepository interface {
	// Add inserts the item, filling in ID and CreatedAt. Adding a product the
	// user already saved returns the existing item.
	Add(ctx context.Context, item *domain.WishlistItem) error

	// Remove deletes the item owned by userID or returns apperrors.ErrNotFound.
	Remove(ctx context.Context, userID, id int64) error

	// ListByUser returns the user's items, newest first.
	ListByUser(ctx context.Context, userID int64) ([]domain.WishlistItem, error)
}
