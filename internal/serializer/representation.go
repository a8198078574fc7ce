package serializer

import (
	"encoding/json"
	"time"

	"github.com/utafrali/catalog/internal/domain"
)

// TaxonomyResponse is the representation of a category, brand or tag.
type TaxonomyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}

// ImageResponse is the representation of a product image.
type ImageResponse struct {
	ID    int64   `json:"id"`
	Image *string `json:"image"`
}

// ReviewUser is the author block embedded in a review.
type ReviewUser struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}

// ReviewResponse is the representation of a product review.
type ReviewResponse struct {
	ID        int64      `json:"id"`
	User      ReviewUser `json:"user"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"created_at"`
}

// ProductResponse is the representation of a product. Price is a fixed
// two-place decimal string; FinalPrice is a JSON number.
type ProductResponse struct {
	ID              int64            `json:"id"`
	Seller          string           `json:"seller"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Price           string           `json:"price"`
	Stock           int              `json:"stock"`
	Category        *string          `json:"category"`
	Brand           *string          `json:"brand"`
	DiscountPercent int              `json:"discount_percent"`
	Featured        bool             `json:"featured"`
	CreatedAt       time.Time        `json:"created_at"`
	Tags            []string         `json:"tags"`
	Images          []ImageResponse  `json:"images"`
	Reviews         []ReviewResponse `json:"reviews"`
	FinalPrice      json.Number      `json:"final_price"`
}

// WishlistResponse is the representation of a wishlist item.
type WishlistResponse struct {
	ID        int64            `json:"id"`
	Product   *ProductResponse `json:"product"`
	CreatedAt time.Time        `json:"created_at"`
}

func SerializeCategory(c domain.Category) TaxonomyResponse {
	return TaxonomyResponse{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func SerializeBrand(b domain.Brand) TaxonomyResponse {
	return TaxonomyResponse{ID: b.ID, Name: b.Name, Slug: b.Slug}
}

func SerializeTag(t domain.Tag) TaxonomyResponse {
	return TaxonomyResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

// SerializeUser renders a user. The avatar is null when the user has no
// profile or the profile has no avatar.
func (m *Mapper) SerializeUser(u domain.User, rc *RequestContext) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   m.imageURL(u.AvatarRef(), rc),
	}
}

func (m *Mapper) SerializeProductImage(img domain.ProductImage, rc *RequestContext) ImageResponse {
	return ImageResponse{ID: img.ID, Image: m.imageURL(img.Image, rc)}
}

// SerializeReview renders a review with its author embedded.
func (m *Mapper) SerializeReview(r domain.Review, rc *RequestContext) ReviewResponse {
	return ReviewResponse{
		ID: r.ID,
		User: ReviewUser{
			ID:       r.User.ID,
			Username: r.User.Username,
			Avatar:   m.imageURL(r.User.AvatarRef(), rc),
		},
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// SerializeProduct renders a product with its images, reviews and derived
// final price. Category and brand are rendered as slugs.
func (m *Mapper) SerializeProduct(p domain.Product, rc *RequestContext) ProductResponse {
	resp := ProductResponse{
		ID:              p.ID,
		Seller:          p.SellerUsername,
		Title:           p.Title,
		Description:     p.Description,
		Price:           p.Price.StringFixed(2),
		Stock:           p.Stock,
		DiscountPercent: p.DiscountPercent,
		Featured:        p.Featured,
		CreatedAt:       p.CreatedAt,
		Tags:            make([]string, 0, len(p.Tags)),
		Images:          make([]ImageResponse, 0, len(p.Images)),
		Reviews:         make([]ReviewResponse, 0, len(p.Reviews)),
		FinalPrice:      json.Number(p.FinalPrice().String()),
	}

	if p.Category != nil {
		resp.Category = &p.Category.Slug
	}
	if p.Brand != nil {
		resp.Brand = &p.Brand.Slug
	}
	for _, t := range p.Tags {
		resp.Tags = append(resp.Tags, t.Slug)
	}
	for _, img := range p.Images {
		resp.Images = append(resp.Images, m.SerializeProductImage(img, rc))
	}
	for _, r := range p.Reviews {
		resp.Reviews = append(resp.Reviews, m.SerializeReview(r, rc))
	}
	return resp
}

func (m *Mapper) SerializeProducts(products []domain.Product, rc *RequestContext) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, m.SerializeProduct(p, rc))
	}
	return out
}

// SerializeWishlist renders a wishlist item with the saved product nested.
func (m *Mapper) SerializeWishlist(item domain.WishlistItem, rc *RequestContext) WishlistResponse {
	resp := WishlistResponse{ID: item.ID, CreatedAt: item.CreatedAt}
	if item.Product != nil {
		p := m.SerializeProduct(*item.Product, rc)
		resp.Product = &p
	}
	return resp
}
