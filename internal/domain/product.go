package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the catalog.
type Product struct {
	ID              int64
	SellerID        int64
	SellerUsername  string
	Title           string
	Description     string
	Price           decimal.Decimal
	Stock           int
	Category        *Category
	Brand           *Brand
	DiscountPercent int
	Featured        bool
	CreatedAt       time.Time

	Tags    []Tag
	Images  []ProductImage
	Reviews []Review
}

// FinalPrice is the price after the discount, rounded half away from zero to
// two decimal places. It is never stored.
func (p *Product) FinalPrice() decimal.Decimal {
	if p.DiscountPercent == 0 {
		return p.Price
	}
	factor := decimal.NewFromInt(int64(100 - p.DiscountPercent))
	return p.Price.Mul(factor).Div(decimal.NewFromInt(100)).Round(2)
}

// TagIDs returns the ids of the product's tags in order.
func (p *Product) TagIDs() []int64 {
	ids := make([]int64, len(p.Tags))
	for i, t := range p.Tags {
		ids[i] = t.ID
	}
	return ids
}

// ProductImage is a stored image reference. Image holds either a media path
// relative to the media root or an absolute URL on a remote media host.
type ProductImage struct {
	ID        int64
	ProductID int64
	Image     string
}

// IsRemote reports whether the reference already points at a remote host.
func (i ProductImage) IsRemote() bool {
	return IsAbsoluteURL(i.Image)
}

// IsAbsoluteURL reports whether a stored media reference is already an
// absolute http(s) URL.
func IsAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "http")
}
