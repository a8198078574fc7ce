package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/utafrali/catalog/internal/domain"
	apperrors "github.com/utafrali/catalog/pkg/errors"
	"github.com/utafrali/catalog/pkg/validator"
)

const (
	msgRequired = "is required"
	msgNull     = "may not be null"
	msgBlank    = "may not be blank"
	msgNumber   = "must be a valid number"
	msgInteger  = "must be an integer"
	msgBoolean  = "must be a boolean"
	msgString   = "must be a string"
	msgSlug     = "must be a slug string"
	msgSlugList = "must be a list of slug strings"
)

// Prices are stored as NUMERIC(10, 2).
const maxPriceWhole = 100_000_000

// Lookup resolves slug references. Implementations return
// apperrors.ErrNotFound when no entity carries the slug.
type Lookup interface {
	CategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	BrandBySlug(ctx context.Context, slug string) (*domain.Brand, error)
	TagBySlug(ctx context.Context, slug string) (*domain.Tag, error)
}

// ProductLookup resolves products by id, returning apperrors.ErrNotFound on
// a miss.
type ProductLookup interface {
	ProductByID(ctx context.Context, id int64) (*domain.Product, error)
}

// Ref is an optional relation in a write. Set reports whether the client
// supplied the key at all; a set Ref with a nil Value clears the relation.
type Ref[T any] struct {
	Set   bool
	Value *T
}

// ProductFields is the validated set of writable product fields. Nil
// pointers are fields the client did not send. Tags is nil when the key was
// absent and non-nil (possibly empty) when it was supplied.
type ProductFields struct {
	Title           *string          `json:"title" validate:"omitnil,max=255"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	Stock           *int             `json:"stock" validate:"omitnil,gte=0"`
	DiscountPercent *int             `json:"discount_percent" validate:"omitnil,gte=0,lte=100"`
	Featured        *bool            `json:"featured"`
	Category        Ref[domain.Category]
	Brand           Ref[domain.Brand]
	Tags            []domain.Tag
}

// Apply copies the supplied fields onto p.
func (f *ProductFields) Apply(p *domain.Product) {
	if f.Title != nil {
		p.Title = *f.Title
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	if f.Price != nil {
		p.Price = *f.Price
	}
	if f.Stock != nil {
		p.Stock = *f.Stock
	}
	if f.DiscountPercent != nil {
		p.DiscountPercent = *f.DiscountPercent
	}
	if f.Featured != nil {
		p.Featured = *f.Featured
	}
	if f.Category.Set {
		p.Category = f.Category.Value
	}
	if f.Brand.Set {
		p.Brand = f.Brand.Value
	}
	if f.Tags != nil {
		p.Tags = f.Tags
	}
}

// DeserializeProduct validates a client product write. Keys that are not
// writable (id, seller, final_price, images, reviews, created_at and unknown
// keys) are ignored. On create (partial=false) title and price are required.
//
// Every failing field is reported in the returned validator.FieldErrors and
// no fields are returned in that case. Errors other than not-found from
// lookup are returned as they are.
func DeserializeProduct(ctx context.Context, lookup Lookup, input map[string]json.RawMessage, partial bool) (*ProductFields, error) {
	var (
		f    ProductFields
		errs = validator.FieldErrors{}
	)

	if raw, ok := input["title"]; ok {
		if s, msg := decodeString(raw); msg != "" {
			errs.Add("title", msg)
		} else if strings.TrimSpace(s) == "" {
			errs.Add("title", msgBlank)
		} else {
			f.Title = &s
		}
	} else if !partial {
		errs.Add("title", msgRequired)
	}

	if raw, ok := input["description"]; ok {
		if s, msg := decodeString(raw); msg != "" {
			errs.Add("description", msg)
		} else {
			f.Description = &s
		}
	}

	if raw, ok := input["price"]; ok {
		if d, msg := decodePrice(raw); msg != "" {
			errs.Add("price", msg)
		} else {
			f.Price = &d
		}
	} else if !partial {
		errs.Add("price", msgRequired)
	}

	if raw, ok := input["stock"]; ok {
		if n, msg := decodeInt(raw); msg != "" {
			errs.Add("stock", msg)
		} else {
			f.Stock = &n
		}
	}

	if raw, ok := input["discount_percent"]; ok {
		if n, msg := decodeInt(raw); msg != "" {
			errs.Add("discount_percent", msg)
		} else {
			f.DiscountPercent = &n
		}
	}

	if raw, ok := input["featured"]; ok {
		var b bool
		if isNull(raw) {
			errs.Add("featured", msgNull)
		} else if err := json.Unmarshal(raw, &b); err != nil {
			errs.Add("featured", msgBoolean)
		} else {
			f.Featured = &b
		}
	}

	if err := validator.Validate(&f); err != nil {
		if !errs.Merge(err) {
			return nil, err
		}
	}

	if raw, ok := input["category"]; ok {
		ref, err := resolveRef(ctx, raw, "category", errs, lookup.CategoryBySlug)
		if err != nil {
			return nil, err
		}
		f.Category = ref
	}

	if raw, ok := input["brand"]; ok {
		ref, err := resolveRef(ctx, raw, "brand", errs, lookup.BrandBySlug)
		if err != nil {
			return nil, err
		}
		f.Brand = ref
	}

	if raw, ok := input["tags"]; ok {
		tags, err := resolveTags(ctx, raw, errs, lookup)
		if err != nil {
			return nil, err
		}
		f.Tags = tags
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &f, nil
}

// WishlistFields is a validated wishlist write.
type WishlistFields struct {
	ProductID int64
	Product   *domain.Product
}

// DeserializeWishlist validates a wishlist write. Only product_id is read;
// a nested product or any other key is ignored.
func DeserializeWishlist(ctx context.Context, lookup ProductLookup, input map[string]json.RawMessage) (*WishlistFields, error) {
	errs := validator.FieldErrors{}

	raw, ok := input["product_id"]
	if !ok {
		errs.Add("product_id", msgRequired)
		return nil, errs
	}
	id, msg := decodeInt64(raw)
	if msg != "" {
		errs.Add("product_id", msg)
		return nil, errs
	}

	p, err := lookup.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			errs.Add("product_id", fmt.Sprintf("object with id=%d does not exist", id))
			return nil, errs
		}
		return nil, err
	}
	return &WishlistFields{ProductID: id, Product: p}, nil
}

func resolveRef[T any](
	ctx context.Context,
	raw json.RawMessage,
	field string,
	errs validator.FieldErrors,
	find func(context.Context, string) (*T, error),
) (Ref[T], error) {
	if isNull(raw) {
		return Ref[T]{Set: true}, nil
	}
	var slug string
	if err := json.Unmarshal(raw, &slug); err != nil {
		errs.Add(field, msgSlug)
		return Ref[T]{}, nil
	}

	v, err := find(ctx, slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			errs.Add(field, notExist(slug))
			return Ref[T]{}, nil
		}
		return Ref[T]{}, fmt.Errorf("resolve %s %q: %w", field, slug, err)
	}
	return Ref[T]{Set: true, Value: v}, nil
}

// resolveTags resolves a list of tag slugs. Repeated slugs are collapsed,
// keeping the first occurrence.
func resolveTags(ctx context.Context, raw json.RawMessage, errs validator.FieldErrors, lookup Lookup) ([]domain.Tag, error) {
	if isNull(raw) {
		errs.Add("tags", msgNull)
		return nil, nil
	}
	var slugs []string
	if err := json.Unmarshal(raw, &slugs); err != nil {
		errs.Add("tags", msgSlugList)
		return nil, nil
	}

	seen := make(map[string]struct{}, len(slugs))
	tags := make([]domain.Tag, 0, len(slugs))
	for _, slug := range slugs {
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}

		t, err := lookup.TagBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				errs.Add("tags", notExist(slug))
				return nil, nil
			}
			return nil, fmt.Errorf("resolve tag %q: %w", slug, err)
		}
		tags = append(tags, *t)
	}
	return tags, nil
}

func notExist(slug string) string {
	return fmt.Sprintf("object with slug=%s does not exist", slug)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeString(raw json.RawMessage) (string, string) {
	if isNull(raw) {
		return "", msgNull
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", msgString
	}
	return s, ""
}

func decodeInt(raw json.RawMessage) (int, string) {
	if isNull(raw) {
		return 0, msgNull
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, msgInteger
	}
	return n, ""
}

func decodeInt64(raw json.RawMessage) (int64, string) {
	if isNull(raw) {
		return 0, msgNull
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, msgInteger
	}
	return n, ""
}

// decodePrice accepts a JSON number or a numeric string with at most two
// decimal places.
func decodePrice(raw json.RawMessage) (decimal.Decimal, string) {
	if isNull(raw) {
		return decimal.Zero, msgNull
	}

	text := string(bytes.TrimSpace(raw))
	if strings.HasPrefix(text, `"`) {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, msgNumber
		}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, msgNumber
	}

	switch {
	case d.IsNegative():
		return decimal.Zero, "must be greater than or equal to 0"
	case !d.Equal(d.Round(2)):
		return decimal.Zero, "must have at most 2 decimal places"
	case d.GreaterThanOrEqual(decimal.NewFromInt(maxPriceWhole)):
		return decimal.Zero, "must have at most 8 digits before the decimal point"
	}
	return d, ""
}
