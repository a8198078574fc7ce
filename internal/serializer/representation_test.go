package serializer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog/internal/domain"
)

var created = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func sampleProduct() domain.Product {
	return domain.Product{
		ID:              7,
		SellerID:        3,
		SellerUsername:  "alice",
		Title:           "Desk Lamp",
		Description:     "Warm light",
		Price:           decimal.RequireFromString("100"),
		Stock:           4,
		Category:        &domain.Category{ID: 1, Name: "Home", Slug: "home"},
		Brand:           &domain.Brand{ID: 2, Name: "Lumo", Slug: "lumo"},
		DiscountPercent: 25,
		Featured:        true,
		CreatedAt:       created,
		Tags:            []domain.Tag{{ID: 10, Slug: "sale"}, {ID: 11, Slug: "eco"}},
		Images: []domain.ProductImage{
			{ID: 1, ProductID: 7, Image: "products/lamp.jpg"},
			{ID: 2, ProductID: 7, Image: "https://res.cloudinary.com/demo/lamp2.jpg"},
		},
		Reviews: []domain.Review{{
			ID:        5,
			ProductID: 7,
			User:      domain.User{ID: 9, Username: "bob"},
			Rating:    4,
			Comment:   "nice",
			CreatedAt: created,
		}},
	}
}

func TestSerializeTaxonomy(t *testing.T) {
	assert.Equal(t, TaxonomyResponse{ID: 1, Name: "Home", Slug: "home"},
		SerializeCategory(domain.Category{ID: 1, Name: "Home", Slug: "home"}))
	assert.Equal(t, TaxonomyResponse{ID: 2, Name: "Lumo", Slug: "lumo"},
		SerializeBrand(domain.Brand{ID: 2, Name: "Lumo", Slug: "lumo"}))
	assert.Equal(t, TaxonomyResponse{ID: 3, Name: "Sale", Slug: "sale"},
		SerializeTag(domain.Tag{ID: 3, Name: "Sale", Slug: "sale"}))
}

func TestSerializeUser_AvatarFromProfile(t *testing.T) {
	m := NewMapper("")
	rc := cdnContext(t)

	noProfile := m.SerializeUser(domain.User{ID: 1, Username: "a"}, rc)
	assert.Nil(t, noProfile.Avatar)

	emptyAvatar := m.SerializeUser(domain.User{ID: 1, Username: "a", Profile: &domain.Profile{}}, rc)
	assert.Nil(t, emptyAvatar.Avatar)

	withAvatar := m.SerializeUser(domain.User{ID: 1, Username: "a", Profile: &domain.Profile{Avatar: "avatars/a.png"}}, rc)
	require.NotNil(t, withAvatar.Avatar)
	assert.Equal(t, "https://cdn.example.com/media/avatars/a.png", *withAvatar.Avatar)
}

func TestSerializeReview_KeysAlwaysPresent(t *testing.T) {
	m := NewMapper("")
	review := domain.Review{ID: 5, User: domain.User{ID: 9, Username: "bob"}, Rating: 4, CreatedAt: created}

	raw, err := json.Marshal(m.SerializeReview(review, nil))
	require.NoError(t, err)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.ElementsMatch(t, []string{"id", "user", "rating", "comment", "created_at"}, keys(out))

	var user map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out["user"], &user))
	assert.ElementsMatch(t, []string{"id", "username", "avatar"}, keys(user))
	assert.JSONEq(t, "null", string(user["avatar"]))
}

func TestSerializeReview_RemoteAvatarUnchanged(t *testing.T) {
	m := NewMapper("")
	avatar := "https://res.cloudinary.com/demo/avatars/b.png"
	review := domain.Review{User: domain.User{ID: 9, Profile: &domain.Profile{Avatar: avatar}}}

	got := m.SerializeReview(review, cdnContext(t))
	require.NotNil(t, got.User.Avatar)
	assert.Equal(t, avatar, *got.User.Avatar)
}

func TestSerializeProduct(t *testing.T) {
	m := NewMapper("")
	got := m.SerializeProduct(sampleProduct(), cdnContext(t))

	assert.Equal(t, "alice", got.Seller)
	assert.Equal(t, "100.00", got.Price)
	assert.Equal(t, json.Number("75"), got.FinalPrice)
	require.NotNil(t, got.Category)
	assert.Equal(t, "home", *got.Category)
	require.NotNil(t, got.Brand)
	assert.Equal(t, "lumo", *got.Brand)
	assert.Equal(t, []string{"sale", "eco"}, got.Tags)

	require.Len(t, got.Images, 2)
	assert.Equal(t, "https://cdn.example.com/media/products/lamp.jpg", *got.Images[0].Image)
	assert.Equal(t, "https://res.cloudinary.com/demo/lamp2.jpg", *got.Images[1].Image)

	require.Len(t, got.Reviews, 1)
	assert.Equal(t, "bob", got.Reviews[0].User.Username)
}

func TestSerializeProduct_JSONShape(t *testing.T) {
	m := NewMapper("")
	p := sampleProduct()
	p.Category, p.Brand, p.Tags, p.Images, p.Reviews = nil, nil, nil, nil, nil

	raw, err := json.Marshal(m.SerializeProduct(p, nil))
	require.NoError(t, err)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.ElementsMatch(t, []string{
		"id", "seller", "title", "description", "price", "stock", "category", "brand",
		"discount_percent", "featured", "created_at", "tags", "images", "reviews", "final_price",
	}, keys(out))
	assert.JSONEq(t, "null", string(out["category"]))
	assert.JSONEq(t, "null", string(out["brand"]))
	assert.JSONEq(t, "[]", string(out["tags"]))
	assert.JSONEq(t, "[]", string(out["images"]))
	assert.JSONEq(t, `"100.00"`, string(out["price"]))
	assert.Equal(t, "75", string(out["final_price"]))
}

func TestSerializeProduct_FinalPrice(t *testing.T) {
	m := NewMapper("")
	cases := []struct {
		price    string
		discount int
		want     string
	}{
		{"100.00", 0, "100"},
		{"100.00", 25, "75"},
		{"19.99", 15, "16.99"},
		{"10.00", 33, "6.7"},
	}
	for _, tc := range cases {
		p := domain.Product{Price: decimal.RequireFromString(tc.price), DiscountPercent: tc.discount}
		assert.Equal(t, json.Number(tc.want), m.SerializeProduct(p, nil).FinalPrice, "%s at %d%%", tc.price, tc.discount)
	}
}

func TestSerializeWishlist(t *testing.T) {
	m := NewMapper("")
	p := sampleProduct()

	got := m.SerializeWishlist(domain.WishlistItem{ID: 3, UserID: 9, ProductID: 7, Product: &p, CreatedAt: created}, nil)
	assert.Equal(t, int64(3), got.ID)
	require.NotNil(t, got.Product)
	assert.Equal(t, int64(7), got.Product.ID)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.ElementsMatch(t, []string{"id", "product", "created_at"}, keys(out))
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
