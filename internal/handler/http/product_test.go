package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog/internal/domain"
	"github.com/utafrali/catalog/internal/repository"
	"github.com/utafrali/catalog/internal/serializer"
	"github.com/utafrali/catalog/internal/service"
	apperrors "github.com/utafrali/catalog/pkg/errors"
	"github.com/utafrali/catalog/pkg/health"
)

// =============================================================================
// Mock repositories
// =============================================================================

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockWishlistRepo struct {
	mock.Mock
}

func (m *mockWishlistRepo) Add(ctx context.Context, item *domain.WishlistItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockWishlistRepo) Remove(ctx context.Context, userID, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockWishlistRepo) ListByUser(ctx context.Context, userID int64) ([]domain.WishlistItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.WishlistItem), args.Error(1)
}

// taxonomy serves categories, brands and tags from fixed slices.
type taxonomy struct {
	categories []domain.Category
	brands     []domain.Brand
	tags       []domain.Tag
}

type categoryStub struct{ *taxonomy }

func (s categoryStub) List(context.Context) ([]domain.Category, error) { return s.categories, nil }

func (s categoryStub) GetBySlug(_ context.Context, slug string) (*domain.Category, error) {
	for _, c := range s.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, apperrors.NotFound("category", slug)
}

type brandStub struct{ *taxonomy }

func (s brandStub) List(context.Context) ([]domain.Brand, error) { return s.brands, nil }

func (s brandStub) GetBySlug(_ context.Context, slug string) (*domain.Brand, error) {
	for _, b := range s.brands {
		if b.Slug == slug {
			return &b, nil
		}
	}
	return nil, apperrors.NotFound("brand", slug)
}

type tagStub struct{ *taxonomy }

func (s tagStub) List(context.Context) ([]domain.Tag, error) { return s.tags, nil }

func (s tagStub) GetBySlug(_ context.Context, slug string) (*domain.Tag, error) {
	for _, t := range s.tags {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, apperrors.NotFound("tag", slug)
}

func (s tagStub) ListByProducts(context.Context, []int64) (map[int64][]domain.Tag, error) {
	return map[int64][]domain.Tag{}, nil
}

type imageStub map[int64][]domain.ProductImage

func (s imageStub) ListByProducts(context.Context, []int64) (map[int64][]domain.ProductImage, error) {
	return s, nil
}

func (s imageStub) ListAll(context.Context) ([]domain.ProductImage, error) { return nil, nil }

func (s imageStub) UpdateImage(context.Context, int64, string) error { return nil }

type reviewStub struct{}

func (reviewStub) ListByProducts(context.Context, []int64) (map[int64][]domain.Review, error) {
	return map[int64][]domain.Review{}, nil
}

type nopPublisher struct{}

func (nopPublisher) PublishProductCreated(context.Context, *domain.Product) error { return nil }
func (nopPublisher) PublishProductUpdated(context.Context, *domain.Product) error { return nil }
func (nopPublisher) PublishProductDeleted(context.Context, int64) error { return nil }

// =============================================================================
// Test helpers
// =============================================================================

type testEnv struct {
	handler  http.Handler
	products *mockProductRepo
	wishlist *mockWishlistRepo
}

func newTestEnv(images imageStub) *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tax := &taxonomy{
		categories: []domain.Category{{ID: 1, Name: "Home", Slug: "home"}},
		brands:     []domain.Brand{{ID: 2, Name: "Lumo", Slug: "lumo"}},
		tags:       []domain.Tag{{ID: 3, Name: "Sale", Slug: "sale"}, {ID: 4, Name: "Eco", Slug: "eco"}},
	}
	if images == nil {
		images = imageStub{}
	}

	env := &testEnv{products: new(mockProductRepo), wishlist: new(mockWishlistRepo)}
	productSvc := service.NewProductService(env.products, tagStub{tax}, images, reviewStub{}, nopPublisher{}, logger)
	catalogSvc := service.NewCatalogService(categoryStub{tax}, brandStub{tax}, tagStub{tax})
	wishlistSvc := service.NewWishlistService(env.wishlist, productSvc, logger)

	env.handler = NewRouter("catalog-test", productSvc, catalogSvc, wishlistSvc,
		serializer.NewMapper(""), health.NewHandler(), logger)
	return env
}

func (e *testEnv) do(method, path, user string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func lamp() *domain.Product {
	return &domain.Product{
		ID:              7,
		SellerID:        3,
		SellerUsername:  "alice",
		Title:           "Lamp",
		Price:           decimal.RequireFromString("20.00"),
		Stock:           4,
		Category:        &domain.Category{ID: 1, Slug: "home"},
		DiscountPercent: 10,
		CreatedAt:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// =============================================================================
// Tests
// =============================================================================

func TestListCategories(t *testing.T) {
	env := newTestEnv(nil)

	rec := env.do(http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []serializer.TaxonomyResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &out))
	assert.Equal(t, []serializer.TaxonomyResponse{{ID: 1, Name: "Home", Slug: "home"}}, out)
}

func TestGetProduct_Representation(t *testing.T) {
	env := newTestEnv(imageStub{7: {{ID: 9, ProductID: 7, Image: "products/a.jpg"}}})
	env.products.On("GetByID", mock.Anything, int64(7)).Return(lamp(), nil)

	rec := env.do(http.MethodGet, "/api/v1/products/7", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &out))
	assert.Equal(t, "alice", out["seller"])
	assert.Equal(t, "20.00", out["price"])
	assert.Equal(t, float64(18), out["final_price"])
	assert.Equal(t, "home", out["category"])
	assert.Nil(t, out["brand"])
	assert.Equal(t, []any{}, out["tags"])

	images := out["images"].([]any)
	require.Len(t, images, 1)
	assert.Equal(t, "http://example.com/media/products/a.jpg", images[0].(map[string]any)["image"])
}

func TestGetProduct_InvalidAndMissing(t *testing.T) {
	env := newTestEnv(nil)
	env.products.On("GetByID", mock.Anything, int64(404)).Return(nil, apperrors.NotFound("product", int64(404)))

	rec := env.do(http.MethodGet, "/api/v1/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/products/404", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProducts_Filters(t *testing.T) {
	env := newTestEnv(nil)
	home, featured := "home", true
	env.products.On("List", mock.Anything, repository.ProductFilter{CategorySlug: &home, Featured: &featured}).
		Return([]domain.Product{*lamp()}, nil)

	rec := env.do(http.MethodGet, "/api/v1/products?category=home&featured=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &out))
	assert.Len(t, out, 1)

	rec = env.do(http.MethodGet, "/api/v1/products?featured=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProduct_RequiresUser(t *testing.T) {
	env := newTestEnv(nil)

	rec := env.do(http.MethodPost, "/api/v1/products/", "", map[string]any{"title": "Lamp", "price": "1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_ResolvesSlugs(t *testing.T) {
	env := newTestEnv(nil)
	env.products.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.SellerID == 3 &&
			p.Brand != nil && p.Brand.ID == 2 &&
			assert.ObjectsAreEqual([]int64{3, 4}, p.TagIDs()) &&
			p.Price.Equal(decimal.RequireFromString("19.99"))
	})).Run(func(args mock.Arguments) { args.Get(1).(*domain.Product).ID = 7 }).Return(nil)
	env.products.On("GetByID", mock.Anything, int64(7)).Return(lamp(), nil)

	rec := env.do(http.MethodPost, "/api/v1/products/", "3", map[string]any{
		"title":       "Lamp",
		"price":       "19.99",
		"brand":       "lumo",
		"tags":        []string{"sale", "eco", "sale"},
		"final_price": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env.products.AssertExpectations(t)
}

func TestCreateProduct_FieldErrors(t *testing.T) {
	env := newTestEnv(nil)

	rec := env.do(http.MethodPost, "/api/v1/products/", "3", map[string]any{
		"price":    "1.234",
		"brand":    "acme",
		"category": "home",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	e := decodeEnvelope(t, rec).Error
	require.NotNil(t, e)
	assert.Equal(t, "VALIDATION_ERROR", e.Code)
	assert.Equal(t, map[string]string{
		"title": "is required",
		"price": "must have at most 2 decimal places",
		"brand": "object with slug=acme does not exist",
	}, e.Fields)
	env.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_MalformedBody(t *testing.T) {
	env := newTestEnv(nil)

	rec := env.do(http.MethodPost, "/api/v1/products/", "3", "[1,2]")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeEnvelope(t, rec).Error.Code)
}

func TestPatchProduct_PartialAndClearsBrand(t *testing.T) {
	env := newTestEnv(nil)
	existing := lamp()
	existing.Brand = &domain.Brand{ID: 2, Slug: "lumo"}
	env.products.On("GetByID", mock.Anything, int64(7)).Return(existing, nil)
	env.products.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Stock == 0 && p.Brand == nil && p.Title == "Lamp"
	})).Return(nil)

	rec := env.do(http.MethodPatch, "/api/v1/products/7", "3", map[string]any{"stock": 0, "brand": nil})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env.products.AssertExpectations(t)
}

func TestPutProduct_RequiresFullBody(t *testing.T) {
	env := newTestEnv(nil)

	rec := env.do(http.MethodPut, "/api/v1/products/7", "3", map[string]any{"stock": 2})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	e := decodeEnvelope(t, rec).Error
	assert.Equal(t, "is required", e.Fields["title"])
	assert.Equal(t, "is required", e.Fields["price"])
}

func TestUpdateProduct_NotSeller(t *testing.T) {
	env := newTestEnv(nil)
	env.products.On("GetByID", mock.Anything, int64(7)).Return(lamp(), nil)

	rec := env.do(http.MethodPatch, "/api/v1/products/7", "8", map[string]any{"title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	env.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(nil)
	env.products.On("GetByID", mock.Anything, int64(7)).Return(lamp(), nil)
	env.products.On("Delete", mock.Anything, int64(7)).Return(nil)

	rec := env.do(http.MethodDelete, "/api/v1/products/7", "3", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	env.products.AssertExpectations(t)
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(nil)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/metrics", "", nil).Code)
}
