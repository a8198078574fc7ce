package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/catalog/internal/domain"
	"github.com/utafrali/catalog/internal/repository"
	"github.com/utafrali/catalog/internal/serializer"
	"github.com/utafrali/catalog/internal/service"
	"github.com/utafrali/catalog/pkg/httputil"
	"github.com/utafrali/catalog/pkg/middleware"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	lookup  serializer.Lookup
	mapper  *serializer.Mapper
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler. lookup resolves the
// category, brand and tag slugs of product writes.
func NewProductHandler(svc *service.ProductService, lookup serializer.Lookup, mapper *serializer.Mapper, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		lookup:  lookup,
		mapper:  mapper,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products
// Optional filters: category, brand and tag slugs, featured=true|false.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var filter repository.ProductFilter
	q := r.URL.Query()

	if v := q.Get("category"); v != "" {
		filter.CategorySlug = &v
	}
	if v := q.Get("brand"); v != "" {
		filter.BrandSlug = &v
	}
	if v := q.Get("tag"); v != "" {
		filter.TagSlug = &v
	}
	if v := q.Get("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "featured must be true or false"},
			})
			return
		}
		filter.Featured = &featured
	}

	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	rc := serializer.RequestContextFromHTTP(r)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.mapper.SerializeProducts(products, rc)})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.writeProduct(w, r, http.StatusOK, product)
}

// CreateProduct handles POST /api/v1/products
// The caller becomes the seller.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeObject(w, r)
	if !ok {
		return
	}

	fields, err := serializer.DeserializeProduct(r.Context(), h.lookup, input, false)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	product := &domain.Product{}
	fields.Apply(product)

	sellerID, _ := middleware.UserIDFromContext(r.Context())
	created, err := h.service.CreateProduct(r.Context(), sellerID, product)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.writeProduct(w, r, http.StatusCreated, created)
}

// UpdateProduct handles PUT and PATCH /api/v1/products/{id}
// PUT requires title and price; PATCH accepts any subset of fields.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	input, ok := decodeObject(w, r)
	if !ok {
		return
	}

	partial := r.Method == http.MethodPatch
	fields, err := serializer.DeserializeProduct(r.Context(), h.lookup, input, partial)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	updated, err := h.service.UpdateProduct(r.Context(), userID, id, fields.Apply)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.writeProduct(w, r, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	if err := h.service.DeleteProduct(r.Context(), userID, id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) writeProduct(w http.ResponseWriter, r *http.Request, status int, p *domain.Product) {
	rc := serializer.RequestContextFromHTTP(r)
	httputil.WriteJSON(w, status, httputil.Response{Data: h.mapper.SerializeProduct(*p, rc)})
}
