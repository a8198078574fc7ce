package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/catalog/internal/serializer"
	"github.com/utafrali/catalog/internal/service"
	"github.com/utafrali/catalog/pkg/httputil"
)

// CatalogHandler serves the category, brand and tag listings.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	out := make([]serializer.TaxonomyResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, serializer.SerializeCategory(c))
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
}

// ListBrands handles GET /api/v1/brands
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.service.ListBrands(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	out := make([]serializer.TaxonomyResponse, 0, len(brands))
	for _, b := range brands {
		out = append(out, serializer.SerializeBrand(b))
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
}

// ListTags handles GET /api/v1/tags
func (h *CatalogHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	out := make([]serializer.TaxonomyResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, serializer.SerializeTag(t))
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
}
