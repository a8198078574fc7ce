package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/catalog/internal/serializer"
	"github.com/utafrali/catalog/internal/service"
	"github.com/utafrali/catalog/pkg/httputil"
	"github.com/utafrali/catalog/pkg/middleware"
)

// WishlistHandler handles the caller's wishlist. Routes are mounted behind
// middleware.RequireUser.
type WishlistHandler struct {
	service  *service.WishlistService
	products serializer.ProductLookup
	mapper   *serializer.Mapper
	logger   *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(svc *service.WishlistService, products serializer.ProductLookup, mapper *serializer.Mapper, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service:  svc,
		products: products,
		mapper:   mapper,
		logger:   logger,
	}
}

// ListWishlist handles GET /api/v1/wishlist
func (h *WishlistHandler) ListWishlist(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	rc := serializer.RequestContextFromHTTP(r)
	out := make([]serializer.WishlistResponse, 0, len(items))
	for _, it := range items {
		out = append(out, h.mapper.SerializeWishlist(it, rc))
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
}

// AddToWishlist handles POST /api/v1/wishlist
// The body carries product_id; a nested product is ignored.
func (h *WishlistHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeObject(w, r)
	if !ok {
		return
	}

	fields, err := serializer.DeserializeWishlist(r.Context(), h.products, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	item, err := h.service.Add(r.Context(), userID, fields.Product)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	rc := serializer.RequestContextFromHTTP(r)
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: h.mapper.SerializeWishlist(*item, rc)})
}

// RemoveFromWishlist handles DELETE /api/v1/wishlist/{id}
func (h *WishlistHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	if err := h.service.Remove(r.Context(), userID, id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
