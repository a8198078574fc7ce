package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/catalog/internal/serializer"
	"github.com/utafrali/catalog/internal/service"
	"github.com/utafrali/catalog/pkg/health"
	"github.com/utafrali/catalog/pkg/middleware"
)

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(
	serviceName string,
	productService *service.ProductService,
	catalogService *service.CatalogService,
	wishlistService *service.WishlistService,
	mapper *serializer.Mapper,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.Identity)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	// Health check and metrics endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	catalogHandler := NewCatalogHandler(catalogService, logger)
	r.Get("/api/v1/categories", catalogHandler.ListCategories)
	r.Get("/api/v1/brands", catalogHandler.ListBrands)
	r.Get("/api/v1/tags", catalogHandler.ListTags)

	productHandler := NewProductHandler(productService, catalogService, mapper, logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", productHandler.ListProducts)
		r.Get("/{id}", productHandler.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)

			r.Post("/", productHandler.CreateProduct)
			r.Put("/{id}", productHandler.UpdateProduct)
			r.Patch("/{id}", productHandler.UpdateProduct)
			r.Delete("/{id}", productHandler.DeleteProduct)
		})
	})

	wishlistHandler := NewWishlistHandler(wishlistService, productService, mapper, logger)

	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Get("/", wishlistHandler.ListWishlist)
		r.Post("/", wishlistHandler.AddToWishlist)
		r.Delete("/{id}", wishlistHandler.RemoveFromWishlist)
	})

	return r
}
