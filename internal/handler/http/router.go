package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stasstaf/shopcart/pkg/health"
	"github.com/stasstaf/shopcart/pkg/middleware"

	"github.com/stasstaf/shopcart/internal/chat"
	"github.com/stasstaf/shopcart/internal/service"
)

// NewRouter creates a chi router with all service routes registered.
func NewRouter(
	itemService *service.ItemService,
	cartService *service.CartService,
	computeService *service.ComputeService,
	hub *chat.Hub,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("shopcart"))
	r.Use(middleware.Tracing("shopcart"))
	r.Use(middleware.RequestLogger(logger))

	// Health check and metrics endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	itemHandler := NewItemHandler(itemService, logger)
	cartHandler := NewCartHandler(cartService, logger)
	computeHandler := NewComputeHandler(computeService, logger)
	chatHandler := NewChatHandler(hub, logger)

	// The request/response API gets compression and a request deadline. The
	// websocket endpoint stays outside this group: a deadline would cut
	// long-lived chat connections.
	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(chimw.Timeout(30 * time.Second))

		r.Route("/item", func(r chi.Router) {
			r.Post("/", itemHandler.CreateItem)
			r.Get("/", itemHandler.ListItems)
			r.Get("/{id}", itemHandler.GetItem)
			r.Put("/{id}", itemHandler.ReplaceItem)
			r.Patch("/{id}", itemHandler.PatchItem)
			r.Delete("/{id}", itemHandler.DeleteItem)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", cartHandler.CreateCart)
			r.Get("/", cartHandler.ListCarts)
			r.Get("/{id}", cartHandler.GetCart)
			r.Post("/{cartID}/add/{itemID}", cartHandler.AddItem)
		})

		r.Get("/factorial", computeHandler.Factorial)
		r.Get("/fibonacci/{n}", computeHandler.Fibonacci)
		r.Get("/mean", computeHandler.Mean)
	})

	r.Get("/chat/{roomName}", chatHandler.Serve)

	return r
}
