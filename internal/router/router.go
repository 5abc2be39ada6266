package router

import (
	"net/http"

	"kart-engine/internal/handler"
	"kart-engine/internal/metrics"
	"kart-engine/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	metricsHandler http.Handler,
	m *metrics.Metrics,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})
	mux.Handle("GET /metrics", metricsHandler)

	mux.HandleFunc("GET /api/products", productHandler.GetAll)
	mux.HandleFunc("GET /api/products/{id}", productHandler.GetByID)

	mux.HandleFunc("POST /api/carts", cartHandler.Create)
	mux.HandleFunc("GET /api/carts/{id}", cartHandler.Get)
	mux.HandleFunc("POST /api/carts/{id}/items", cartHandler.AddItem)
	mux.HandleFunc("DELETE /api/carts/{id}/items", cartHandler.RemoveAllItems)
	mux.HandleFunc("PUT /api/carts/{id}/items/{itemId}", cartHandler.UpdateItem)
	mux.HandleFunc("DELETE /api/carts/{id}/items/{itemId}", cartHandler.RemoveItem)
	mux.HandleFunc("PUT /api/carts/{id}/coupon", cartHandler.SetCoupon)
	mux.HandleFunc("PUT /api/carts/{id}/billing-address", cartHandler.SetBillingAddress)
	mux.HandleFunc("PUT /api/carts/{id}/shipping-address", cartHandler.SetShippingAddress)
	mux.HandleFunc("PUT /api/carts/{id}/shipping", cartHandler.SetShipping)
	mux.HandleFunc("PUT /api/carts/{id}/payment", cartHandler.SetPayment)
	mux.HandleFunc("PUT /api/carts/{id}/customer", cartHandler.SetCustomer)
	mux.HandleFunc("GET /api/carts/{id}/validation", cartHandler.Validate)
	mux.HandleFunc("POST /api/carts/{id}/save", cartHandler.Save)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth -> Metrics
	var h http.Handler = mux
	h = middleware.Metrics(m)(h)
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
