package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kart-engine/internal/handler"
	"kart-engine/internal/metrics"
	"kart-engine/internal/model"
	"kart-engine/internal/service"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "router-test-key"

type stubProducts struct{}

func (stubProducts) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	return []model.Product{{ID: "SKU-BOOK", Name: "Book"}}, nil
}

func (stubProducts) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id != "SKU-BOOK" {
		return nil, model.ErrProductNotFound
	}
	return &model.Product{ID: id, Name: "Book"}, nil
}

// stubCarts implements the cart routes exercised below; any other call panics.
type stubCarts struct {
	service.CartService
	saved uuid.UUID
}

func (s *stubCarts) Get(ctx context.Context, id uuid.UUID) (*model.CartResponse, error) {
	return nil, model.ErrCartNotFound
}

func (s *stubCarts) Save(ctx context.Context, id uuid.UUID) (*model.CartResponse, error) {
	s.saved = id
	return &model.CartResponse{ID: id, Currency: "USD"}, nil
}

func (s *stubCarts) RemoveAllItems(ctx context.Context, id uuid.UUID) (*model.CartResponse, error) {
	panic("boom")
}

func newTestRouter(t *testing.T) (http.Handler, *stubCarts, *prometheus.Registry) {
	t.Helper()
	logger := zerolog.Nop()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	carts := &stubCarts{}

	h := New(
		handler.NewProductHandler(stubProducts{}, logger),
		handler.NewCartHandler(carts, logger),
		metrics.Handler(reg),
		m,
		testAPIKey,
		logger,
	)
	return h, carts, reg
}

func serve(h http.Handler, method, path string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authed {
		req.Header.Set("X-API-Key", testAPIKey)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_Routes(t *testing.T) {
	h, _, _ := newTestRouter(t)
	cartID := uuid.New().String()

	tests := []struct {
		name           string
		method         string
		path           string
		authed         bool
		expectedStatus int
	}{
		{name: "Health is public", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
		{name: "Products require key", method: http.MethodGet, path: "/api/products", expectedStatus: http.StatusUnauthorized},
		{name: "List products", method: http.MethodGet, path: "/api/products", authed: true, expectedStatus: http.StatusOK},
		{name: "Get product", method: http.MethodGet, path: "/api/products/SKU-BOOK", authed: true, expectedStatus: http.StatusOK},
		{name: "Unknown product", method: http.MethodGet, path: "/api/products/SKU-NONE", authed: true, expectedStatus: http.StatusNotFound},
		{name: "Unknown cart", method: http.MethodGet, path: "/api/carts/" + cartID, authed: true, expectedStatus: http.StatusNotFound},
		{name: "Invalid cart id", method: http.MethodGet, path: "/api/carts/nope", authed: true, expectedStatus: http.StatusBadRequest},
		{name: "Wrong method", method: http.MethodPatch, path: "/api/carts/" + cartID, authed: true, expectedStatus: http.StatusMethodNotAllowed},
		{name: "Unknown route", method: http.MethodGet, path: "/api/orders", authed: true, expectedStatus: http.StatusNotFound},
		{name: "Preflight", method: http.MethodOptions, path: "/api/carts", expectedStatus: http.StatusNoContent},
		{name: "Panic is recovered", method: http.MethodDelete, path: "/api/carts/" + cartID + "/items", authed: true, expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, tt.method, tt.path, tt.authed)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRouter_SaveRoute(t *testing.T) {
	h, carts, _ := newTestRouter(t)
	id := uuid.New()

	w := serve(h, http.MethodPost, "/api/carts/"+id.String()+"/save", true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, carts.saved)
	var resp model.CartResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, id, resp.ID)
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	h, _, _ := newTestRouter(t)

	serve(h, http.MethodGet, "/api/products", true)
	w := serve(h, http.MethodGet, "/metrics", false)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `kart_http_requests_total{method="GET",route="GET /api/products",status="200"} 1`), body)
}
