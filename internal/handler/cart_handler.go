package handler

import (
	"net/http"

	"kart-engine/internal/cart"
	"kart-engine/internal/model"
	"kart-engine/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Create handles POST /api/carts. The body is optional.
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCartRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	resp, err := h.service.Create(r.Context(), req.User)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /api/carts/{id}.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withCart(w, r, func(id uuid.UUID) (any, error) {
		return h.service.Get(r.Context(), id)
	})
}

// AddItem handles POST /api/carts/{id}/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req model.AddItemRequest
	h.withBody(w, r, &req, func(id uuid.UUID) (any, error) {
		return h.service.AddItem(r.Context(), id, req)
	})
}

// UpdateItem handles PUT /api/carts/{id}/items/{itemId}.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := h.itemID(w, r)
	if !ok {
		return
	}
	var req model.UpdateQuantityRequest
	h.withBody(w, r, &req, func(id uuid.UUID) (any, error) {
		return h.service.UpdateQuantity(r.Context(), id, itemID, req.Units)
	})
}

// RemoveItem handles DELETE /api/carts/{id}/items/{itemId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := h.itemID(w, r)
	if !ok {
		return
	}
	h.withCart(w, r, func(id uuid.UUID) (any, error) {
		return h.service.RemoveItem(r.Context(), id, itemID)
	})
}

// RemoveAllItems handles DELETE /api/carts/{id}/items.
func (h *CartHandler) RemoveAllItems(w http.ResponseWriter, r *http.Request) {
	h.withCart(w, r, func(id uuid.UUID) (any, error) {
		return h.service.RemoveAllItems(r.Context(), id)
	})
}

// SetCoupon handles PUT /api/carts/{id}/coupon.
func (h *CartHandler) SetCoupon(w http.ResponseWriter, r *http.Request) {
	var req model.CouponRequest
	h.withBody(w, r, &req, func(id uuid.UUID) (any, error) {
		return h.service.SetCouponCode(r.Context(), id, req.Code)
	})
}

// SetBillingAddress handles PUT /api/carts/{id}/billing-address.
func (h *CartHandler) SetBillingAddress(w http.ResponseWriter, r *http.Request) {
	var addr cart.CustomerAddress
	h.withBody(w, r, &addr, func(id uuid.UUID) (any, error) {
		return h.service.SetBillingAddress(r.Context(), id, &addr)
	})
}

// SetShippingAddress handles PUT /api/carts/{id}/shipping-address.
func (h *CartHandler) SetShippingAddress(w http.ResponseWriter, r *http.Request) {
	var addr cart.CustomerAddress
	h.withBody(w, r, &addr, func(id uuid.UUID) (any, error) {
		return h.service.SetShippingAddress(r.Context(), id, &addr)
	})
}

// SetShipping handles PUT /api/carts/{id}/shipping.
func (h *CartHandler) SetShipping(w http.ResponseWriter, r *http.Request) {
	var req model.ShippingRequest
	h.withBody(w, r, &req, func(id uuid.UUID) (any, error) {
		return h.service.SetShippingOption(r.Context(), id, req.OptionID)
	})
}

// SetPayment handles PUT /api/carts/{id}/payment.
func (h *CartHandler) SetPayment(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentRequest
	h.withBody(w, r, &req, func(id uuid.UUID) (any, error) {
		return h.service.SetPaymentMethod(r.Context(), id, req.MethodID)
	})
}

// SetCustomer handles PUT /api/carts/{id}/customer.
func (h *CartHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	var req model.CustomerRequest
	h.withBody(w, r, &req, func(id uuid.UUID) (any, error) {
		return h.service.SetCustomer(r.Context(), id, req)
	})
}

// Validate handles GET /api/carts/{id}/validation.
func (h *CartHandler) Validate(w http.ResponseWriter, r *http.Request) {
	h.withCart(w, r, func(id uuid.UUID) (any, error) {
		return h.service.Validate(r.Context(), id)
	})
}

// Save handles POST /api/carts/{id}/save.
func (h *CartHandler) Save(w http.ResponseWriter, r *http.Request) {
	h.withCart(w, r, func(id uuid.UUID) (any, error) {
		return h.service.Save(r.Context(), id)
	})
}

// withCart parses the cart id, runs fn and writes its result.
func (h *CartHandler) withCart(w http.ResponseWriter, r *http.Request, fn func(id uuid.UUID) (any, error)) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidID, "invalid cart ID format", h.logger)
		return
	}

	resp, err := fn(id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// withBody is withCart for requests carrying a JSON body decoded into dst.
func (h *CartHandler) withBody(w http.ResponseWriter, r *http.Request, dst any, fn func(id uuid.UUID) (any, error)) {
	if _, err := pathUUID(r, "id"); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidID, "invalid cart ID format", h.logger)
		return
	}
	if err := decodeJSON(w, r, dst, false); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	h.withCart(w, r, fn)
}

func (h *CartHandler) itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	itemID, err := pathUUID(r, "itemId")
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidID, "invalid line item ID format", h.logger)
		return uuid.Nil, false
	}
	return itemID, true
}
