package model

import (
	"kart-engine/internal/cart"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCartRequest creates a cart, optionally for a registered user.
type CreateCartRequest struct {
	User *cart.User `json:"user,omitempty"`
}

// AddItemRequest adds units of a product.
type AddItemRequest struct {
	ProductID string `json:"productId"`
	Units     int    `json:"units"`
}

// UpdateQuantityRequest sets the units of a line item. Zero or less removes it.
type UpdateQuantityRequest struct {
	Units int `json:"units"`
}

// CouponRequest sets or clears (blank code) the coupon code.
type CouponRequest struct {
	Code string `json:"code"`
}

// ShippingRequest selects a shipping option. A blank id clears it.
type ShippingRequest struct {
	OptionID string `json:"optionId"`
}

// PaymentRequest selects a payment method. A blank id clears it.
type PaymentRequest struct {
	MethodID string `json:"methodId"`
}

// CustomerRequest sets the customer details of the cart.
type CustomerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// LineItemResponse is one line of a CartResponse.
type LineItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        string          `json:"productId"`
	Name             string          `json:"name"`
	Units            int             `json:"units"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Discount         decimal.Decimal `json:"discount"`
	Total            decimal.Decimal `json:"total"`
	RequiresShipping bool            `json:"requiresShipping"`
}

// CartResponse is the API view of a cart.
type CartResponse struct {
	ID               uuid.UUID             `json:"id"`
	Currency         string                `json:"currency"`
	Items            []LineItemResponse    `json:"items"`
	CouponCode       *string               `json:"couponCode,omitempty"`
	CouponApplied    bool                  `json:"couponApplied"`
	BillingAddress   *cart.CustomerAddress `json:"billingAddress,omitempty"`
	ShippingAddress  *cart.CustomerAddress `json:"shippingAddress,omitempty"`
	ShippingOption   *cart.ShippingOption  `json:"shippingOption,omitempty"`
	PaymentMethod    *cart.PaymentMethod   `json:"paymentMethod,omitempty"`
	Customer         *cart.Customer        `json:"customer,omitempty"`
	IsShippingNeeded bool                  `json:"isShippingNeeded"`
	Totals           cart.Totals           `json:"totals"`
}

// NewCartResponse builds the API view of c.
func NewCartResponse(c *cart.Cart) *CartResponse {
	state := c.State()

	items := make([]LineItemResponse, len(state.Items))
	for i, item := range state.Items {
		items[i] = LineItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			Name:             item.Name,
			Units:            item.Units,
			UnitPrice:        item.UnitPrice,
			Subtotal:         item.Subtotal(),
			Discount:         item.Discount,
			Total:            item.Total(),
			RequiresShipping: item.RequiresShipping,
		}
	}

	return &CartResponse{
		ID:               state.CartID,
		Currency:         state.Currency,
		Items:            items,
		CouponCode:       state.CouponCode,
		CouponApplied:    c.HasUsableCoupon(),
		BillingAddress:   state.BillingAddress,
		ShippingAddress:  state.ShippingAddress,
		ShippingOption:   state.ShippingOption,
		PaymentMethod:    state.PaymentMethod,
		Customer:         state.Customer,
		IsShippingNeeded: c.IsShippingNeeded(),
		Totals:           state.Totals,
	}
}
