package repository

import (
	"context"

	"kart-engine/internal/cart"
	"kart-engine/internal/coupon"
	"kart-engine/internal/shipping"
	"kart-engine/internal/tax"

	"github.com/google/uuid"
)

// CatalogRepository resolves products for carts and lists them for the product API.
type CatalogRepository interface {
	cart.CatalogLookup

	// GetAll retrieves products ordered by name with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]cart.Product, error)
}

// CartRepository persists cart state.
type CartRepository interface {
	cart.PersistenceAdapter

	// GetByID loads a persisted cart, or returns nil when it was never saved.
	GetByID(ctx context.Context, id uuid.UUID) (*cart.State, error)
}

// ContactRepository resolves and updates the contact behind a cart.
type ContactRepository interface {
	cart.ContactResolver

	// GetByID retrieves a contact, or nil when it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*cart.Contact, error)
}

// TaxRateRepository is the tax rate table.
type TaxRateRepository interface {
	tax.RateSource
}

// ShippingOptionRepository is the shipping option price list.
type ShippingOptionRepository interface {
	shipping.OptionSource

	// GetAll lists the active shipping options.
	GetAll(ctx context.Context) ([]shipping.Rate, error)
}

// PaymentMethodRepository lists the payment methods a cart may select.
type PaymentMethodRepository interface {
	// GetByID retrieves an active payment method, or nil when there is none.
	GetByID(ctx context.Context, id string) (*cart.PaymentMethod, error)
}

// DiscountRepository holds the pricing rules.
type DiscountRepository interface {
	// GetActive lists every active discount.
	GetActive(ctx context.Context) ([]coupon.Discount, error)
}
