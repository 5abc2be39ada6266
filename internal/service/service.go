package service

import (
	"context"

	"kart-engine/internal/cart"
	"kart-engine/internal/model"

	"github.com/google/uuid"
)

// ProductService defines read operations on the catalog.
type ProductService interface {
	// GetAll retrieves products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// CartService defines the shopping cart use cases of the HTTP API.
// Every mutating operation returns the recomputed cart.
type CartService interface {
	Create(ctx context.Context, user *cart.User) (*model.CartResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*model.CartResponse, error)

	AddItem(ctx context.Context, id uuid.UUID, req model.AddItemRequest) (*model.CartResponse, error)
	UpdateQuantity(ctx context.Context, id, itemID uuid.UUID, units int) (*model.CartResponse, error)
	RemoveItem(ctx context.Context, id, itemID uuid.UUID) (*model.CartResponse, error)
	RemoveAllItems(ctx context.Context, id uuid.UUID) (*model.CartResponse, error)

	SetCouponCode(ctx context.Context, id uuid.UUID, code string) (*model.CartResponse, error)
	SetBillingAddress(ctx context.Context, id uuid.UUID, addr *cart.CustomerAddress) (*model.CartResponse, error)
	SetShippingAddress(ctx context.Context, id uuid.UUID, addr *cart.CustomerAddress) (*model.CartResponse, error)
	SetShippingOption(ctx context.Context, id uuid.UUID, optionID string) (*model.CartResponse, error)
	SetPaymentMethod(ctx context.Context, id uuid.UUID, methodID string) (*model.CartResponse, error)
	SetCustomer(ctx context.Context, id uuid.UUID, req model.CustomerRequest) (*model.CartResponse, error)

	// Validate reports catalog availability and unit ceilings of every line item.
	Validate(ctx context.Context, id uuid.UUID) (*cart.ValidationReport, error)

	// Save persists the cart and synchronises the shopper's contact.
	Save(ctx context.Context, id uuid.UUID) (*model.CartResponse, error)
}
