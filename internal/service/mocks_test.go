package service

import (
	"context"

	"kart-engine/internal/cart"
	"kart-engine/internal/shipping"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockCatalogRepository is a mock implementation of CatalogRepository.
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) Resolve(ctx context.Context, productID string) (*cart.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Product), args.Error(1)
}

func (m *MockCatalogRepository) GetAll(ctx context.Context, limit, offset int) ([]cart.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Product), args.Error(1)
}

// MockCartRepository is a mock implementation of CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Save(ctx context.Context, state cart.State) (cart.SaveResult, error) {
	args := m.Called(ctx, state)
	return args.Get(0).(cart.SaveResult), args.Error(1)
}

func (m *MockCartRepository) GetByID(ctx context.Context, id uuid.UUID) (*cart.State, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.State), args.Error(1)
}

// MockShippingOptionRepository is a mock implementation of ShippingOptionRepository.
type MockShippingOptionRepository struct {
	mock.Mock
}

func (m *MockShippingOptionRepository) Rate(ctx context.Context, optionID string) (*shipping.Rate, error) {
	args := m.Called(ctx, optionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Rate), args.Error(1)
}

func (m *MockShippingOptionRepository) GetAll(ctx context.Context) ([]shipping.Rate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipping.Rate), args.Error(1)
}

// MockPaymentMethodRepository is a mock implementation of PaymentMethodRepository.
type MockPaymentMethodRepository struct {
	mock.Mock
}

func (m *MockPaymentMethodRepository) GetByID(ctx context.Context, id string) (*cart.PaymentMethod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.PaymentMethod), args.Error(1)
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func bookProduct() *cart.Product {
	return &cart.Product{
		ID:               "SKU-BOOK",
		Name:             "Book",
		UnitPrice:        money("12.50"),
		Sellable:         true,
		MaxUnits:         3,
		RequiresShipping: true,
		TaxClass:         "standard",
	}
}

// newCatalogMock answers SKU-BOOK and reports every other product as missing.
func newCatalogMock() *MockCatalogRepository {
	catalog := new(MockCatalogRepository)
	catalog.On("Resolve", mock.Anything, "SKU-BOOK").Return(bookProduct(), nil).Maybe()
	catalog.On("Resolve", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	return catalog
}
