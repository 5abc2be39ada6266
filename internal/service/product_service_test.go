package service

import (
	"context"
	"errors"
	"testing"

	"kart-engine/internal/cart"
	"kart-engine/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_GetAll(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	catalogProducts := []cart.Product{
		*bookProduct(),
		{ID: "SKU-EBOOK", Name: "Ebook", UnitPrice: money("7.99"), Sellable: true, TaxClass: "digital"},
	}

	tests := []struct {
		name           string
		limit          int
		offset         int
		expectedLimit  int
		expectedOffset int
		mockReturn     []cart.Product
		mockError      error
		expectError    bool
	}{
		{
			name:          "Success with valid pagination",
			limit:         10,
			expectedLimit: 10,
			mockReturn:    catalogProducts,
		},
		{
			name:          "Success with zero limit defaults to 10",
			limit:         0,
			expectedLimit: 10,
			mockReturn:    catalogProducts,
		},
		{
			name:          "Success with negative limit defaults to 10",
			limit:         -5,
			expectedLimit: 10,
			mockReturn:    catalogProducts,
		},
		{
			name:          "Success with limit exceeding max caps at 100",
			limit:         200,
			expectedLimit: 100,
			mockReturn:    catalogProducts,
		},
		{
			name:           "Success with negative offset defaults to 0",
			limit:          10,
			offset:         -10,
			expectedLimit:  10,
			expectedOffset: 0,
			mockReturn:     []cart.Product{},
		},
		{
			name:           "Offset is passed through",
			limit:          5,
			offset:         20,
			expectedLimit:  5,
			expectedOffset: 20,
			mockReturn:     []cart.Product{},
		},
		{
			name:          "Repository error",
			limit:         10,
			expectedLimit: 10,
			mockError:     errors.New("database error"),
			expectError:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCatalogRepository)
			service := NewProductService(mockRepo, logger)

			mockRepo.On("GetAll", ctx, tt.expectedLimit, tt.expectedOffset).
				Return(tt.mockReturn, tt.mockError)

			products, err := service.GetAll(ctx, tt.limit, tt.offset)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, products)
			} else {
				require.NoError(t, err)
				require.Len(t, products, len(tt.mockReturn))
				for i, p := range tt.mockReturn {
					assert.Equal(t, model.NewProduct(p), products[i])
				}
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestProductService_GetByID(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name        string
		productID   string
		mockReturn  *cart.Product
		mockError   error
		expectError bool
		expectedErr error
	}{
		{
			name:       "Success",
			productID:  "SKU-BOOK",
			mockReturn: bookProduct(),
		},
		{
			name:        "Product not found",
			productID:   "SKU-MISSING",
			expectError: true,
			expectedErr: model.ErrProductNotFound,
		},
		{
			name:        "Empty product ID",
			productID:   "",
			expectError: true,
			expectedErr: model.ErrProductNotFound,
		},
		{
			name:        "Repository error",
			productID:   "SKU-BOOK",
			mockError:   errors.New("database error"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCatalogRepository)
			service := NewProductService(mockRepo, logger)

			if tt.productID != "" {
				mockRepo.On("Resolve", ctx, tt.productID).
					Return(tt.mockReturn, tt.mockError)
			}

			product, err := service.GetByID(ctx, tt.productID)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, product)
				if tt.expectedErr != nil {
					assert.Equal(t, tt.expectedErr, err)
				}
			} else {
				require.NoError(t, err)
				require.NotNil(t, product)
				assert.Equal(t, "Book", product.Name)
				assert.Equal(t, 3, product.MaxUnits)
				assert.True(t, money("12.50").Equal(product.UnitPrice))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
