package service

import (
	"context"
	"fmt"

	"kart-engine/internal/model"
	"kart-engine/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	catalog repository.CatalogRepository
	logger  zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(catalog repository.CatalogRepository, logger zerolog.Logger) ProductService {
	return &productService{
		catalog: catalog,
		logger:  logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves products with pagination. The limit is clamped to 1..100.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.catalog.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	result := make([]model.Product, len(products))
	for i, p := range products {
		result[i] = model.NewProduct(p)
	}

	s.logger.Debug().
		Int("count", len(result)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return result, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := s.catalog.Resolve(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	p := model.NewProduct(*product)
	return &p, nil
}
