package repository

import (
	"context"
	"errors"
	"fmt"

	"kart-engine/internal/cart"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, unit_price, sellable, max_units, requires_shipping, tax_class`

type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a PostgreSQL-backed catalog.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

func scanProduct(row pgx.Row) (cart.Product, error) {
	var p cart.Product
	err := row.Scan(&p.ID, &p.Name, &p.UnitPrice, &p.Sellable, &p.MaxUnits, &p.RequiresShipping, &p.TaxClass)
	return p, err
}

// Resolve returns the product with the given id, or nil when it does not exist.
func (r *catalogRepository) Resolve(ctx context.Context, productID string) (*cart.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", productID).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetAll retrieves products ordered by name with pagination support.
func (r *catalogRepository) GetAll(ctx context.Context, limit, offset int) ([]cart.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []cart.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
