package repository

import (
	"context"
	"errors"
	"fmt"

	"kart-engine/internal/shipping"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const shippingColumns = `id, name, base_cost, per_unit_cost, free_over`

type shippingOptionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewShippingOptionRepository creates a PostgreSQL-backed shipping price list.
func NewShippingOptionRepository(pool *pgxpool.Pool, logger zerolog.Logger) ShippingOptionRepository {
	return &shippingOptionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "shipping_option").Logger(),
	}
}

func scanRate(row pgx.Row) (shipping.Rate, error) {
	var rate shipping.Rate
	err := row.Scan(&rate.OptionID, &rate.Name, &rate.BaseCost, &rate.PerUnitCost, &rate.FreeOver)
	return rate, err
}

// Rate returns the active option with the given id, or nil.
func (r *shippingOptionRepository) Rate(ctx context.Context, optionID string) (*shipping.Rate, error) {
	query := `SELECT ` + shippingColumns + ` FROM shipping_options WHERE id = $1 AND active`

	rate, err := scanRate(r.pool.QueryRow(ctx, query, optionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("option_id", optionID).Msg("shipping option not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("option_id", optionID).Msg("failed to query shipping option")
		return nil, fmt.Errorf("failed to query shipping option: %w", err)
	}
	return &rate, nil
}

// GetAll lists the active shipping options by name.
func (r *shippingOptionRepository) GetAll(ctx context.Context) ([]shipping.Rate, error) {
	query := `SELECT ` + shippingColumns + ` FROM shipping_options WHERE active ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query shipping options: %w", err)
	}
	defer rows.Close()

	rates := []shipping.Rate{}
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shipping option: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shipping options: %w", err)
	}
	return rates, nil
}
