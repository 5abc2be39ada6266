package repository

import (
	"context"
	"fmt"

	"kart-engine/internal/tax"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type taxRateRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewTaxRateRepository creates a PostgreSQL-backed tax rate source.
func NewTaxRateRepository(pool *pgxpool.Pool, logger zerolog.Logger) TaxRateRepository {
	return &taxRateRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "tax_rate").Logger(),
	}
}

// Rates returns the country-wide rates of countryID and the rates of stateID.
func (r *taxRateRepository) Rates(ctx context.Context, countryID, stateID string) ([]tax.Rate, error) {
	query := `
		SELECT tax_class, country_id, state_id, percent
		FROM tax_rates
		WHERE country_id = $1 AND (state_id = '' OR state_id = $2)
		ORDER BY tax_class, state_id
	`

	rows, err := r.pool.Query(ctx, query, countryID, stateID)
	if err != nil {
		r.logger.Error().Err(err).Str("country_id", countryID).Msg("failed to query tax rates")
		return nil, fmt.Errorf("failed to query tax rates: %w", err)
	}
	defer rows.Close()

	var rates []tax.Rate
	for rows.Next() {
		var rate tax.Rate
		if err := rows.Scan(&rate.TaxClass, &rate.CountryID, &rate.StateID, &rate.Percent); err != nil {
			return nil, fmt.Errorf("failed to scan tax rate: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax rates: %w", err)
	}
	return rates, nil
}
