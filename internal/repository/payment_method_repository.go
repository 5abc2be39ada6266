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

type paymentMethodRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPaymentMethodRepository creates a PostgreSQL-backed payment method list.
func NewPaymentMethodRepository(pool *pgxpool.Pool, logger zerolog.Logger) PaymentMethodRepository {
	return &paymentMethodRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "payment_method").Logger(),
	}
}

// GetByID retrieves an active payment method, or nil when there is none.
func (r *paymentMethodRepository) GetByID(ctx context.Context, id string) (*cart.PaymentMethod, error) {
	var method cart.PaymentMethod
	err := r.pool.QueryRow(ctx,
		`SELECT id, name FROM payment_methods WHERE id = $1 AND active`, id,
	).Scan(&method.ID, &method.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("payment_method_id", id).Msg("failed to query payment method")
		return nil, fmt.Errorf("failed to query payment method: %w", err)
	}
	return &method, nil
}
