package repository

import (
	"context"
	"fmt"

	"kart-engine/internal/coupon"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type discountRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDiscountRepository creates a PostgreSQL-backed discount list.
func NewDiscountRepository(pool *pgxpool.Pool, logger zerolog.Logger) DiscountRepository {
	return &discountRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "discount").Logger(),
	}
}

// GetActive lists every active discount ordered by id.
func (r *discountRepository) GetActive(ctx context.Context) ([]coupon.Discount, error) {
	query := `
		SELECT id, name, scope, kind, value, product_id, min_subtotal, coupon_gated, coupon_file, active
		FROM discounts
		WHERE active
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query discounts")
		return nil, fmt.Errorf("failed to query discounts: %w", err)
	}
	defer rows.Close()

	var discounts []coupon.Discount
	for rows.Next() {
		var (
			d           coupon.Discount
			scope, kind string
		)
		err := rows.Scan(&d.ID, &d.Name, &scope, &kind, &d.Value, &d.ProductID,
			&d.MinSubtotal, &d.CouponGated, &d.CouponFile, &d.Active)
		if err != nil {
			return nil, fmt.Errorf("failed to scan discount: %w", err)
		}
		d.Scope = coupon.Scope(scope)
		d.Kind = coupon.Kind(kind)
		discounts = append(discounts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discounts: %w", err)
	}

	r.logger.Debug().Int("count", len(discounts)).Msg("discounts loaded")
	return discounts, nil
}
