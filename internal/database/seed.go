package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SampleData is a small catalog with tax rates, shipping options, payment methods
// and discounts. Rows that already exist are left untouched.
const SampleData = `
INSERT INTO products (id, name, unit_price, sellable, max_units, requires_shipping, tax_class) VALUES
	('SKU-BOOK',    'The Go Programming Language', 25.00, TRUE,  0, TRUE,  'standard'),
	('SKU-EBOOK',   'Concurrency in Go (ebook)',   12.00, TRUE,  0, FALSE, 'digital'),
	('SKU-LAMP',    'Desk Lamp',                   40.00, TRUE,  2, TRUE,  'standard'),
	('SKU-GIFT',    'Gift Card',                   50.00, TRUE,  0, FALSE, ''),
	('SKU-RETIRED', 'Retired Mug',                  8.00, FALSE, 0, TRUE,  'standard')
ON CONFLICT (id) DO NOTHING;

INSERT INTO tax_rates (tax_class, country_id, state_id, percent) VALUES
	('standard', 'US', '',   5.000),
	('standard', 'US', 'CA', 8.250),
	('digital',  'US', '',   2.000),
	('standard', 'GB', '',  20.000),
	('digital',  'GB', '',  20.000)
ON CONFLICT (tax_class, country_id, state_id) DO NOTHING;

INSERT INTO shipping_options (id, name, base_cost, per_unit_cost, free_over, active) VALUES
	('standard', 'Standard',  5.00, 1.00, 100.00, TRUE),
	('express',  'Express',  15.00, 2.00,   0.00, TRUE),
	('freight',  'Freight',  90.00, 0.00,   0.00, FALSE)
ON CONFLICT (id) DO NOTHING;

INSERT INTO payment_methods (id, name, active) VALUES
	('card',    'Credit card',   TRUE),
	('invoice', 'Invoice',       TRUE),
	('cheque',  'Cheque',        FALSE)
ON CONFLICT (id) DO NOTHING;

INSERT INTO discounts (id, name, scope, kind, value, product_id, min_subtotal, coupon_gated, coupon_file, active) VALUES
	('spring10',   'Spring sale',      'order', 'percentage', 10.00, '',         0.00,   TRUE,  'spring.gz', TRUE),
	('lamp-promo', 'Lamp promotion',   'item',  'fixed',       5.00, 'SKU-LAMP', 0.00,   FALSE, '',          TRUE),
	('big-order',  'Big order reward', 'order', 'fixed',      20.00, '',         200.00, FALSE, '',          TRUE)
ON CONFLICT (id) DO NOTHING;
`

// Seed inserts SampleData.
func Seed(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, SampleData); err != nil {
		return fmt.Errorf("failed to seed sample data: %w", err)
	}
	logger.Info().Msg("sample data seeded")
	return nil
}
