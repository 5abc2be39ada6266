package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema creates every table the cart engine reads or writes. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	unit_price        NUMERIC(12, 2) NOT NULL CHECK (unit_price >= 0),
	sellable          BOOLEAN NOT NULL DEFAULT TRUE,
	max_units         INTEGER NOT NULL DEFAULT 0 CHECK (max_units >= 0),
	requires_shipping BOOLEAN NOT NULL DEFAULT TRUE,
	tax_class         TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS carts (
	id                  UUID PRIMARY KEY,
	user_id             UUID,
	currency            TEXT NOT NULL,
	coupon_code         TEXT,
	shipping_option_id  TEXT,
	payment_method_id   TEXT,
	customer_first_name TEXT NOT NULL DEFAULT '',
	customer_last_name  TEXT NOT NULL DEFAULT '',
	customer_email      TEXT NOT NULL DEFAULT '',
	subtotal            NUMERIC(12, 2) NOT NULL DEFAULT 0,
	item_discount       NUMERIC(12, 2) NOT NULL DEFAULT 0,
	order_discount      NUMERIC(12, 2) NOT NULL DEFAULT 0,
	tax                 NUMERIC(12, 2) NOT NULL DEFAULT 0,
	shipping            NUMERIC(12, 2) NOT NULL DEFAULT 0,
	total               NUMERIC(12, 2) NOT NULL DEFAULT 0,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS cart_addresses (
	id            UUID PRIMARY KEY,
	cart_id       UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
	kind          TEXT NOT NULL CHECK (kind IN ('billing', 'shipping')),
	personal_name TEXT NOT NULL DEFAULT '',
	line1         TEXT NOT NULL DEFAULT '',
	line2         TEXT NOT NULL DEFAULT '',
	city          TEXT NOT NULL DEFAULT '',
	postal_code   TEXT NOT NULL DEFAULT '',
	country_id    TEXT NOT NULL DEFAULT '',
	state_id      TEXT NOT NULL DEFAULT '',
	UNIQUE (cart_id, kind)
);

CREATE TABLE IF NOT EXISTS cart_items (
	id         UUID PRIMARY KEY,
	cart_id    UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	product_id TEXT NOT NULL,
	name       TEXT NOT NULL,
	units      INTEGER NOT NULL CHECK (units > 0),
	unit_price NUMERIC(12, 2) NOT NULL,
	discount   NUMERIC(12, 2) NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_cart_items_cart_id ON cart_items(cart_id);

CREATE TABLE IF NOT EXISTS contacts (
	id         UUID PRIMARY KEY,
	user_id    UUID UNIQUE,
	cart_id    UUID UNIQUE,
	first_name TEXT NOT NULL DEFAULT '',
	last_name  TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS tax_rates (
	tax_class  TEXT NOT NULL,
	country_id TEXT NOT NULL,
	state_id   TEXT NOT NULL DEFAULT '',
	percent    NUMERIC(6, 3) NOT NULL CHECK (percent >= 0),
	PRIMARY KEY (tax_class, country_id, state_id)
);

CREATE TABLE IF NOT EXISTS shipping_options (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	base_cost     NUMERIC(12, 2) NOT NULL DEFAULT 0,
	per_unit_cost NUMERIC(12, 2) NOT NULL DEFAULT 0,
	free_over     NUMERIC(12, 2) NOT NULL DEFAULT 0,
	active        BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS payment_methods (
	id     TEXT PRIMARY KEY,
	name   TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS discounts (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	scope        TEXT NOT NULL CHECK (scope IN ('order', 'item')),
	kind         TEXT NOT NULL CHECK (kind IN ('fixed', 'percentage')),
	value        NUMERIC(12, 2) NOT NULL CHECK (value >= 0),
	product_id   TEXT NOT NULL DEFAULT '',
	min_subtotal NUMERIC(12, 2) NOT NULL DEFAULT 0,
	coupon_gated BOOLEAN NOT NULL DEFAULT FALSE,
	coupon_file  TEXT NOT NULL DEFAULT '',
	active       BOOLEAN NOT NULL DEFAULT TRUE
);
`

// Migrate applies Schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.Info().Msg("database schema applied")
	return nil
}
