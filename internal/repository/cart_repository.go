package repository

import (
	"context"
	"errors"
	"fmt"

	"kart-engine/internal/cart"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	addressBilling  = "billing"
	addressShipping = "shipping"
)

type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a PostgreSQL-backed cart store.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// Save writes the cart row, its addresses and its line items in one transaction.
// Line items are replaced as a whole. Address rows keep their id across saves.
func (r *cartRepository) Save(ctx context.Context, state cart.State) (cart.SaveResult, error) {
	var result cart.SaveResult

	err := withTx(ctx, r.pool, r.logger, func(tx pgx.Tx) error {
		if err := r.upsertCart(ctx, tx, state); err != nil {
			return err
		}

		var err error
		if result.BillingAddressID, err = r.saveAddress(ctx, tx, state.CartID, addressBilling, state.BillingAddress); err != nil {
			return err
		}
		if result.ShippingAddressID, err = r.saveAddress(ctx, tx, state.CartID, addressShipping, state.ShippingAddress); err != nil {
			return err
		}

		return r.replaceItems(ctx, tx, state.CartID, state.Items)
	})
	if err != nil {
		return cart.SaveResult{}, err
	}

	r.logger.Debug().
		Str("cart_id", state.CartID.String()).
		Int("item_count", len(state.Items)).
		Msg("cart saved")

	return result, nil
}

func (r *cartRepository) upsertCart(ctx context.Context, tx pgx.Tx, state cart.State) error {
	query := `
		INSERT INTO carts (
			id, user_id, currency, coupon_code, shipping_option_id, payment_method_id,
			customer_first_name, customer_last_name, customer_email,
			subtotal, item_discount, order_discount, tax, shipping, total, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			currency = EXCLUDED.currency,
			coupon_code = EXCLUDED.coupon_code,
			shipping_option_id = EXCLUDED.shipping_option_id,
			payment_method_id = EXCLUDED.payment_method_id,
			customer_first_name = EXCLUDED.customer_first_name,
			customer_last_name = EXCLUDED.customer_last_name,
			customer_email = EXCLUDED.customer_email,
			subtotal = EXCLUDED.subtotal,
			item_discount = EXCLUDED.item_discount,
			order_discount = EXCLUDED.order_discount,
			tax = EXCLUDED.tax,
			shipping = EXCLUDED.shipping,
			total = EXCLUDED.total,
			updated_at = NOW()
	`

	var userID *uuid.UUID
	if state.User != nil {
		userID = &state.User.ID
	}
	var optionID, methodID *string
	if state.ShippingOption != nil {
		optionID = &state.ShippingOption.ID
	}
	if state.PaymentMethod != nil {
		methodID = &state.PaymentMethod.ID
	}
	var customer cart.Customer
	if state.Customer != nil {
		customer = *state.Customer
	}
	t := state.Totals

	_, err := tx.Exec(ctx, query,
		state.CartID, userID, state.Currency, state.CouponCode, optionID, methodID,
		customer.FirstName, customer.LastName, customer.Email,
		t.Subtotal, t.ItemDiscount, t.OrderDiscount, t.Tax, t.Shipping, t.Total,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", state.CartID.String()).Msg("failed to upsert cart")
		return fmt.Errorf("failed to upsert cart: %w", err)
	}
	return nil
}

// saveAddress upserts the address of the given kind and returns its id, or
// deletes it when addr is nil.
func (r *cartRepository) saveAddress(ctx context.Context, tx pgx.Tx, cartID uuid.UUID, kind string, addr *cart.CustomerAddress) (uuid.UUID, error) {
	if addr == nil {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_addresses WHERE cart_id = $1 AND kind = $2`, cartID, kind); err != nil {
			return uuid.Nil, fmt.Errorf("failed to delete %s address: %w", kind, err)
		}
		return uuid.Nil, nil
	}

	query := `
		INSERT INTO cart_addresses (id, cart_id, kind, personal_name, line1, line2, city, postal_code, country_id, state_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (cart_id, kind) DO UPDATE SET
			personal_name = EXCLUDED.personal_name,
			line1 = EXCLUDED.line1,
			line2 = EXCLUDED.line2,
			city = EXCLUDED.city,
			postal_code = EXCLUDED.postal_code,
			country_id = EXCLUDED.country_id,
			state_id = EXCLUDED.state_id
		RETURNING id
	`

	id := addr.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	err := tx.QueryRow(ctx, query,
		id, cartID, kind, addr.PersonalName, addr.Line1, addr.Line2, addr.City,
		addr.PostalCode, addr.CountryID, addr.StateID,
	).Scan(&id)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Str("kind", kind).Msg("failed to upsert address")
		return uuid.Nil, fmt.Errorf("failed to upsert %s address: %w", kind, err)
	}
	return id, nil
}

func (r *cartRepository) replaceItems(ctx context.Context, tx pgx.Tx, cartID uuid.UUID, items []cart.LineItem) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to delete cart items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO cart_items (id, cart_id, position, product_id, name, units, unit_price, discount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	batch := &pgx.Batch{}
	for i, item := range items {
		batch.Queue(query, item.ID, cartID, i, item.ProductID, item.Name, item.Units, item.UnitPrice, item.Discount)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for _, item := range items {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("cart_id", cartID.String()).
				Str("product_id", item.ProductID).
				Msg("failed to insert cart item")
			return fmt.Errorf("failed to insert cart item: %w", err)
		}
	}
	return nil
}

// GetByID loads a persisted cart, or returns nil when it was never saved.
func (r *cartRepository) GetByID(ctx context.Context, id uuid.UUID) (*cart.State, error) {
	query := `
		SELECT c.user_id, c.currency, c.coupon_code,
			c.shipping_option_id, COALESCE(so.name, ''),
			c.payment_method_id, COALESCE(pm.name, ''),
			c.customer_first_name, c.customer_last_name, c.customer_email,
			c.subtotal, c.item_discount, c.order_discount, c.tax, c.shipping, c.total
		FROM carts c
		LEFT JOIN shipping_options so ON so.id = c.shipping_option_id
		LEFT JOIN payment_methods pm ON pm.id = c.payment_method_id
		WHERE c.id = $1
	`

	var (
		state                  = cart.State{CartID: id}
		userID                 *uuid.UUID
		optionID, methodID     *string
		optionName, methodName string
		customer               cart.Customer
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&userID, &state.Currency, &state.CouponCode,
		&optionID, &optionName,
		&methodID, &methodName,
		&customer.FirstName, &customer.LastName, &customer.Email,
		&state.Totals.Subtotal, &state.Totals.ItemDiscount, &state.Totals.OrderDiscount,
		&state.Totals.Tax, &state.Totals.Shipping, &state.Totals.Total,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("cart_id", id.String()).Msg("cart not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("cart_id", id.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	if userID != nil {
		state.User = &cart.User{ID: *userID}
	}
	if optionID != nil {
		state.ShippingOption = &cart.ShippingOption{ID: *optionID, Name: optionName}
	}
	if methodID != nil {
		state.PaymentMethod = &cart.PaymentMethod{ID: *methodID, Name: methodName}
	}
	if customer != (cart.Customer{}) {
		state.Customer = &customer
	}

	if err := r.loadAddresses(ctx, &state); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, &state); err != nil {
		return nil, err
	}

	return &state, nil
}

func (r *cartRepository) loadAddresses(ctx context.Context, state *cart.State) error {
	query := `
		SELECT id, kind, personal_name, line1, line2, city, postal_code, country_id, state_id
		FROM cart_addresses
		WHERE cart_id = $1
	`

	rows, err := r.pool.Query(ctx, query, state.CartID)
	if err != nil {
		return fmt.Errorf("failed to query cart addresses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			addr cart.CustomerAddress
			kind string
		)
		err := rows.Scan(&addr.ID, &kind, &addr.PersonalName, &addr.Line1, &addr.Line2,
			&addr.City, &addr.PostalCode, &addr.CountryID, &addr.StateID)
		if err != nil {
			return fmt.Errorf("failed to scan cart address: %w", err)
		}
		switch kind {
		case addressBilling:
			state.BillingAddress = &addr
		case addressShipping:
			state.ShippingAddress = &addr
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating cart addresses: %w", err)
	}
	return nil
}

func (r *cartRepository) loadItems(ctx context.Context, state *cart.State) error {
	query := `
		SELECT id, product_id, name, units, unit_price, discount
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query, state.CartID)
	if err != nil {
		return fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	state.Items = []cart.LineItem{}
	for rows.Next() {
		item := cart.LineItem{Discount: decimal.Zero}
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Name, &item.Units, &item.UnitPrice, &item.Discount); err != nil {
			return fmt.Errorf("failed to scan cart item: %w", err)
		}
		state.Items = append(state.Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating cart items: %w", err)
	}
	return nil
}
