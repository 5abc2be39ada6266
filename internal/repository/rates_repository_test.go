package repository

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxRateRepository_Rates(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	exec(t, pool, `
		INSERT INTO tax_rates (tax_class, country_id, state_id, percent) VALUES
			('standard', 'US', '', 5),
			('standard', 'US', 'CA', 9.5),
			('standard', 'US', 'OR', 0),
			('standard', 'DE', '', 19),
			('digital', 'US', '', 3)
	`)

	repo := NewTaxRateRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name      string
		countryID string
		stateID   string
		wantCount int
	}{
		{name: "country and state rates", countryID: "US", stateID: "CA", wantCount: 3},
		{name: "country rates only", countryID: "US", stateID: "NY", wantCount: 2},
		{name: "no state given", countryID: "US", stateID: "", wantCount: 2},
		{name: "other country", countryID: "DE", stateID: "BY", wantCount: 1},
		{name: "unknown country", countryID: "FR", stateID: "", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates, err := repo.Rates(ctx, tt.countryID, tt.stateID)
			require.NoError(t, err)
			assert.Len(t, rates, tt.wantCount)
			for _, rate := range rates {
				assert.Equal(t, tt.countryID, rate.CountryID)
				if rate.StateID != "" {
					assert.Equal(t, tt.stateID, rate.StateID)
				}
			}
		})
	}
}

func TestShippingOptionRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	exec(t, pool, `
		INSERT INTO shipping_options (id, name, base_cost, per_unit_cost, free_over, active) VALUES
			('standard', 'Standard', 5.00, 1.00, 100.00, TRUE),
			('express', 'Express', 15.00, 2.50, 0, TRUE),
			('pigeon', 'Pigeon', 1.00, 0, 0, FALSE)
	`)

	repo := NewShippingOptionRepository(pool, zerolog.Nop())
	ctx := context.Background()

	rate, err := repo.Rate(ctx, "standard")
	require.NoError(t, err)
	require.NotNil(t, rate)
	assert.Equal(t, "Standard", rate.Name)
	assertMoney(t, "5.00", rate.BaseCost)
	assertMoney(t, "1.00", rate.PerUnitCost)
	assertMoney(t, "100.00", rate.FreeOver)

	inactive, err := repo.Rate(ctx, "pigeon")
	require.NoError(t, err)
	assert.Nil(t, inactive)

	unknown, err := repo.Rate(ctx, "teleport")
	require.NoError(t, err)
	assert.Nil(t, unknown)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "express", all[0].OptionID)
	assert.Equal(t, "standard", all[1].OptionID)
}

func TestPaymentMethodRepository_GetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	exec(t, pool, `
		INSERT INTO payment_methods (id, name, active) VALUES
			('card', 'Credit card', TRUE),
			('cheque', 'Cheque', FALSE)
	`)

	repo := NewPaymentMethodRepository(pool, zerolog.Nop())
	ctx := context.Background()

	method, err := repo.GetByID(ctx, "card")
	require.NoError(t, err)
	require.NotNil(t, method)
	assert.Equal(t, "Credit card", method.Name)

	for _, id := range []string{"cheque", "barter"} {
		method, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, method, id)
	}
}

func TestDiscountRepository_GetActive(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	exec(t, pool, `
		INSERT INTO discounts (id, name, scope, kind, value, product_id, min_subtotal, coupon_gated, coupon_file, active) VALUES
			('book-deal', 'Book deal', 'item', 'fixed', 1.50, 'SKU-BOOK', 0, FALSE, '', TRUE),
			('spring', 'Spring sale', 'order', 'percentage', 10, '', 50.00, TRUE, 'spring.gz', TRUE),
			('retired', 'Retired', 'order', 'fixed', 5, '', 0, FALSE, '', FALSE)
	`)

	repo := NewDiscountRepository(pool, zerolog.Nop())

	discounts, err := repo.GetActive(context.Background())
	require.NoError(t, err)
	require.Len(t, discounts, 2)

	item := discounts[0]
	assert.Equal(t, "book-deal", item.ID)
	assert.Equal(t, "item", string(item.Scope))
	assert.Equal(t, "fixed", string(item.Kind))
	assertMoney(t, "1.50", item.Value)
	assert.Equal(t, "SKU-BOOK", item.ProductID)
	assert.True(t, item.Active)

	order := discounts[1]
	assert.Equal(t, "spring", order.ID)
	assert.True(t, order.IsPercentage())
	assertMoney(t, "50.00", order.MinSubtotal)
	assert.True(t, order.CouponGated)
	assert.Equal(t, "spring.gz", order.CouponFile)
}
