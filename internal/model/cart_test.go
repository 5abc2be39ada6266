package model

import (
	"context"
	"testing"

	"kart-engine/internal/cart"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogStub map[string]cart.Product

func (c catalogStub) Resolve(ctx context.Context, productID string) (*cart.Product, error) {
	p, ok := c[productID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func TestNewCartResponse(t *testing.T) {
	ctx := context.Background()
	catalog := catalogStub{
		"SKU-BOOK":  {ID: "SKU-BOOK", Name: "Book", UnitPrice: decimal.RequireFromString("12.50"), Sellable: true, RequiresShipping: true},
		"SKU-EBOOK": {ID: "SKU-EBOOK", Name: "Ebook", UnitPrice: decimal.RequireFromString("4.00"), Sellable: true},
	}
	c, err := cart.New(cart.Dependencies{Catalog: catalog}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, c.AddItem(ctx, "SKU-BOOK", 2))
	require.NoError(t, c.AddItem(ctx, "SKU-EBOOK", 1))
	require.NoError(t, c.SetCouponCode(ctx, " SPRING10 "))

	resp := NewCartResponse(c)

	assert.Equal(t, c.ID(), resp.ID)
	assert.Equal(t, "USD", resp.Currency)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "SKU-BOOK", resp.Items[0].ProductID)
	assert.Equal(t, "25.00", resp.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "25.00", resp.Items[0].Total.StringFixed(2))
	assert.True(t, resp.Items[0].RequiresShipping)
	assert.False(t, resp.Items[1].RequiresShipping)
	assert.True(t, resp.IsShippingNeeded)
	require.NotNil(t, resp.CouponCode)
	assert.Equal(t, "SPRING10", *resp.CouponCode)
	assert.False(t, resp.CouponApplied)
	assert.Equal(t, "29.00", resp.Totals.Total.StringFixed(2))
}

func TestNewCartResponse_Empty(t *testing.T) {
	c, err := cart.New(cart.Dependencies{Catalog: catalogStub{}}, zerolog.Nop())
	require.NoError(t, err)

	resp := NewCartResponse(c)

	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
	assert.Nil(t, resp.CouponCode)
	assert.False(t, resp.IsShippingNeeded)
	assert.True(t, resp.Totals.Total.IsZero())
}
