// Package shipping prices shipping options for carts.
package shipping

import (
	"context"
	"fmt"

	"kart-engine/internal/cart"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Rate is the price list of one shipping option.
type Rate struct {
	OptionID    string          `json:"optionId"`
	Name        string          `json:"name"`
	BaseCost    decimal.Decimal `json:"baseCost"`
	PerUnitCost decimal.Decimal `json:"perUnitCost"`
	// FreeOver waives shipping once the shippable subtotal reaches it. Zero disables it.
	FreeOver decimal.Decimal `json:"freeOver"`
}

// OptionSource looks up shipping rates. It returns nil, nil for unknown options.
type OptionSource interface {
	Rate(ctx context.Context, optionID string) (*Rate, error)
}

// Provider implements cart.ShippingRateProvider.
type Provider struct {
	source OptionSource
	logger zerolog.Logger
}

var _ cart.ShippingRateProvider = (*Provider)(nil)

// NewProvider creates a shipping provider backed by source.
func NewProvider(source OptionSource, logger zerolog.Logger) *Provider {
	return &Provider{
		source: source,
		logger: logger.With().Str("component", "shipping-rates").Logger(),
	}
}

// ComputeShipping charges the option's base cost plus its per-unit cost for
// every unit that requires shipping.
func (p *Provider) ComputeShipping(ctx context.Context, option cart.ShippingOption, snapshot cart.Snapshot) (decimal.Decimal, error) {
	rate, err := p.source.Rate(ctx, option.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get shipping rate %s: %w", option.ID, err)
	}
	if rate == nil {
		p.logger.Warn().Str("option_id", option.ID).Msg("unknown shipping option, charging nothing")
		return decimal.Zero, nil
	}

	units := 0
	subtotal := decimal.Zero
	for _, item := range snapshot.ShippableItems() {
		units += item.Units
		subtotal = subtotal.Add(item.Total())
	}
	if units == 0 {
		return decimal.Zero, nil
	}

	if rate.FreeOver.IsPositive() && subtotal.GreaterThanOrEqual(rate.FreeOver) {
		return decimal.Zero, nil
	}

	return rate.BaseCost.Add(rate.PerUnitCost.Mul(decimal.NewFromInt(int64(units)))), nil
}
