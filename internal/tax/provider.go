// Package tax computes cart taxes from per-region tax class rates.
package tax

import (
	"context"
	"fmt"

	"kart-engine/internal/cart"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Rate is the percentage charged for a tax class in a country, or in one of its
// states when StateID is set.
type Rate struct {
	TaxClass  string          `json:"taxClass"`
	CountryID string          `json:"countryId"`
	StateID   string          `json:"stateId,omitempty"`
	Percent   decimal.Decimal `json:"percent"`
}

// RateSource returns the country-wide rates of countryID together with the
// rates specific to stateID.
type RateSource interface {
	Rates(ctx context.Context, countryID, stateID string) ([]Rate, error)
}

// Provider implements cart.TaxRuleProvider.
type Provider struct {
	source RateSource
	places int32
	logger zerolog.Logger
}

var _ cart.TaxRuleProvider = (*Provider)(nil)

// NewProvider creates a tax provider rounding each line's tax to places decimals.
func NewProvider(source RateSource, places int32, logger zerolog.Logger) *Provider {
	return &Provider{
		source: source,
		places: places,
		logger: logger.With().Str("component", "tax-rules").Logger(),
	}
}

// ComputeTax sums the rounded tax of every item whose class has a rate at the
// billing address. A state rate overrides the country rate of the same class.
func (p *Provider) ComputeTax(ctx context.Context, billing cart.CustomerAddress, items []cart.TaxableItem) (decimal.Decimal, error) {
	if billing.CountryID == "" || len(items) == 0 {
		return decimal.Zero, nil
	}

	rates, err := p.source.Rates(ctx, billing.CountryID, billing.StateID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get tax rates for %s/%s: %w", billing.CountryID, billing.StateID, err)
	}
	byClass := resolve(rates, billing.StateID)

	total := decimal.Zero
	for _, item := range items {
		rate, ok := byClass[item.TaxClass]
		if !ok {
			continue
		}
		total = total.Add(item.Amount.Mul(rate).Div(hundred).Round(p.places))
	}

	p.logger.Debug().
		Str("country_id", billing.CountryID).
		Str("state_id", billing.StateID).
		Int("taxable_items", len(items)).
		Str("tax", total.String()).
		Msg("tax computed")
	return total, nil
}

func resolve(rates []Rate, stateID string) map[string]decimal.Decimal {
	byClass := make(map[string]decimal.Decimal, len(rates))
	fromState := make(map[string]bool, len(rates))

	for _, r := range rates {
		switch {
		case r.StateID == "":
			if !fromState[r.TaxClass] {
				byClass[r.TaxClass] = r.Percent
			}
		case r.StateID == stateID:
			byClass[r.TaxClass] = r.Percent
			fromState[r.TaxClass] = true
		}
	}
	return byClass
}
