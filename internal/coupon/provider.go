package coupon

import (
	"context"
	"fmt"
	"sync"

	"kart-engine/internal/cart"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Provider evaluates a fixed list of discounts against cart snapshots.
// It implements cart.PricingRuleProvider and is safe for concurrent use.
type Provider struct {
	items  []Discount
	orders []Discount
	codes  map[string]CodeSet
	logger zerolog.Logger
}

var _ cart.PricingRuleProvider = (*Provider)(nil)

// NewProvider keeps the active discounts and loads the code file of every
// coupon-gated one. Files are loaded concurrently; any failure aborts construction.
func NewProvider(ctx context.Context, discounts []Discount, loader Loader, logger zerolog.Logger) (*Provider, error) {
	logger = logger.With().Str("component", "pricing-rules").Logger()

	p := &Provider{
		codes:  make(map[string]CodeSet),
		logger: logger,
	}

	var gated []Discount
	for _, d := range discounts {
		if !d.Active {
			continue
		}
		switch d.Scope {
		case ScopeItem:
			p.items = append(p.items, d)
		case ScopeOrder:
			p.orders = append(p.orders, d)
		default:
			return nil, fmt.Errorf("discount %s has unknown scope %q", d.ID, d.Scope)
		}
		if d.CouponGated {
			if d.CouponFile == "" {
				return nil, fmt.Errorf("coupon-gated discount %s has no coupon file", d.ID)
			}
			gated = append(gated, d)
		}
	}

	if len(gated) > 0 && loader == nil {
		return nil, fmt.Errorf("a code loader is required for %d coupon-gated discounts", len(gated))
	}

	type loadResult struct {
		set CodeSet
		err error
	}

	results := make([]loadResult, len(gated))
	var wg sync.WaitGroup
	for i, d := range gated {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			set, err := loader.Load(ctx, path)
			results[i] = loadResult{set: set, err: err}
		}(i, d.CouponFile)
	}
	wg.Wait()

	for i, result := range results {
		d := gated[i]
		if result.err != nil {
			logger.Error().
				Err(result.err).
				Str("discount_id", d.ID).
				Str("file", d.CouponFile).
				Msg("failed to load coupon codes")
			return nil, fmt.Errorf("failed to load coupon codes for discount %s: %w", d.ID, result.err)
		}
		p.codes[d.ID] = result.set
	}

	logger.Info().
		Int("item_discounts", len(p.items)).
		Int("order_discounts", len(p.orders)).
		Int("coupon_gated", len(gated)).
		Msg("pricing rules initialised")

	return p, nil
}

// redeems reports whether d applies to a cart holding code.
func (p *Provider) redeems(d Discount, code string) bool {
	if !d.CouponGated {
		return true
	}
	if code == "" {
		return false
	}
	set, ok := p.codes[d.ID]
	return ok && set.Contains(code)
}

// ItemDiscounts returns the discount of every line matched by an item discount.
// Several discounts on one line add up and are capped at the line subtotal.
func (p *Provider) ItemDiscounts(ctx context.Context, snapshot cart.Snapshot) (map[uuid.UUID]decimal.Decimal, error) {
	discounts := make(map[uuid.UUID]decimal.Decimal)

	for _, item := range snapshot.Items {
		subtotal := item.Subtotal()
		total := decimal.Zero
		for _, d := range p.items {
			if d.ProductID != item.ProductID || !p.redeems(d, snapshot.CouponCode) {
				continue
			}
			total = total.Add(d.amountOn(subtotal, item.Units))
		}
		if total.IsPositive() {
			discounts[item.ID] = decimal.Min(total, subtotal)
		}
	}

	return discounts, nil
}

// OrderDiscount returns the order discount yielding the largest amount for the
// snapshot subtotal. On a tie a coupon-gated discount wins so the code counts as used.
func (p *Provider) OrderDiscount(ctx context.Context, snapshot cart.Snapshot, couponCode string) (cart.OrderDiscount, error) {
	var (
		best       *Discount
		bestAmount decimal.Decimal
	)

	for i := range p.orders {
		d := p.orders[i]
		if snapshot.Subtotal.LessThan(d.MinSubtotal) || !p.redeems(d, couponCode) {
			continue
		}
		amount := d.amountOn(snapshot.Subtotal, 0)
		better := best == nil ||
			amount.GreaterThan(bestAmount) ||
			(amount.Equal(bestAmount) && d.CouponGated && !best.CouponGated)
		if better {
			best = &p.orders[i]
			bestAmount = amount
		}
	}

	redeemed := p.couponRedeemed(snapshot, couponCode)
	if couponCode != "" && !redeemed {
		p.logger.Debug().Str("coupon_code", couponCode).Msg("coupon code redeems no discount")
	}

	if best == nil {
		return cart.OrderDiscount{CouponRedeemed: redeemed}, nil
	}

	return cart.OrderDiscount{
		Usable:         true,
		Amount:         best.Value,
		IsPercentage:   best.IsPercentage(),
		CouponGated:    best.CouponGated,
		Name:           best.Name,
		CouponRedeemed: redeemed,
	}, nil
}

// couponRedeemed reports whether code unlocks a coupon-gated discount that applies
// to the snapshot: an item discount on a product in the cart, or an order discount
// whose minimum subtotal is met.
func (p *Provider) couponRedeemed(snapshot cart.Snapshot, code string) bool {
	if code == "" {
		return false
	}
	for _, d := range p.orders {
		if d.CouponGated && !snapshot.Subtotal.LessThan(d.MinSubtotal) && p.redeems(d, code) {
			return true
		}
	}
	for _, d := range p.items {
		if !d.CouponGated || !p.redeems(d, code) {
			continue
		}
		for _, item := range snapshot.Items {
			if item.ProductID == d.ProductID {
				return true
			}
		}
	}
	return false
}
