package cart

import (
	"context"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// recompute derives every total of s from its line items and the current answers
// of the collaborators. Nothing is carried over from the previous totals.
func (c *Cart) recompute(ctx context.Context, s *state) error {
	places := c.deps.Currency.Places

	// Line items always reflect the live catalog price and flags.
	for _, item := range s.items {
		product, err := c.deps.Catalog.Resolve(ctx, item.ProductID)
		if err != nil {
			return collaboratorError("catalog lookup", err)
		}
		if product != nil {
			item.refresh(product)
		}
		item.Discount = decimal.Zero
	}

	totals := zeroTotals()
	couponCode := ""
	if s.couponCode != nil {
		couponCode = *s.couponCode
	}

	if c.deps.Pricing != nil && len(s.items) > 0 {
		discounts, err := c.deps.Pricing.ItemDiscounts(ctx, c.snapshot(s))
		if err != nil {
			return collaboratorError("pricing rules", err)
		}
		for _, item := range s.items {
			item.Discount = clamp(discounts[item.ID].Round(places), decimal.Zero, item.Subtotal())
			totals.ItemDiscount = totals.ItemDiscount.Add(item.Discount)
		}
	}

	for _, item := range s.items {
		totals.Subtotal = totals.Subtotal.Add(item.Total())
	}

	usable := false
	if c.deps.Pricing != nil && len(s.items) > 0 {
		discount, err := c.deps.Pricing.OrderDiscount(ctx, c.snapshot(s), couponCode)
		if err != nil {
			return collaboratorError("pricing rules", err)
		}
		if discount.Usable {
			amount := discount.Amount
			if discount.IsPercentage {
				amount = totals.Subtotal.Mul(discount.Amount).Div(hundred)
			}
			totals.OrderDiscount = clamp(amount.Round(places), decimal.Zero, totals.Subtotal)
		}
		usable = discount.CouponRedeemed && couponCode != ""
	}

	taxable := taxableItems(s.items)
	if c.deps.Tax != nil && s.billing != nil && len(taxable) > 0 {
		tax, err := c.deps.Tax.ComputeTax(ctx, *s.billing, taxable)
		if err != nil {
			return collaboratorError("tax rules", err)
		}
		totals.Tax = decimal.Max(tax.Round(places), decimal.Zero)
	}

	if c.deps.Shipping != nil && s.shippingOption != nil && shippingNeeded(s.items) {
		cost, err := c.deps.Shipping.ComputeShipping(ctx, *s.shippingOption, c.snapshot(s))
		if err != nil {
			return collaboratorError("shipping rates", err)
		}
		totals.Shipping = decimal.Max(cost.Round(places), decimal.Zero)
	}

	totals.Total = totals.Subtotal.
		Sub(totals.OrderDiscount).
		Add(totals.Tax).
		Add(totals.Shipping)

	s.totals = totals
	s.couponUsable = usable
	return nil
}

func (c *Cart) snapshot(s *state) Snapshot {
	items := make([]LineItem, len(s.items))
	subtotal := decimal.Zero
	for i, item := range s.items {
		items[i] = *item
		subtotal = subtotal.Add(item.Total())
	}

	var option *ShippingOption
	if s.shippingOption != nil {
		copied := *s.shippingOption
		option = &copied
	}

	code := ""
	if s.couponCode != nil {
		code = *s.couponCode
	}

	return Snapshot{
		CartID:          c.id,
		Items:           items,
		Subtotal:        subtotal,
		BillingAddress:  s.billing.Clone(),
		ShippingAddress: s.shipping.Clone(),
		ShippingOption:  option,
		CouponCode:      code,
	}
}

func taxableItems(items []*LineItem) []TaxableItem {
	var taxable []TaxableItem
	for _, item := range items {
		if !item.Taxable() {
			continue
		}
		taxable = append(taxable, TaxableItem{
			LineItemID: item.ID,
			ProductID:  item.ProductID,
			TaxClass:   item.TaxClass,
			Units:      item.Units,
			Amount:     item.Total(),
		})
	}
	return taxable
}

func shippingNeeded(items []*LineItem) bool {
	for _, item := range items {
		if item.RequiresShipping {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
