package coupon

import (
	"github.com/shopspring/decimal"
)

// Scope says what a discount applies to.
type Scope string

const (
	ScopeOrder Scope = "order"
	ScopeItem  Scope = "item"
)

// Kind says how a discount value is interpreted.
type Kind string

const (
	KindFixed      Kind = "fixed"
	KindPercentage Kind = "percentage"
)

var hundred = decimal.NewFromInt(100)

// Discount is a pricing rule.
//
// Item discounts apply to lines holding ProductID: a fixed value is taken off per
// unit, a percentage off the line subtotal. Order discounts apply to the cart
// subtotal once it reaches MinSubtotal. Coupon-gated discounts only apply when the
// cart's coupon code is in the code set loaded from CouponFile.
type Discount struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Scope       Scope           `json:"scope"`
	Kind        Kind            `json:"kind"`
	Value       decimal.Decimal `json:"value"`
	ProductID   string          `json:"productId,omitempty"`
	MinSubtotal decimal.Decimal `json:"minSubtotal"`
	CouponGated bool            `json:"couponGated"`
	CouponFile  string          `json:"couponFile,omitempty"`
	Active      bool            `json:"active"`
}

// IsPercentage reports whether Value is a percentage.
func (d Discount) IsPercentage() bool {
	return d.Kind == KindPercentage
}

// amountOn returns the discount amount for a base amount and unit count.
func (d Discount) amountOn(base decimal.Decimal, units int) decimal.Decimal {
	if d.IsPercentage() {
		return base.Mul(d.Value).Div(hundred)
	}
	if d.Scope == ScopeItem {
		return d.Value.Mul(decimal.NewFromInt(int64(units)))
	}
	return d.Value
}
