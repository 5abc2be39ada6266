package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one product in the cart.
type LineItem struct {
	ID        uuid.UUID       `json:"id"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Units     int             `json:"units"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	// Discount is the per-item discount of the last recomputation.
	Discount         decimal.Decimal `json:"discount"`
	RequiresShipping bool            `json:"requiresShipping"`
	TaxClass         string          `json:"taxClass,omitempty"`
}

// Subtotal is the unit price times the unit count.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Units)))
}

// Total is the subtotal less the per-item discount.
func (li LineItem) Total() decimal.Decimal {
	return li.Subtotal().Sub(li.Discount)
}

// Taxable reports whether the item belongs to a tax class.
func (li LineItem) Taxable() bool {
	return li.TaxClass != ""
}

func (li *LineItem) refresh(p *Product) {
	li.Name = p.Name
	li.UnitPrice = p.UnitPrice
	li.RequiresShipping = p.RequiresShipping
	li.TaxClass = p.TaxClass
}

func newLineItem(p *Product, units int) *LineItem {
	item := &LineItem{
		ID:        uuid.New(),
		ProductID: p.ID,
		Units:     units,
		Discount:  decimal.Zero,
	}
	item.refresh(p)
	return item
}
