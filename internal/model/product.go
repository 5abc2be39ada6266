package model

import (
	"kart-engine/internal/cart"

	"github.com/shopspring/decimal"
)

// Product is the catalog entry returned by the product API.
type Product struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Sellable         bool            `json:"sellable"`
	MaxUnits         int             `json:"maxUnits,omitempty"`
	RequiresShipping bool            `json:"requiresShipping"`
	TaxClass         string          `json:"taxClass,omitempty"`
}

// NewProduct converts a catalog product.
func NewProduct(p cart.Product) Product {
	return Product{
		ID:               p.ID,
		Name:             p.Name,
		UnitPrice:        p.UnitPrice,
		Sellable:         p.Sellable,
		MaxUnits:         p.MaxUnits,
		RequiresShipping: p.RequiresShipping,
		TaxClass:         p.TaxClass,
	}
}
