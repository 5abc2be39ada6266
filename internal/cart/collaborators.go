package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog view of a sellable SKU.
type Product struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
	Sellable  bool
	// MaxUnits is the per-cart ceiling for limited products. Zero means unlimited.
	MaxUnits         int
	RequiresShipping bool
	// TaxClass is empty for products that are not taxable.
	TaxClass string
}

// Taxable reports whether the product belongs to a tax class.
func (p *Product) Taxable() bool {
	return p.TaxClass != ""
}

// CatalogLookup resolves product identifiers to their current sellable state.
type CatalogLookup interface {
	// Resolve returns nil, nil when the product does not exist.
	Resolve(ctx context.Context, productID string) (*Product, error)
}

// Snapshot is the read-only cart view handed to rule providers.
type Snapshot struct {
	CartID uuid.UUID
	Items  []LineItem
	// Subtotal is the sum of line totals after per-item discounts.
	Subtotal        decimal.Decimal
	BillingAddress  *CustomerAddress
	ShippingAddress *CustomerAddress
	ShippingOption  *ShippingOption
	CouponCode      string
}

// ShippableItems returns the items whose product requires shipping.
func (s Snapshot) ShippableItems() []LineItem {
	var items []LineItem
	for _, item := range s.Items {
		if item.RequiresShipping {
			items = append(items, item)
		}
	}
	return items
}

// OrderDiscount is the answer of a pricing rule provider for the order level.
type OrderDiscount struct {
	Usable bool
	// Amount is a money value, or a percentage of the subtotal when IsPercentage is set.
	Amount       decimal.Decimal
	IsPercentage bool
	// CouponGated is set when the usable discount was redeemed by the coupon code.
	CouponGated bool
	Name        string
	// CouponRedeemed is set when the coupon code redeems at least one applicable
	// coupon-gated discount, item or order scoped, whether or not it is the one returned.
	CouponRedeemed bool
}

// PricingRuleProvider answers which discounts apply to a cart.
type PricingRuleProvider interface {
	// ItemDiscounts returns the discount amount per line item id.
	ItemDiscounts(ctx context.Context, snapshot Snapshot) (map[uuid.UUID]decimal.Decimal, error)

	// OrderDiscount returns the order-level discount usable with the given coupon code.
	// An empty code means no coupon was supplied.
	OrderDiscount(ctx context.Context, snapshot Snapshot, couponCode string) (OrderDiscount, error)
}

// TaxableItem is a line item amount subject to tax.
type TaxableItem struct {
	LineItemID uuid.UUID
	ProductID  string
	TaxClass   string
	Units      int
	Amount     decimal.Decimal
}

// TaxRuleProvider computes tax for a billing address.
type TaxRuleProvider interface {
	ComputeTax(ctx context.Context, billing CustomerAddress, items []TaxableItem) (decimal.Decimal, error)
}

// ShippingRateProvider computes the shipping cost of a cart for the selected option.
type ShippingRateProvider interface {
	ComputeShipping(ctx context.Context, option ShippingOption, snapshot Snapshot) (decimal.Decimal, error)
}

// SaveResult carries the identifiers assigned by the persistence adapter.
type SaveResult struct {
	BillingAddressID  uuid.UUID
	ShippingAddressID uuid.UUID
}

// PersistenceAdapter writes cart state to a backing store.
type PersistenceAdapter interface {
	Save(ctx context.Context, state State) (SaveResult, error)
}

// Contact is a marketing contact linked to the shopper.
type Contact struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
}

// ContactResolver finds the current contact and updates the fields the cart owns.
type ContactResolver interface {
	// CurrentContact returns the contact for the user, or for the anonymous cart session
	// when user is nil. It may return nil, nil when no contact can be resolved.
	CurrentContact(ctx context.Context, user *User, cartID uuid.UUID) (*Contact, error)

	// UpdateContactFields overwrites the first name and email of a contact.
	UpdateContactFields(ctx context.Context, contactID uuid.UUID, firstName, email string) error
}

// ActivityRecorder receives shopper activities such as products added to the cart.
type ActivityRecorder interface {
	Record(ctx context.Context, activity Activity) error
}
