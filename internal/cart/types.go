package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingOption is the shipping method selected for the cart.
type ShippingOption struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// PaymentMethod is the payment option selected for the cart.
type PaymentMethod struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// User is a registered site user associated with the cart.
type User struct {
	ID        uuid.UUID `json:"id"`
	UserName  string    `json:"userName,omitempty"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

// Customer holds the profile fields of the shopper.
type Customer struct {
	ID        uuid.UUID `json:"id,omitempty"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
}

// Currency is the single currency a cart operates in.
type Currency struct {
	Code string
	// Places is the number of decimal places money values are rounded to.
	Places int32
}

// DefaultCurrency returns USD with two decimal places.
func DefaultCurrency() Currency {
	return Currency{Code: "USD", Places: 2}
}

// Totals are the derived money values of a cart.
type Totals struct {
	// Subtotal is the sum of line totals after per-item discounts.
	Subtotal      decimal.Decimal `json:"subtotal"`
	ItemDiscount  decimal.Decimal `json:"itemDiscount"`
	OrderDiscount decimal.Decimal `json:"orderDiscount"`
	Tax           decimal.Decimal `json:"tax"`
	Shipping      decimal.Decimal `json:"shipping"`
	Total         decimal.Decimal `json:"total"`
}

func zeroTotals() Totals {
	return Totals{
		Subtotal:      decimal.Zero,
		ItemDiscount:  decimal.Zero,
		OrderDiscount: decimal.Zero,
		Tax:           decimal.Zero,
		Shipping:      decimal.Zero,
		Total:         decimal.Zero,
	}
}

// State is the persistable view of a cart.
type State struct {
	CartID          uuid.UUID
	Currency        string
	User            *User
	Customer        *Customer
	Items           []LineItem
	BillingAddress  *CustomerAddress
	ShippingAddress *CustomerAddress
	ShippingOption  *ShippingOption
	PaymentMethod   *PaymentMethod
	CouponCode      *string
	Totals          Totals
}

// ActivityType names a shopper activity.
type ActivityType string

const (
	ActivityProductAdded   ActivityType = "product_added_to_shopping_cart"
	ActivityProductRemoved ActivityType = "product_removed_from_shopping_cart"
)

// Activity is a shopper action recorded for analytics.
type Activity struct {
	Type   ActivityType `json:"type"`
	CartID uuid.UUID    `json:"cartId"`
	UserID *uuid.UUID   `json:"userId,omitempty"`
	// ItemID is the product identifier.
	ItemID     string    `json:"itemId"`
	Title      string    `json:"title"`
	Value      string    `json:"value"`
	OccurredAt time.Time `json:"occurredAt"`
}
