package cart

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Dependencies are the collaborators a cart consults.
// Only Catalog is mandatory; a missing rule provider contributes nothing to the totals.
type Dependencies struct {
	Catalog CatalogLookup
	// LiveCatalog bypasses any cache in front of Catalog. Validation reads it
	// when set, so a product disabled in the catalog fails immediately.
	LiveCatalog CatalogLookup
	Pricing     PricingRuleProvider
	Tax         TaxRuleProvider
	Shipping    ShippingRateProvider
	Store       PersistenceAdapter
	Contacts    ContactResolver
	Activity    ActivityRecorder
	Currency    Currency
}

// Cart is a shopper's mutable working set of line items.
// A Cart is owned by a single session and is not safe for concurrent use.
type Cart struct {
	id     uuid.UUID
	deps   Dependencies
	logger zerolog.Logger
	now    func() time.Time

	user     *User
	customer *Customer
	state    *state
}

// state holds everything a recomputation reads and writes.
type state struct {
	items          []*LineItem
	billing        *CustomerAddress
	shipping       *CustomerAddress
	shippingOption *ShippingOption
	paymentMethod  *PaymentMethod
	couponCode     *string
	totals         Totals
	couponUsable   bool
}

func (s *state) clone() *state {
	next := *s
	next.items = make([]*LineItem, len(s.items))
	for i, item := range s.items {
		copied := *item
		next.items[i] = &copied
	}
	return &next
}

func (s *state) find(id uuid.UUID) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s *state) findProduct(productID string) int {
	for i, item := range s.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// New creates an empty cart.
func New(deps Dependencies, logger zerolog.Logger) (*Cart, error) {
	return newCart(uuid.New(), deps, logger)
}

// NewWithID creates an empty cart with a known identifier.
func NewWithID(id uuid.UUID, deps Dependencies, logger zerolog.Logger) (*Cart, error) {
	return newCart(id, deps, logger)
}

func newCart(id uuid.UUID, deps Dependencies, logger zerolog.Logger) (*Cart, error) {
	if deps.Catalog == nil {
		return nil, ErrMissingCatalog
	}
	if deps.Currency.Code == "" {
		deps.Currency = DefaultCurrency()
	}

	return &Cart{
		id:   id,
		deps: deps,
		logger: logger.With().
			Str("component", "cart").
			Str("cart_id", id.String()).
			Logger(),
		now:   time.Now,
		state: &state{totals: zeroTotals()},
	}, nil
}

// ID returns the cart identifier.
func (c *Cart) ID() uuid.UUID {
	return c.id
}

// Currency returns the currency the cart operates in.
func (c *Cart) Currency() Currency {
	return c.deps.Currency
}

// mutate applies fn to a copy of the current state, recomputes the totals of the
// copy and commits it only if the recomputation succeeds. fn returns false for a no-op.
func (c *Cart) mutate(ctx context.Context, fn func(s *state) bool) error {
	next := c.state.clone()
	if !fn(next) {
		return nil
	}

	if err := c.recompute(ctx, next); err != nil {
		c.logger.Error().Err(err).Msg("cart recomputation failed, keeping previous state")
		return err
	}

	c.state = next
	return nil
}

// AddItem adds units of a product, or increases the units of the line already holding it.
// Unknown products and non-positive units are ignored.
func (c *Cart) AddItem(ctx context.Context, productID string, units int) error {
	if units <= 0 || strings.TrimSpace(productID) == "" {
		c.logger.Debug().
			Str("product_id", productID).
			Int("units", units).
			Msg("ignoring add item request")
		return nil
	}

	product, err := c.deps.Catalog.Resolve(ctx, productID)
	if err != nil {
		return collaboratorError("catalog lookup", err)
	}
	if product == nil {
		c.logger.Debug().Str("product_id", productID).Msg("product not found, nothing added")
		return nil
	}

	err = c.mutate(ctx, func(s *state) bool {
		if i := s.findProduct(product.ID); i >= 0 {
			s.items[i].Units += units
			return true
		}
		s.items = append(s.items, newLineItem(product, units))
		return true
	})
	if err != nil {
		return err
	}

	c.logger.Debug().
		Str("product_id", product.ID).
		Int("units", units).
		Msg("item added to cart")

	c.record(ctx, ActivityProductAdded, product.ID, product.Name, units)
	return nil
}

// UpdateQuantity sets the unit count of a line item. Non-positive units remove the line.
// Unknown line items are ignored.
func (c *Cart) UpdateQuantity(ctx context.Context, lineItemID uuid.UUID, units int) error {
	i := c.state.find(lineItemID)
	if i < 0 {
		c.logger.Debug().Str("line_item_id", lineItemID.String()).Msg("line item not found, nothing updated")
		return nil
	}
	if units <= 0 {
		return c.RemoveItem(ctx, lineItemID)
	}

	return c.mutate(ctx, func(s *state) bool {
		s.items[i].Units = units
		return true
	})
}

// RemoveItem removes a line item. Unknown line items are ignored.
func (c *Cart) RemoveItem(ctx context.Context, lineItemID uuid.UUID) error {
	i := c.state.find(lineItemID)
	if i < 0 {
		return nil
	}
	removed := *c.state.items[i]

	err := c.mutate(ctx, func(s *state) bool {
		s.items = append(s.items[:i], s.items[i+1:]...)
		return true
	})
	if err != nil {
		return err
	}

	c.record(ctx, ActivityProductRemoved, removed.ProductID, removed.Name, removed.Units)
	return nil
}

// RemoveAllItems empties the cart.
func (c *Cart) RemoveAllItems(ctx context.Context) error {
	removed := c.Items()

	err := c.mutate(ctx, func(s *state) bool {
		s.items = nil
		return true
	})
	if err != nil {
		return err
	}

	for _, item := range removed {
		c.record(ctx, ActivityProductRemoved, item.ProductID, item.Name, item.Units)
	}
	return nil
}

// SetCouponCode stores a coupon code. A blank code clears the coupon.
// The code is not checked here; an unknown code simply yields no discount.
func (c *Cart) SetCouponCode(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)

	return c.mutate(ctx, func(s *state) bool {
		if code == "" {
			s.couponCode = nil
		} else {
			s.couponCode = &code
		}
		return true
	})
}

// CouponCode returns the stored coupon code, or "" when none is set.
func (c *Cart) CouponCode() string {
	if c.state.couponCode == nil {
		return ""
	}
	return *c.state.couponCode
}

// HasCouponCode reports whether a coupon code is stored.
func (c *Cart) HasCouponCode() bool {
	return c.state.couponCode != nil
}

// HasUsableCoupon reports whether the stored code redeems an active coupon-gated discount.
func (c *Cart) HasUsableCoupon() bool {
	return c.state.couponUsable
}

// SetBillingAddress stores a copy of addr as the billing address. Nil clears it.
func (c *Cart) SetBillingAddress(ctx context.Context, addr *CustomerAddress) error {
	owned := addr.Clone()
	return c.mutate(ctx, func(s *state) bool {
		s.billing = owned
		return true
	})
}

// BillingAddress returns the address instance owned by the cart.
// Changes made through it are picked up by the next recomputation and by Save.
func (c *Cart) BillingAddress() *CustomerAddress {
	return c.state.billing
}

// SetShippingAddress stores a copy of addr as the shipping address. Nil clears it.
func (c *Cart) SetShippingAddress(ctx context.Context, addr *CustomerAddress) error {
	owned := addr.Clone()
	return c.mutate(ctx, func(s *state) bool {
		s.shipping = owned
		return true
	})
}

// ShippingAddress returns the address instance owned by the cart.
func (c *Cart) ShippingAddress() *CustomerAddress {
	return c.state.shipping
}

// SetShippingOption selects a shipping option and recomputes the shipping cost. Nil clears it.
func (c *Cart) SetShippingOption(ctx context.Context, option *ShippingOption) error {
	var selected *ShippingOption
	if option != nil {
		copied := *option
		selected = &copied
	}
	return c.mutate(ctx, func(s *state) bool {
		s.shippingOption = selected
		return true
	})
}

// ShippingOption returns the selected shipping option, or nil.
func (c *Cart) ShippingOption() *ShippingOption {
	if c.state.shippingOption == nil {
		return nil
	}
	option := *c.state.shippingOption
	return &option
}

// SetPaymentMethod selects a payment method. Nil clears it.
func (c *Cart) SetPaymentMethod(method *PaymentMethod) {
	if method == nil {
		c.state.paymentMethod = nil
		return
	}
	copied := *method
	c.state.paymentMethod = &copied
}

// PaymentMethod returns the selected payment method, or nil.
func (c *Cart) PaymentMethod() *PaymentMethod {
	if c.state.paymentMethod == nil {
		return nil
	}
	method := *c.state.paymentMethod
	return &method
}

// SetUser associates a registered user with the cart.
func (c *Cart) SetUser(user *User) {
	if user == nil {
		c.user = nil
		return
	}
	copied := *user
	c.user = &copied
}

// User returns the associated user, or nil for anonymous carts.
func (c *Cart) User() *User {
	if c.user == nil {
		return nil
	}
	user := *c.user
	return &user
}

// SetCustomer stores explicit customer details, e.g. for anonymous checkout.
func (c *Cart) SetCustomer(customer *Customer) {
	if customer == nil {
		c.customer = nil
		return
	}
	copied := *customer
	c.customer = &copied
}

// Customer returns the explicit customer, or one derived from the associated user.
func (c *Cart) Customer() *Customer {
	if c.customer != nil {
		customer := *c.customer
		return &customer
	}
	if c.user != nil {
		return &Customer{
			Email:     c.user.Email,
			FirstName: c.user.FirstName,
			LastName:  c.user.LastName,
		}
	}
	return nil
}

// Recalculate recomputes the totals from the current state, e.g. after an owned
// address was changed in place.
func (c *Cart) Recalculate(ctx context.Context) error {
	return c.mutate(ctx, func(s *state) bool { return true })
}

// Items returns a copy of the current line items in insertion order.
func (c *Cart) Items() []LineItem {
	items := make([]LineItem, len(c.state.items))
	for i, item := range c.state.items {
		items[i] = *item
	}
	return items
}

// Item returns a copy of the line item with the given id.
func (c *Cart) Item(id uuid.UUID) (LineItem, bool) {
	i := c.state.find(id)
	if i < 0 {
		return LineItem{}, false
	}
	return *c.state.items[i], true
}

// IsEmpty reports whether the cart holds no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.state.items) == 0
}

// IsShippingNeeded reports whether any line item requires shipping.
func (c *Cart) IsShippingNeeded() bool {
	return shippingNeeded(c.state.items)
}

// Totals returns the derived totals of the last recomputation.
func (c *Cart) Totals() Totals {
	return c.state.totals
}

// Subtotal is the sum of line totals after per-item discounts.
func (c *Cart) Subtotal() decimal.Decimal {
	return c.state.totals.Subtotal
}

// OrderDiscount is the order-level discount applied to the subtotal.
func (c *Cart) OrderDiscount() decimal.Decimal {
	return c.state.totals.OrderDiscount
}

// TotalTax is the tax of the cart.
func (c *Cart) TotalTax() decimal.Decimal {
	return c.state.totals.Tax
}

// Shipping is the shipping cost of the cart.
func (c *Cart) Shipping() decimal.Decimal {
	return c.state.totals.Shipping
}

// TotalPrice is the grand total.
func (c *Cart) TotalPrice() decimal.Decimal {
	return c.state.totals.Total
}

// State returns the persistable view of the cart.
func (c *Cart) State() State {
	var code *string
	if c.state.couponCode != nil {
		copied := *c.state.couponCode
		code = &copied
	}

	return State{
		CartID:          c.id,
		Currency:        c.deps.Currency.Code,
		User:            c.User(),
		Customer:        c.Customer(),
		Items:           c.Items(),
		BillingAddress:  c.state.billing.Clone(),
		ShippingAddress: c.state.shipping.Clone(),
		ShippingOption:  c.ShippingOption(),
		PaymentMethod:   c.PaymentMethod(),
		CouponCode:      code,
		Totals:          c.state.totals,
	}
}

func (c *Cart) record(ctx context.Context, kind ActivityType, productID, title string, units int) {
	if c.deps.Activity == nil {
		return
	}

	activity := Activity{
		Type:       kind,
		CartID:     c.id,
		ItemID:     productID,
		Title:      title,
		Value:      strconv.Itoa(units),
		OccurredAt: c.now().UTC(),
	}
	if c.user != nil {
		userID := c.user.ID
		activity.UserID = &userID
	}

	if err := c.deps.Activity.Record(ctx, activity); err != nil {
		c.logger.Warn().
			Err(err).
			Str("activity", string(kind)).
			Str("product_id", productID).
			Msg("failed to record activity")
	}
}
