package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderCouponCode = "OrderCouponCode"

var errUnavailable = errors.New("provider unavailable")

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, money(want).Equal(got), "expected %s, got %s", want, got.String())
}

// fakeCatalog is an in-memory catalog whose products can be changed between calls.
type fakeCatalog struct {
	products map[string]*Product
	err      error
	calls    int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]*Product{
		"SKU-AVAILABLE": {ID: "SKU-AVAILABLE", Name: "Available product", UnitPrice: money("10.00"), Sellable: true, RequiresShipping: true},
		"SKU-LIMITED":   {ID: "SKU-LIMITED", Name: "Limited product", UnitPrice: money("25.00"), Sellable: true, MaxUnits: 10, RequiresShipping: true},
		"SKU-DISABLED":  {ID: "SKU-DISABLED", Name: "Disabled product", UnitPrice: money("5.00"), Sellable: false, RequiresShipping: true},
		"SKU-TAXED":     {ID: "SKU-TAXED", Name: "Taxed product", UnitPrice: money("100.00"), Sellable: true, RequiresShipping: true, TaxClass: "standard"},
		"SKU-DIGITAL":   {ID: "SKU-DIGITAL", Name: "Digital product", UnitPrice: money("15.00"), Sellable: true},
	}}
}

func (f *fakeCatalog) Resolve(ctx context.Context, productID string) (*Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[productID]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

// fakePricing grants a percentage order discount for one coupon code and fixed
// per-unit discounts for configured products.
type fakePricing struct {
	couponCode    string
	couponPercent decimal.Decimal
	perUnit       map[string]decimal.Decimal
	err           error
	lastCode      string
}

func newFakePricing() *fakePricing {
	return &fakePricing{
		couponCode:    orderCouponCode,
		couponPercent: money("10"),
		perUnit:       map[string]decimal.Decimal{},
	}
}

func (f *fakePricing) ItemDiscounts(ctx context.Context, snapshot Snapshot) (map[uuid.UUID]decimal.Decimal, error) {
	if f.err != nil {
		return nil, f.err
	}
	discounts := make(map[uuid.UUID]decimal.Decimal)
	for _, item := range snapshot.Items {
		if amount, ok := f.perUnit[item.ProductID]; ok {
			discounts[item.ID] = amount.Mul(decimal.NewFromInt(int64(item.Units)))
		}
	}
	return discounts, nil
}

func (f *fakePricing) OrderDiscount(ctx context.Context, snapshot Snapshot, couponCode string) (OrderDiscount, error) {
	f.lastCode = couponCode
	if f.err != nil {
		return OrderDiscount{}, f.err
	}
	if couponCode == "" || couponCode != f.couponCode {
		return OrderDiscount{}, nil
	}
	return OrderDiscount{
		Usable:         true,
		Amount:         f.couponPercent,
		IsPercentage:   true,
		CouponGated:    true,
		Name:           "Order coupon",
		CouponRedeemed: true,
	}, nil
}

// fakeTax charges a flat percentage for US billing addresses.
type fakeTax struct {
	rate  decimal.Decimal
	err   error
	calls int
}

func (f *fakeTax) ComputeTax(ctx context.Context, billing CustomerAddress, items []TaxableItem) (decimal.Decimal, error) {
	f.calls++
	if f.err != nil {
		return decimal.Zero, f.err
	}
	if billing.CountryID != "US" {
		return decimal.Zero, nil
	}
	tax := decimal.Zero
	for _, item := range items {
		tax = tax.Add(item.Amount.Mul(f.rate).Div(hundred))
	}
	return tax, nil
}

// fakeShipping charges a base cost plus a cost per shippable unit.
type fakeShipping struct {
	base    decimal.Decimal
	perUnit decimal.Decimal
	err     error
}

func (f *fakeShipping) ComputeShipping(ctx context.Context, option ShippingOption, snapshot Snapshot) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	cost := f.base
	for _, item := range snapshot.ShippableItems() {
		cost = cost.Add(f.perUnit.Mul(decimal.NewFromInt(int64(item.Units))))
	}
	return cost, nil
}

type fakeStore struct {
	saved  []State
	result SaveResult
	err    error
}

func (f *fakeStore) Save(ctx context.Context, state State) (SaveResult, error) {
	if f.err != nil {
		return SaveResult{}, f.err
	}
	f.saved = append(f.saved, state)
	return f.result, nil
}

type fakeContacts struct {
	contact  *Contact
	err      error
	lookedUp bool
	user     *User
}

func (f *fakeContacts) CurrentContact(ctx context.Context, user *User, cartID uuid.UUID) (*Contact, error) {
	f.lookedUp = true
	f.user = user
	if f.err != nil {
		return nil, f.err
	}
	return f.contact, nil
}

func (f *fakeContacts) UpdateContactFields(ctx context.Context, contactID uuid.UUID, firstName, email string) error {
	if f.contact == nil || f.contact.ID != contactID {
		return errors.New("unknown contact")
	}
	f.contact.FirstName = firstName
	f.contact.Email = email
	return nil
}

type fakeActivity struct {
	activities []Activity
	err        error
}

func (f *fakeActivity) Record(ctx context.Context, activity Activity) error {
	if f.err != nil {
		return f.err
	}
	f.activities = append(f.activities, activity)
	return nil
}

type fixture struct {
	catalog  *fakeCatalog
	pricing  *fakePricing
	tax      *fakeTax
	shipping *fakeShipping
	store    *fakeStore
	contacts *fakeContacts
	activity *fakeActivity
}

func newFixture() *fixture {
	return &fixture{
		catalog:  newFakeCatalog(),
		pricing:  newFakePricing(),
		tax:      &fakeTax{rate: money("8")},
		shipping: &fakeShipping{base: money("5.00"), perUnit: money("1.00")},
		store:    &fakeStore{},
		contacts: &fakeContacts{},
		activity: &fakeActivity{},
	}
}

func (f *fixture) deps() Dependencies {
	return Dependencies{
		Catalog:  f.catalog,
		Pricing:  f.pricing,
		Tax:      f.tax,
		Shipping: f.shipping,
		Store:    f.store,
		Contacts: f.contacts,
		Activity: f.activity,
	}
}

func (f *fixture) newCart(t *testing.T) *Cart {
	t.Helper()
	c, err := New(f.deps(), zerolog.Nop())
	require.NoError(t, err)
	return c
}

func (f *fixture) cartWithItem(t *testing.T, productID string, units int) *Cart {
	t.Helper()
	c := f.newCart(t)
	require.NoError(t, c.AddItem(context.Background(), productID, units))
	return c
}

func usaAddress() *CustomerAddress {
	return &CustomerAddress{
		PersonalName: "Jane Doe",
		Line1:        "1 Main Street",
		Line2:        "Suite 2",
		City:         "Springfield",
		PostalCode:   "12345",
		CountryID:    "US",
		StateID:      "IL",
	}
}

// assertTotalsConsistent checks that the grand total is derived from its parts.
func assertTotalsConsistent(t *testing.T, c *Cart) {
	t.Helper()
	totals := c.Totals()
	expected := totals.Subtotal.Sub(totals.OrderDiscount).Add(totals.Tax).Add(totals.Shipping)
	assert.True(t, expected.Equal(totals.Total), "total %s does not match parts %s", totals.Total, expected)

	sum := decimal.Zero
	for _, item := range c.Items() {
		assert.Greater(t, item.Units, 0, "line item with non-positive units")
		sum = sum.Add(item.Total())
	}
	assert.True(t, sum.Equal(totals.Subtotal), "subtotal %s does not match items %s", totals.Subtotal, sum)
	assert.Equal(t, len(c.Items()) == 0, c.IsEmpty())
}
