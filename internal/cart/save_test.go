package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_PersistsState(t *testing.T) {
	f := newFixture()
	c := f.cartWithItem(t, "SKU-TAXED", 2)
	ctx := context.Background()
	require.NoError(t, c.SetBillingAddress(ctx, usaAddress()))
	require.NoError(t, c.SetCouponCode(ctx, orderCouponCode))

	require.NoError(t, c.Save(ctx))

	require.Len(t, f.store.saved, 1)
	saved := f.store.saved[0]
	assert.Equal(t, c.ID(), saved.CartID)
	assert.Equal(t, "USD", saved.Currency)
	require.Len(t, saved.Items, 1)
	assert.Equal(t, 2, saved.Items[0].Units)
	require.NotNil(t, saved.CouponCode)
	assert.Equal(t, orderCouponCode, *saved.CouponCode)
	assert.Equal(t, "Springfield", saved.BillingAddress.City)
	assert.True(t, saved.Totals.Total.Equal(c.TotalPrice()))
}

func TestSave_AssignsAddressIDs(t *testing.T) {
	f := newFixture()
	billingID, shippingID := uuid.New(), uuid.New()
	f.store.result = SaveResult{BillingAddressID: billingID, ShippingAddressID: shippingID}
	c := f.newCart(t)
	ctx := context.Background()
	require.NoError(t, c.SetBillingAddress(ctx, usaAddress()))
	require.NoError(t, c.SetShippingAddress(ctx, usaAddress()))

	require.NoError(t, c.Save(ctx))

	assert.Equal(t, billingID, c.BillingAddress().ID)
	assert.Equal(t, shippingID, c.ShippingAddress().ID)
}

func TestSave_PersistsChangesMadeThroughOwnedAddress(t *testing.T) {
	f := newFixture()
	c := f.newCart(t)
	ctx := context.Background()
	require.NoError(t, c.SetShippingAddress(ctx, usaAddress()))

	c.ShippingAddress().Line1 = "New line1"
	require.NoError(t, c.Save(ctx))

	require.Len(t, f.store.saved, 1)
	assert.Equal(t, "New line1", f.store.saved[0].ShippingAddress.Line1)
}

func TestSave_RecomputesTotalsAfterInPlaceEdit(t *testing.T) {
	f := newFixture()
	c := f.cartWithItem(t, "SKU-TAXED", 1)
	ctx := context.Background()
	require.NoError(t, c.SetBillingAddress(ctx, usaAddress()))
	assertMoney(t, "8.00", c.TotalTax())

	c.BillingAddress().CountryID = "GB"
	require.NoError(t, c.Save(ctx))

	require.Len(t, f.store.saved, 1)
	saved := f.store.saved[0]
	assertMoney(t, "0", saved.Totals.Tax)
	assertMoney(t, "100.00", saved.Totals.Total)
	assertMoney(t, "0", c.TotalTax())
}

func TestSave_RecomputeFailureSkipsPersistence(t *testing.T) {
	f := newFixture()
	c := f.cartWithItem(t, "SKU-TAXED", 1)
	f.catalog.err = errUnavailable

	err := c.Save(context.Background())

	assert.ErrorIs(t, err, ErrCollaborator)
	assert.Empty(t, f.store.saved)
}

func TestSave_UpdatesContactFromCustomer(t *testing.T) {
	f := newFixture()
	f.contacts.contact = &Contact{ID: uuid.New(), LastName: "contactlastname"}
	c := f.newCart(t)
	c.SetCustomer(&Customer{FirstName: "New first name", LastName: "New last name", Email: "new@example.com"})

	require.NoError(t, c.Save(context.Background()))

	assert.True(t, f.contacts.lookedUp)
	assert.Equal(t, "New first name", f.contacts.contact.FirstName)
	assert.Equal(t, "new@example.com", f.contacts.contact.Email)
	assert.Equal(t, "contactlastname", f.contacts.contact.LastName)
}

func TestSave_PassesUserToContactLookup(t *testing.T) {
	f := newFixture()
	f.contacts.contact = &Contact{ID: uuid.New()}
	user := &User{ID: uuid.New(), FirstName: "User", Email: "user@example.com"}
	c := f.newCart(t)
	c.SetUser(user)

	require.NoError(t, c.Save(context.Background()))

	require.NotNil(t, f.contacts.user)
	assert.Equal(t, user.ID, f.contacts.user.ID)
	assert.Equal(t, "User", f.contacts.contact.FirstName)
}

func TestSave_SkipsContactSyncWithoutCustomer(t *testing.T) {
	f := newFixture()
	f.contacts.contact = &Contact{ID: uuid.New(), FirstName: "kept"}
	c := f.newCart(t)

	require.NoError(t, c.Save(context.Background()))

	assert.False(t, f.contacts.lookedUp)
	assert.Equal(t, "kept", f.contacts.contact.FirstName)
}

func TestSave_StoreFailure(t *testing.T) {
	f := newFixture()
	f.store.err = errUnavailable
	f.contacts.contact = &Contact{ID: uuid.New()}
	c := f.newCart(t)
	c.SetCustomer(&Customer{FirstName: "Someone"})

	err := c.Save(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCollaborator)
	assert.ErrorIs(t, err, errUnavailable)
	assert.False(t, f.contacts.lookedUp)
}

func TestSave_ContactLookupFailure(t *testing.T) {
	f := newFixture()
	f.contacts.err = errors.New("contact store down")
	c := f.newCart(t)
	c.SetCustomer(&Customer{FirstName: "Someone"})

	err := c.Save(context.Background())

	assert.ErrorIs(t, err, ErrCollaborator)
	assert.Len(t, f.store.saved, 1)
}

func TestSave_MissingStore(t *testing.T) {
	f := newFixture()
	deps := f.deps()
	deps.Store = nil
	c, err := New(deps, zerolog.Nop())
	require.NoError(t, err)

	assert.ErrorIs(t, c.Save(context.Background()), ErrMissingStore)
}
