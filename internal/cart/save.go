package cart

import (
	"context"

	"github.com/google/uuid"
)

// Save recomputes the totals, persists the cart and then synchronizes the current
// contact with the customer. Contact synchronization only starts after persistence
// succeeded. Only the contact's first name and email are updated; the last name is
// left as it is.
func (c *Cart) Save(ctx context.Context) error {
	if c.deps.Store == nil {
		return ErrMissingStore
	}

	// Owned addresses may have been edited in place since the last recompute.
	if err := c.Recalculate(ctx); err != nil {
		return err
	}

	result, err := c.deps.Store.Save(ctx, c.State())
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to persist cart")
		return collaboratorError("cart persistence", err)
	}

	if c.state.billing != nil && result.BillingAddressID != uuid.Nil {
		c.state.billing.ID = result.BillingAddressID
	}
	if c.state.shipping != nil && result.ShippingAddressID != uuid.Nil {
		c.state.shipping.ID = result.ShippingAddressID
	}

	c.logger.Debug().
		Int("item_count", len(c.state.items)).
		Msg("cart persisted")

	return c.syncContact(ctx)
}

func (c *Cart) syncContact(ctx context.Context) error {
	if c.deps.Contacts == nil {
		return nil
	}

	customer := c.Customer()
	if customer == nil {
		return nil
	}

	contact, err := c.deps.Contacts.CurrentContact(ctx, c.User(), c.id)
	if err != nil {
		return collaboratorError("contact resolver", err)
	}
	if contact == nil {
		c.logger.Debug().Msg("no current contact, skipping contact sync")
		return nil
	}

	if err := c.deps.Contacts.UpdateContactFields(ctx, contact.ID, customer.FirstName, customer.Email); err != nil {
		return collaboratorError("contact resolver", err)
	}

	c.logger.Debug().
		Str("contact_id", contact.ID.String()).
		Msg("contact synchronized with customer")
	return nil
}
