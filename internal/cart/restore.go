package cart

import (
	"context"

	"github.com/rs/zerolog"
)

// Restore rebuilds a cart from a persisted state and recomputes its totals
// against the current catalog and rules. The totals stored in st are ignored.
func Restore(ctx context.Context, st State, deps Dependencies, logger zerolog.Logger) (*Cart, error) {
	c, err := newCart(st.CartID, deps, logger)
	if err != nil {
		return nil, err
	}

	c.SetUser(st.User)
	c.SetCustomer(st.Customer)

	next := &state{
		items:          make([]*LineItem, 0, len(st.Items)),
		billing:        st.BillingAddress.Clone(),
		shipping:       st.ShippingAddress.Clone(),
		paymentMethod:  copyPaymentMethod(st.PaymentMethod),
		shippingOption: copyShippingOption(st.ShippingOption),
		totals:         zeroTotals(),
	}
	for _, item := range st.Items {
		if item.Units <= 0 {
			continue
		}
		copied := item
		next.items = append(next.items, &copied)
	}
	if st.CouponCode != nil && *st.CouponCode != "" {
		code := *st.CouponCode
		next.couponCode = &code
	}

	if err := c.recompute(ctx, next); err != nil {
		return nil, err
	}
	c.state = next

	c.logger.Debug().Int("item_count", len(next.items)).Msg("cart restored")
	return c, nil
}

func copyShippingOption(option *ShippingOption) *ShippingOption {
	if option == nil {
		return nil
	}
	copied := *option
	return &copied
}

func copyPaymentMethod(method *PaymentMethod) *PaymentMethod {
	if method == nil {
		return nil
	}
	copied := *method
	return &copied
}
