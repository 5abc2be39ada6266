package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kart-engine/internal/cart"
	"kart-engine/internal/metrics"
	"kart-engine/internal/model"
	"kart-engine/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService on top of the session store.
type cartService struct {
	store    *Store
	shipping repository.ShippingOptionRepository
	payments repository.PaymentMethodRepository
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	store *Store,
	shipping repository.ShippingOptionRepository,
	payments repository.PaymentMethodRepository,
	m *metrics.Metrics,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		store:    store,
		shipping: shipping,
		payments: payments,
		metrics:  m,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// Create starts a new cart.
func (s *cartService) Create(ctx context.Context, user *cart.User) (*model.CartResponse, error) {
	c, err := s.store.Create(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("cart_id", c.ID().String()).Bool("registered", user != nil).Msg("cart created")
	return model.NewCartResponse(c), nil
}

// Get returns the current view of a cart.
func (s *cartService) Get(ctx context.Context, id uuid.UUID) (*model.CartResponse, error) {
	return s.view(ctx, id, nil)
}

// AddItem adds units of a product. Unknown products leave the cart unchanged.
func (s *cartService) AddItem(ctx context.Context, id uuid.UUID, req model.AddItemRequest) (*model.CartResponse, error) {
	if req.Units <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	return s.view(ctx, id, func(c *cart.Cart) error {
		before := countUnits(c)
		if err := c.AddItem(ctx, req.ProductID, req.Units); err != nil {
			return err
		}
		if s.metrics != nil {
			s.metrics.UnitsAdded(countUnits(c) - before)
		}
		return nil
	})
}

// UpdateQuantity sets the units of a line item; zero or less removes it.
func (s *cartService) UpdateQuantity(ctx context.Context, id, itemID uuid.UUID, units int) (*model.CartResponse, error) {
	return s.view(ctx, id, func(c *cart.Cart) error {
		if _, ok := c.Item(itemID); !ok {
			return model.ErrLineItemNotFound
		}
		return c.UpdateQuantity(ctx, itemID, units)
	})
}

// RemoveItem removes a line item.
func (s *cartService) RemoveItem(ctx context.Context, id, itemID uuid.UUID) (*model.CartResponse, error) {
	return s.view(ctx, id, func(c *cart.Cart) error {
		if _, ok := c.Item(itemID); !ok {
			return model.ErrLineItemNotFound
		}
		return c.RemoveItem(ctx, itemID)
	})
}

// RemoveAllItems empties the cart.
func (s *cartService) RemoveAllItems(ctx context.Context, id uuid.UUID) (*model.CartResponse, error) {
	return s.view(ctx, id, func(c *cart.Cart) error {
		return c.RemoveAllItems(ctx)
	})
}

// SetCouponCode stores a coupon code; a blank code clears it.
func (s *cartService) SetCouponCode(ctx context.Context, id uuid.UUID, code string) (*model.CartResponse, error) {
	return s.view(ctx, id, func(c *cart.Cart) error {
		if err := c.SetCouponCode(ctx, code); err != nil {
			return err
		}
		s.logger.Debug().
			Str("cart_id", id.String()).
			Str("coupon_code", c.CouponCode()).
			Bool("usable", c.HasUsableCoupon()).
			Msg("coupon code set")
		return nil
	})
}

// SetBillingAddress validates and stores the billing address. Nil clears it.
func (s *cartService) SetBillingAddress(ctx context.Context, id uuid.UUID, addr *cart.CustomerAddress) (*model.CartResponse, error) {
	if err := validateAddress(addr); err != nil {
		return nil, err
	}
	return s.view(ctx, id, func(c *cart.Cart) error {
		return c.SetBillingAddress(ctx, addr)
	})
}

// SetShippingAddress validates and stores the shipping address. Nil clears it.
func (s *cartService) SetShippingAddress(ctx context.Context, id uuid.UUID, addr *cart.CustomerAddress) (*model.CartResponse, error) {
	if err := validateAddress(addr); err != nil {
		return nil, err
	}
	return s.view(ctx, id, func(c *cart.Cart) error {
		return c.SetShippingAddress(ctx, addr)
	})
}

// SetShippingOption selects an active shipping option; a blank id clears it.
func (s *cartService) SetShippingOption(ctx context.Context, id uuid.UUID, optionID string) (*model.CartResponse, error) {
	optionID = strings.TrimSpace(optionID)

	var option *cart.ShippingOption
	if optionID != "" {
		rate, err := s.shipping.Rate(ctx, optionID)
		if err != nil {
			return nil, fmt.Errorf("failed to get shipping option: %w", &cart.CollaboratorError{Collaborator: "shipping options", Err: err})
		}
		if rate == nil {
			return nil, model.ErrShippingOptionNotFound
		}
		option = &cart.ShippingOption{ID: rate.OptionID, Name: rate.Name}
	}

	return s.view(ctx, id, func(c *cart.Cart) error {
		return c.SetShippingOption(ctx, option)
	})
}

// SetPaymentMethod selects an active payment method; a blank id clears it.
func (s *cartService) SetPaymentMethod(ctx context.Context, id uuid.UUID, methodID string) (*model.CartResponse, error) {
	methodID = strings.TrimSpace(methodID)

	var method *cart.PaymentMethod
	if methodID != "" {
		found, err := s.payments.GetByID(ctx, methodID)
		if err != nil {
			return nil, fmt.Errorf("failed to get payment method: %w", &cart.CollaboratorError{Collaborator: "payment methods", Err: err})
		}
		if found == nil {
			return nil, model.ErrPaymentMethodNotFound
		}
		method = found
	}

	return s.view(ctx, id, func(c *cart.Cart) error {
		c.SetPaymentMethod(method)
		return nil
	})
}

// SetCustomer stores explicit customer details used when the cart is saved.
func (s *cartService) SetCustomer(ctx context.Context, id uuid.UUID, req model.CustomerRequest) (*model.CartResponse, error) {
	customer := &cart.Customer{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
	}
	return s.view(ctx, id, func(c *cart.Cart) error {
		c.SetCustomer(customer)
		return nil
	})
}

// Validate checks every line item against the live catalog.
func (s *cartService) Validate(ctx context.Context, id uuid.UUID) (*cart.ValidationReport, error) {
	var report *cart.ValidationReport
	err := s.store.With(ctx, id, func(c *cart.Cart) error {
		var err error
		report, err = c.Validate(ctx)
		return err
	})
	if err != nil {
		s.logFailure(err, id, "failed to validate cart")
		return nil, err
	}

	if s.metrics != nil {
		for _, failure := range report.Failures() {
			for _, reason := range failure.Reasons {
				s.metrics.ValidationFailed(string(reason))
			}
		}
	}
	return report, nil
}

// Save persists the cart.
func (s *cartService) Save(ctx context.Context, id uuid.UUID) (*model.CartResponse, error) {
	resp, err := s.view(ctx, id, func(c *cart.Cart) error {
		return c.Save(ctx)
	})
	if s.metrics != nil && !errors.Is(err, model.ErrCartNotFound) {
		s.metrics.SaveCompleted(err)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("cart_id", id.String()).Msg("cart saved")
	return resp, nil
}

// view runs fn, if any, on the cart and returns the resulting cart view.
func (s *cartService) view(ctx context.Context, id uuid.UUID, fn func(c *cart.Cart) error) (*model.CartResponse, error) {
	var resp *model.CartResponse
	err := s.store.With(ctx, id, func(c *cart.Cart) error {
		if fn != nil {
			if err := fn(c); err != nil {
				return err
			}
		}
		resp = model.NewCartResponse(c)
		return nil
	})
	if err != nil {
		s.logFailure(err, id, "cart operation failed")
		return nil, err
	}
	return resp, nil
}

func (s *cartService) logFailure(err error, id uuid.UUID, msg string) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		s.logger.Debug().Err(err).Str("cart_id", id.String()).Msg(msg)
		return
	}
	s.logger.Error().Err(err).Str("cart_id", id.String()).Msg(msg)
}

func validateAddress(addr *cart.CustomerAddress) error {
	if addr == nil {
		return nil
	}
	if err := addr.Validate(); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidAddress, err.Error())
	}
	return nil
}

func countUnits(c *cart.Cart) int {
	units := 0
	for _, item := range c.Items() {
		units += item.Units
	}
	return units
}
