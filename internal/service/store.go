package service

import (
	"context"
	"fmt"
	"sync"

	"kart-engine/internal/cart"
	"kart-engine/internal/model"
	"kart-engine/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// sessionEntry serialises every request touching one cart.
type sessionEntry struct {
	mu   sync.Mutex
	cart *cart.Cart
}

// Store keeps the live carts of the running process. A cart that is not in
// memory is restored from the cart repository on first use.
type Store struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*sessionEntry

	deps   cart.Dependencies
	carts  repository.CartRepository
	logger zerolog.Logger
}

// NewStore creates an empty session store building carts with deps.
func NewStore(deps cart.Dependencies, carts repository.CartRepository, logger zerolog.Logger) *Store {
	return &Store{
		entries: make(map[uuid.UUID]*sessionEntry),
		deps:    deps,
		carts:   carts,
		logger:  logger.With().Str("component", "session_store").Logger(),
	}
}

// Create starts a new empty cart, optionally owned by user.
func (s *Store) Create(user *cart.User) (*cart.Cart, error) {
	c, err := cart.New(s.deps, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	c.SetUser(user)

	s.mu.Lock()
	s.entries[c.ID()] = &sessionEntry{cart: c}
	size := len(s.entries)
	s.mu.Unlock()

	s.logger.Debug().Str("cart_id", c.ID().String()).Int("live_carts", size).Msg("cart created")
	return c, nil
}

// With runs fn with exclusive access to the cart. It returns
// model.ErrCartNotFound when the cart is neither live nor persisted.
func (s *Store) With(ctx context.Context, id uuid.UUID, fn func(c *cart.Cart) error) error {
	entry, err := s.entry(ctx, id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.cart)
}

// Len returns the number of live carts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) entry(ctx context.Context, id uuid.UUID) (*sessionEntry, error) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	s.mu.Unlock()
	if ok {
		return entry, nil
	}

	restored, err := s.restore(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have restored the same cart meanwhile.
	if entry, ok := s.entries[id]; ok {
		return entry, nil
	}
	entry = &sessionEntry{cart: restored}
	s.entries[id] = entry
	return entry, nil
}

func (s *Store) restore(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	if s.carts == nil {
		return nil, model.ErrCartNotFound
	}

	state, err := s.carts.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", id.String()).Msg("failed to load persisted cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if state == nil {
		return nil, model.ErrCartNotFound
	}

	c, err := cart.Restore(ctx, *state, s.deps, s.logger)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", id.String()).Msg("failed to restore cart")
		return nil, fmt.Errorf("failed to restore cart: %w", err)
	}

	s.logger.Info().Str("cart_id", id.String()).Int("item_count", len(state.Items)).Msg("cart restored")
	return c, nil
}
