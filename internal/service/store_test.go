package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"kart-engine/internal/cart"
	"kart-engine/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateAndWith(t *testing.T) {
	store := NewStore(cart.Dependencies{Catalog: newCatalogMock()}, nil, zerolog.Nop())
	ctx := context.Background()
	user := &cart.User{ID: uuid.New(), Email: "jane@example.com"}

	created, err := store.Create(user)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	err = store.With(ctx, created.ID(), func(c *cart.Cart) error {
		assert.Same(t, created, c)
		assert.Equal(t, user.ID, c.User().ID)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_WithReturnsCallbackError(t *testing.T) {
	store := NewStore(cart.Dependencies{Catalog: newCatalogMock()}, nil, zerolog.Nop())
	created, err := store.Create(nil)
	require.NoError(t, err)

	failure := errors.New("boom")
	err = store.With(context.Background(), created.ID(), func(c *cart.Cart) error { return failure })
	assert.ErrorIs(t, err, failure)
}

func TestStore_UnknownCartWithoutRepository(t *testing.T) {
	store := NewStore(cart.Dependencies{Catalog: newCatalogMock()}, nil, zerolog.Nop())

	err := store.With(context.Background(), uuid.New(), func(c *cart.Cart) error { return nil })
	assert.Equal(t, model.ErrCartNotFound, err)
}

func TestStore_RestoresPersistedCart(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	carts := new(MockCartRepository)
	carts.On("GetByID", mock.Anything, id).Return(&cart.State{
		CartID: id,
		Items:  []cart.LineItem{{ID: uuid.New(), ProductID: "SKU-BOOK", Units: 2}},
	}, nil).Once()

	store := NewStore(cart.Dependencies{Catalog: newCatalogMock(), Store: carts}, carts, zerolog.Nop())

	for i := 0; i < 2; i++ {
		err := store.With(ctx, id, func(c *cart.Cart) error {
			assert.Equal(t, id, c.ID())
			assert.True(t, money("25.00").Equal(c.Subtotal()))
			return nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, store.Len())
	carts.AssertExpectations(t)
}

func TestStore_RestoreFailures(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
	}{
		{name: "never persisted"},
		{name: "repository failure", repoErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.New()
			carts := new(MockCartRepository)
			carts.On("GetByID", mock.Anything, id).Return(nil, tt.repoErr)
			store := NewStore(cart.Dependencies{Catalog: newCatalogMock()}, carts, zerolog.Nop())

			err := store.With(context.Background(), id, func(c *cart.Cart) error { return nil })

			require.Error(t, err)
			if tt.repoErr != nil {
				assert.ErrorIs(t, err, tt.repoErr)
				assert.Contains(t, err.Error(), "failed to load cart")
			} else {
				assert.Equal(t, model.ErrCartNotFound, err)
			}
			assert.Zero(t, store.Len())
		})
	}
}

func TestStore_SerialisesAccessToOneCart(t *testing.T) {
	store := NewStore(cart.Dependencies{Catalog: newCatalogMock()}, nil, zerolog.Nop())
	created, err := store.Create(nil)
	require.NoError(t, err)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.With(ctx, created.ID(), func(c *cart.Cart) error {
				return c.AddItem(ctx, "SKU-BOOK", 1)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	item := created.Items()
	require.Len(t, item, 1)
	assert.Equal(t, 20, item[0].Units)
}
