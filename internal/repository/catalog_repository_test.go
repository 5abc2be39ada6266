package repository

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRepository_Resolve(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	seedCatalog(t, pool)

	repo := NewCatalogRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name      string
		productID string
		wantNil   bool
	}{
		{name: "shippable taxable product", productID: "SKU-BOOK"},
		{name: "digital product", productID: "SKU-EBOOK"},
		{name: "limited product", productID: "SKU-LAMP"},
		{name: "disabled product", productID: "SKU-OLD"},
		{name: "unknown product", productID: "SKU-MISSING", wantNil: true},
	}

	expected := map[string]struct {
		name     string
		price    string
		sellable bool
		maxUnits int
		shipping bool
		taxClass string
	}{
		"SKU-BOOK":  {"Book", "12.50", true, 0, true, "standard"},
		"SKU-EBOOK": {"Ebook", "7.99", true, 0, false, "digital"},
		"SKU-LAMP":  {"Lamp", "40.00", true, 3, true, ""},
		"SKU-OLD":   {"Old stock", "1.00", false, 0, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := repo.Resolve(ctx, tt.productID)
			require.NoError(t, err)

			if tt.wantNil {
				assert.Nil(t, product)
				return
			}
			require.NotNil(t, product)
			want := expected[tt.productID]
			assert.Equal(t, tt.productID, product.ID)
			assert.Equal(t, want.name, product.Name)
			assertMoney(t, want.price, product.UnitPrice)
			assert.Equal(t, want.sellable, product.Sellable)
			assert.Equal(t, want.maxUnits, product.MaxUnits)
			assert.Equal(t, want.shipping, product.RequiresShipping)
			assert.Equal(t, want.taxClass, product.TaxClass)
		})
	}
}

func TestCatalogRepository_GetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	seedCatalog(t, pool)

	repo := NewCatalogRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name   string
		limit  int
		offset int
		want   []string
	}{
		{name: "first page", limit: 2, offset: 0, want: []string{"Book", "Ebook"}},
		{name: "second page", limit: 2, offset: 2, want: []string{"Lamp", "Old stock"}},
		{name: "past the end", limit: 2, offset: 10, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.GetAll(ctx, tt.limit, tt.offset)
			require.NoError(t, err)

			names := make([]string, 0, len(products))
			for _, p := range products {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}
