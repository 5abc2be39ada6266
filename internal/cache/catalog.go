// Package cache puts Redis in front of catalog lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"kart-engine/internal/cart"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const keyPrefix = "catalog:product:"

// cachedProduct is the JSON form of a product stored in Redis.
type cachedProduct struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Sellable         bool            `json:"sellable"`
	MaxUnits         int             `json:"maxUnits"`
	RequiresShipping bool            `json:"requiresShipping"`
	TaxClass         string          `json:"taxClass"`
}

func fromProduct(p *cart.Product) cachedProduct {
	return cachedProduct{
		ID:               p.ID,
		Name:             p.Name,
		UnitPrice:        p.UnitPrice,
		Sellable:         p.Sellable,
		MaxUnits:         p.MaxUnits,
		RequiresShipping: p.RequiresShipping,
		TaxClass:         p.TaxClass,
	}
}

func (c cachedProduct) product() *cart.Product {
	return &cart.Product{
		ID:               c.ID,
		Name:             c.Name,
		UnitPrice:        c.UnitPrice,
		Sellable:         c.Sellable,
		MaxUnits:         c.MaxUnits,
		RequiresShipping: c.RequiresShipping,
		TaxClass:         c.TaxClass,
	}
}

// CatalogCache is a read-through cache for a catalog lookup.
// Products that do not exist are never cached, and Redis failures fall back to
// the wrapped lookup.
type CatalogCache struct {
	client redis.UniversalClient
	next   cart.CatalogLookup
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCatalogCache wraps next with a Redis cache whose entries expire after ttl.
func NewCatalogCache(client redis.UniversalClient, next cart.CatalogLookup, ttl time.Duration, logger zerolog.Logger) *CatalogCache {
	return &CatalogCache{
		client: client,
		next:   next,
		ttl:    ttl,
		logger: logger.With().Str("component", "catalog_cache").Logger(),
	}
}

func key(productID string) string {
	return keyPrefix + productID
}

// Resolve returns the cached product, or asks the wrapped lookup and caches its answer.
func (c *CatalogCache) Resolve(ctx context.Context, productID string) (*cart.Product, error) {
	if p, ok := c.get(ctx, productID); ok {
		return p, nil
	}

	p, err := c.next.Resolve(ctx, productID)
	if err != nil || p == nil {
		return p, err
	}

	c.set(ctx, p)
	return p, nil
}

func (c *CatalogCache) get(ctx context.Context, productID string) (*cart.Product, bool) {
	data, err := c.client.Get(ctx, key(productID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("product_id", productID).Msg("catalog cache read failed, using catalog")
		}
		return nil, false
	}

	var cached cachedProduct
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Warn().Err(err).Str("product_id", productID).Msg("discarding malformed cached product")
		return nil, false
	}
	return cached.product(), true
}

func (c *CatalogCache) set(ctx context.Context, p *cart.Product) {
	data, err := json.Marshal(fromProduct(p))
	if err != nil {
		c.logger.Warn().Err(err).Str("product_id", p.ID).Msg("failed to encode product for cache")
		return
	}
	if err := c.client.Set(ctx, key(p.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("product_id", p.ID).Msg("catalog cache write failed")
	}
}
