package cache

import (
	"fmt"

	"github.com/dgraph-io/ristretto"
)

// RistrettoKnownDealCache remembers unique identifiers that are known to be persisted.
// Deals are never deleted, so a hit is always a reliable conflict; a miss says nothing.
type RistrettoKnownDealCache struct {
	cache *ristretto.Cache
}

func NewKnownDealCache(maxItems int64) (*RistrettoKnownDealCache, error) {
	if maxItems <= 0 {
		return nil, fmt.Errorf("create known deal cache failed: max items must be positive, got %d", maxItems)
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create known deal cache failed: %w", err)
	}
	return &RistrettoKnownDealCache{cache: c}, nil
}

func (c *RistrettoKnownDealCache) Contains(dealUniqueID string) bool {
	_, ok := c.cache.Get(dealUniqueID)
	return ok
}

func (c *RistrettoKnownDealCache) Add(dealUniqueID string) {
	c.cache.Set(dealUniqueID, struct{}{}, 1)
}

func (c *RistrettoKnownDealCache) Close() { c.cache.Close() }
