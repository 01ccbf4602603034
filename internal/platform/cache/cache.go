// Package cache provides an in-process L1 byte cache backed by ristretto
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	perr "codeeditor/internal/platform/errors"
)

// Cache is a cost bounded TTL cache of encoded values
// safe for concurrent use
type Cache struct {
	c   *ristretto.Cache[string, []byte]
	ttl time.Duration
}

// Config sizes the cache
type Config struct {
	// MaxCostBytes bounds the total size of cached values
	MaxCostBytes int64
	// TTL applies to every entry, 0 keeps entries until evicted
	TTL time.Duration
}

// New builds a cache, a zero MaxCostBytes defaults to 16MiB
func New(cfg Config) (*Cache, error) {
	if cfg.MaxCostBytes <= 0 {
		cfg.MaxCostBytes = 16 << 20
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: max(cfg.MaxCostBytes/100*10, 1000),
		MaxCost:     cfg.MaxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "cache: init")
	}
	return &Cache{c: c, ttl: cfg.TTL}, nil
}

// Get returns the raw bytes for key
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	return c.c.Get(key)
}

// Set stores value under key, cost is the value length
// Wait is called so a following Get observes the value
func (c *Cache) Set(_ context.Context, key string, value []byte) {
	if c == nil {
		return
	}
	c.c.SetWithTTL(key, value, int64(len(value)), c.ttl)
	c.c.Wait()
}

// Delete removes key
func (c *Cache) Delete(_ context.Context, key string) {
	if c == nil {
		return
	}
	c.c.Del(key)
}

// Close releases the cache goroutines
func (c *Cache) Close() {
	if c == nil {
		return
	}
	c.c.Close()
}

// GetJSON decodes a cached JSON value into T
// a decode failure is treated as a miss and the entry is dropped
func GetJSON[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var zero T
	b, ok := c.Get(ctx, key)
	if !ok {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		c.Delete(ctx, key)
		return zero, false
	}
	return v, true
}

// SetJSON encodes v as JSON and stores it
func SetJSON[T any](ctx context.Context, c *Cache, key string, v T) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "cache: encode")
	}
	c.Set(ctx, key, b)
	return nil
}
