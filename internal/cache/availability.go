// Package cache provides a small Redis-backed cache for availability
// listings.  Caching is an optimization only: every method degrades to
// a no-op when Redis is not configured, and entries for a date are
// invalidated whenever a booking or cancellation touches that date, so
// cached listings never contradict the store.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Availability caches the open-slot listing per date.
type Availability struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewAvailability returns a cache over the given client.  A nil client
// disables caching entirely.
func NewAvailability(rdb *redis.Client, ttl time.Duration) *Availability {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Availability{rdb: rdb, ttl: ttl}
}

func key(date string) string { return "avail:" + date }

// Get returns the cached slot listing for a date.  The second return is
// false on a miss, a decode failure, or when caching is disabled.
func (c *Availability) Get(ctx context.Context, date string) ([]string, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key(date)).Bytes()
	if err != nil {
		return nil, false
	}
	var slots []string
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

// Set stores the slot listing for a date with the configured TTL.
func (c *Availability) Set(ctx context.Context, date string, slots []string) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(date), raw, c.ttl).Err(); err != nil {
		log.Printf("cache: set %s failed: %v", date, err)
	}
}

// Invalidate drops the cached listing for a date.  Called after any
// schedule or cancel that touches the date.
func (c *Availability) Invalidate(ctx context.Context, date string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, key(date)).Err(); err != nil {
		log.Printf("cache: invalidate %s failed: %v", date, err)
	}
}
