// Package cache provides a Redis read-through cache for vehicle detail
// lookups. The registry stays correct without it; a nil cache disables every
// method, so wiring is optional end to end.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"cartegrise/internal/registry/models"
	"cartegrise/pkg/domain"
)

const recordKeyPrefix = "cg:vehicle:"

// RecordCache caches VehicleDetails keyed by token id.
type RecordCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New constructs a record cache. Returns nil when client is nil so callers can
// wire it unconditionally.
func New(client *redis.Client, ttl time.Duration) *RecordCache {
	if client == nil {
		return nil
	}
	return &RecordCache{client: client, ttl: ttl}
}

// Get returns the cached details for a token, or ok=false on a miss. Cache
// failures are reported, not fatal; callers fall through to the store.
func (c *RecordCache) Get(ctx context.Context, id domain.TokenID) (models.VehicleDetails, bool, error) {
	if c == nil {
		return models.VehicleDetails{}, false, nil
	}
	raw, err := c.client.Get(ctx, recordKeyPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.VehicleDetails{}, false, nil
	}
	if err != nil {
		return models.VehicleDetails{}, false, err
	}
	var details models.VehicleDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		return models.VehicleDetails{}, false, nil
	}
	return details, true, nil
}

// Set stores the details with the configured TTL.
func (c *RecordCache) Set(ctx context.Context, details models.VehicleDetails) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, recordKeyPrefix+details.TokenID.String(), raw, c.ttl).Err()
}

// Invalidate drops the cached entry after a mutation (mileage, URI, transfer).
func (c *RecordCache) Invalidate(ctx context.Context, id domain.TokenID) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, recordKeyPrefix+id.String()).Err()
}
