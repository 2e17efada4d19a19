package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brandflow/brandflow/internal/model"
)

const (
	// identityCachePrefix is the Redis key prefix for resolved bearer identities.
	identityCachePrefix = "auth:user:"
	// identityCacheTTL is the time-to-live for cached identities.
	identityCacheTTL = 5 * time.Minute
)

// GetIdentity retrieves a cached identity by user id.
// Returns nil if not found (cache miss).
func (c *Cache) GetIdentity(ctx context.Context, userID string) (*model.Identity, error) {
	data, err := c.client.Get(ctx, identityKey(userID)).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var id model.Identity
	if err := json.Unmarshal(data, &id); err != nil || id.ID != userID {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &id, nil
}

// SetIdentity caches an identity.
func (c *Cache) SetIdentity(ctx context.Context, id *model.Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	return c.client.Set(ctx, identityKey(id.ID), data, identityCacheTTL).Err()
}

func identityKey(userID string) string {
	return identityCachePrefix + userID
}
