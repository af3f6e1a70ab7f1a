package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/accountd/accountd/internal/model"
)

const (
	// identityCachePrefix is the Redis key prefix for verified identities.
	identityCachePrefix = "auth:id:"
	// identityCacheTTL is the time-to-live for cached identities.
	// Well below the 24h token lifetime so a token nearing expiry is
	// re-verified rather than served stale from cache.
	identityCacheTTL = 5 * time.Minute
)

// GetIdentity retrieves a cached verified identity by token digest.
// Returns nil on cache miss.
func (c *Cache) GetIdentity(ctx context.Context, tokenDigest string) (*model.Identity, error) {
	key := identityCachePrefix + tokenDigest

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var id model.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &id, nil
}

// SetIdentity caches a verified identity under the token digest.
func (c *Cache) SetIdentity(ctx context.Context, tokenDigest string, id *model.Identity) error {
	key := identityCachePrefix + tokenDigest

	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	return c.client.Set(ctx, key, data, identityCacheTTL).Err()
}

// DeleteIdentity removes a cached identity.
func (c *Cache) DeleteIdentity(ctx context.Context, tokenDigest string) error {
	key := identityCachePrefix + tokenDigest
	return c.client.Del(ctx, key).Err()
}
