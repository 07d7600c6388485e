package authz

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	accessModel "github.com/frahmantamala/identity-access/internal/core/datamodel/access"
	"github.com/redis/go-redis/v9"
)

// CachedPermissionStore is a read-through cache over a PermissionStore.
// Grants change rarely, so lookups are served from Redis with a short TTL
// and invalidated whenever a grant is written. Cache failures degrade to the
// underlying store instead of failing the authorization check.
type CachedPermissionStore struct {
	store  PermissionStore
	redis  redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// cachedGrant distinguishes a cached "no row" from a cache miss.
type cachedGrant struct {
	Found bool                        `json:"found"`
	Grant *accessModel.RolePermission `json:"grant,omitempty"`
}

func NewCachedPermissionStore(store PermissionStore, redisClient redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *CachedPermissionStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedPermissionStore{
		store:  store,
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

func grantKey(roleID, optionID int64) string {
	return fmt.Sprintf("perm:%d:%d", roleID, optionID)
}

func (c *CachedPermissionStore) GetPermissions(ctx context.Context, roleID, optionID int64) (*accessModel.RolePermission, error) {
	key := grantKey(roleID, optionID)

	raw, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var cached cachedGrant
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			if !cached.Found {
				return nil, nil
			}
			return cached.Grant, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn("permission cache read failed, falling back to store", "error", err, "key", key)
	}

	grant, err := c.store.GetPermissions(ctx, roleID, optionID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedGrant{Found: grant != nil, Grant: grant})
	if err == nil {
		if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("permission cache write failed", "error", err, "key", key)
		}
	}

	return grant, nil
}

// UpsertGrant writes through to the store and drops the cached entry so the
// next lookup observes the new flags.
func (c *CachedPermissionStore) UpsertGrant(ctx context.Context, grant accessModel.RolePermission) error {
	if err := c.store.UpsertGrant(ctx, grant); err != nil {
		return err
	}

	if err := c.redis.Del(ctx, grantKey(grant.RoleID, grant.OptionID)).Err(); err != nil {
		c.logger.Warn("permission cache invalidation failed", "error", err, "role_id", grant.RoleID, "option_id", grant.OptionID)
	}
	return nil
}
