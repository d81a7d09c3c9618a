package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	permKeyPrefix = "rbac:perms:" // rbac:perms:{user_id} -> set of permission names
	permCacheTTL  = 5 * time.Minute
	// Sentinel member so an empty permission set is still a cache hit.
	emptyMarker = "__none__"
)

// PermissionCache keeps per-user effective permission sets in Redis so route
// guards do not hit Neo4j on every request.
type PermissionCache struct {
	client *redis.Client
}

func NewPermissionCache(client *redis.Client) *PermissionCache {
	return &PermissionCache{client: client}
}

// Get returns the cached set and whether it was present.
func (c *PermissionCache) Get(ctx context.Context, userID string) ([]string, bool, error) {
	members, err := c.client.SMembers(ctx, permKeyPrefix+userID).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read permission cache: %w", err)
	}
	if len(members) == 0 {
		return nil, false, nil
	}

	perms := make([]string, 0, len(members))
	for _, m := range members {
		if m != emptyMarker {
			perms = append(perms, m)
		}
	}
	return perms, true, nil
}

func (c *PermissionCache) Set(ctx context.Context, userID string, permissions []string) error {
	key := permKeyPrefix + userID

	members := make([]any, 0, len(permissions)+1)
	members = append(members, emptyMarker)
	for _, p := range permissions {
		members = append(members, p)
	}

	pipe := c.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, permCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write permission cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached sets for the given users.
func (c *PermissionCache) Invalidate(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = permKeyPrefix + id
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate permission cache: %w", err)
	}
	return nil
}
