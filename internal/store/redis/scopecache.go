package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/turnkeeper/turnkeeper/internal/directory"
)

// ScopeCache stores resolved membership scopes with a short TTL. It is a pure
// cache: any entry may disappear at any time and the directory recomputes it
// from the memberships table, so cache failures degrade to extra reads, never
// to wrong answers.
type ScopeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*ScopeCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &ScopeCache{client: client, ttl: ttl}, nil
}

func (c *ScopeCache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("redis.ScopeCache.Close: %w", err)
	}
	return nil
}

func (c *ScopeCache) GetScope(ctx context.Context, userID uuid.UUID) (directory.Scope, bool) {
	raw, err := c.client.Get(ctx, scopeKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("redis: scope cache read failed")
		}
		return directory.Scope{}, false
	}

	var scope directory.Scope
	if err := json.Unmarshal(raw, &scope); err != nil {
		log.Warn().Err(err).Msg("redis: scope cache entry corrupt, dropping")
		c.Invalidate(ctx, userID)
		return directory.Scope{}, false
	}

	return scope, true
}

func (c *ScopeCache) SetScope(ctx context.Context, userID uuid.UUID, scope directory.Scope) {
	raw, err := json.Marshal(scope)
	if err != nil {
		log.Warn().Err(err).Msg("redis: scope cache marshal failed")
		return
	}

	if err := c.client.Set(ctx, scopeKey(userID), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: scope cache write failed")
	}
}

func (c *ScopeCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := c.client.Del(ctx, scopeKey(userID)).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: scope cache invalidate failed")
	}
}

// scopeKey returns the Redis key for a user's cached scope.
func scopeKey(userID uuid.UUID) string {
	return "scope:" + userID.String()
}
