package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eduport/portfolio-api/internal/core/domain"
)

const (
	communityKey = "cache:projects:community"
	communityTTL = 30 * time.Second
)

// CommunityCache caches the joined community feed in Redis. A stale or
// unreachable cache degrades to a database read; cache faults are logged,
// never surfaced.
type CommunityCache struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewCommunityCache(client *redis.Client, log zerolog.Logger) *CommunityCache {
	return &CommunityCache{client: client, log: log}
}

func (c *CommunityCache) Get(ctx context.Context) ([]*domain.Project, bool) {
	raw, err := c.client.Get(ctx, communityKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("community cache read failed")
		}
		return nil, false
	}

	var projects []*domain.Project
	if err := json.Unmarshal(raw, &projects); err != nil {
		c.log.Warn().Err(err).Msg("community cache entry corrupt, dropping")
		_ = c.client.Del(ctx, communityKey).Err()
		return nil, false
	}
	return projects, true
}

func (c *CommunityCache) Set(ctx context.Context, projects []*domain.Project) {
	raw, err := json.Marshal(projects)
	if err != nil {
		c.log.Warn().Err(err).Msg("community cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, communityKey, raw, communityTTL).Err(); err != nil {
		c.log.Warn().Err(err).Msg("community cache write failed")
	}
}

func (c *CommunityCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, communityKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("community cache invalidation failed")
	}
}
