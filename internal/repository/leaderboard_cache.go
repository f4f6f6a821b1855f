package repository

import (
	"codequest_backend/internal/model"
	"codequest_backend/internal/quest"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// LeaderboardCache 排行榜缓存，未命中返回 ok=false
type LeaderboardCache interface {
	Get(ctx context.Context, s quest.Subject) ([]model.LeaderboardEntry, bool, error)
	Set(ctx context.Context, s quest.Subject, entries []model.LeaderboardEntry, ttl time.Duration) error
	Invalidate(ctx context.Context, s quest.Subject) error
}

type RedisLeaderboardCache struct {
	Redis  *redis.Client
	prefix string
}

func NewRedisLeaderboardCache(rdb *redis.Client) *RedisLeaderboardCache {
	return &RedisLeaderboardCache{Redis: rdb, prefix: "codequest:leaderboard:"}
}

func (c *RedisLeaderboardCache) key(s quest.Subject) string {
	return c.prefix + string(s)
}

func (c *RedisLeaderboardCache) Get(ctx context.Context, s quest.Subject) ([]model.LeaderboardEntry, bool, error) {
	data, err := c.Redis.Get(ctx, c.key(s)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entries []model.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

func (c *RedisLeaderboardCache) Set(ctx context.Context, s quest.Subject, entries []model.LeaderboardEntry, ttl time.Duration) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.Redis.Set(ctx, c.key(s), data, ttl).Err()
}

func (c *RedisLeaderboardCache) Invalidate(ctx context.Context, s quest.Subject) error {
	return c.Redis.Del(ctx, c.key(s)).Err()
}
