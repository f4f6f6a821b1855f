package service

import (
	"codequest_backend/internal/config"
	"codequest_backend/internal/model"
	"codequest_backend/internal/quest"
	"codequest_backend/internal/repository"
	"codequest_backend/pkg/database"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(&config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
}

// memoryCache 内存版排行榜缓存，可注入错误
type memoryCache struct {
	mu          sync.Mutex
	data        map[quest.Subject][]model.LeaderboardEntry
	gets        int
	invalidated []quest.Subject
	failGet     bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[quest.Subject][]model.LeaderboardEntry{}}
}

func (c *memoryCache) Get(_ context.Context, s quest.Subject) ([]model.LeaderboardEntry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet {
		return nil, false, errors.New("cache down")
	}
	e, ok := c.data[s]
	return e, ok, nil
}

func (c *memoryCache) Set(_ context.Context, s quest.Subject, entries []model.LeaderboardEntry, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[s] = entries
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, s quest.Subject) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, s)
	c.invalidated = append(c.invalidated, s)
	return nil
}

var _ repository.LeaderboardCache = (*memoryCache)(nil)

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}
