package repository

import (
	"codequest_backend/internal/config"
	"codequest_backend/internal/model"
	"codequest_backend/internal/quest"
	"codequest_backend/internal/util"
	"codequest_backend/pkg/database"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
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

func seedUser(t *testing.T, repo *UserRepository, name, email string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: email, Password: "x"}
	require.NoError(t, repo.Create(u))
	return u
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	seedUser(t, repo, "Ada", "ada@example.com")

	err := repo.Create(&model.User{Name: "Other", Email: "ada@example.com", Password: "y"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestFindByEmailNotFound(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	_, err := repo.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestSaveProgressOverwritesCountAndAddsStars(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	seedUser(t, repo, "Ada", "ada@example.com")

	_, _, err := repo.SaveProgress(ProgressUpdate{Email: "ada@example.com", Quest: quest.SubjectC, Value: 3, Stars: 15})
	require.NoError(t, err)
	u, added, err := repo.SaveProgress(ProgressUpdate{Email: "ada@example.com", Quest: quest.SubjectC, Value: 4, Stars: 15, Badge: "First Steps"})
	require.NoError(t, err)

	assert.True(t, added)
	assert.Equal(t, 4, u.C)
	assert.Equal(t, 30, u.Stars)
	assert.Equal(t, []string{"First Steps"}, u.Profile().Progress.Badges)

	u, added, err = repo.SaveProgress(ProgressUpdate{Email: "ada@example.com", Quest: quest.SubjectC, Value: 4, Badge: "First Steps"})
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, u.Badges, 1)
	assert.Equal(t, 30, u.Stars)
}

func TestSaveProgressWithoutQuest(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	seedUser(t, repo, "Ada", "ada@example.com")

	u, _, err := repo.SaveProgress(ProgressUpdate{Email: "ada@example.com", Stars: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, u.Stars)
	assert.Zero(t, u.C)
}

func TestSaveProgressRejectsBadInput(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	seedUser(t, repo, "Ada", "ada@example.com")

	_, _, err := repo.SaveProgress(ProgressUpdate{Email: "ada@example.com", Quest: "java", Value: 1})
	assert.ErrorIs(t, err, util.ErrInvalidQuest)

	_, _, err = repo.SaveProgress(ProgressUpdate{Email: "ada@example.com", Quest: quest.SubjectC, Value: -1})
	assert.ErrorIs(t, err, util.ErrInvalidProgress)

	_, _, err = repo.SaveProgress(ProgressUpdate{Email: "ada@example.com", Stars: -3})
	assert.ErrorIs(t, err, util.ErrInvalidProgress)

	_, _, err = repo.SaveProgress(ProgressUpdate{Email: "ghost@example.com", Quest: quest.SubjectC, Value: 1})
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	u, err := repo.FindByEmail("ada@example.com")
	require.NoError(t, err)
	assert.Zero(t, u.C)
}

func TestSaveProgressConcurrentStarsAreNotLost(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	seedUser(t, repo, "Ada", "ada@example.com")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := repo.SaveProgress(ProgressUpdate{Email: "ada@example.com", Quest: quest.SubjectPython, Value: 1, Stars: 10})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	u, err := repo.FindByEmail("ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, 200, u.Stars)
}

func TestTopByQuest(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	counts := []int{5, 9, 5, 1, 7, 3, 2, 8, 6, 4, 0, 10}
	for i, n := range counts {
		email := string(rune('a'+i)) + "@example.com"
		seedUser(t, repo, string(rune('A'+i)), email)
		_, _, err := repo.SaveProgress(ProgressUpdate{Email: email, Quest: quest.SubjectHTML, Value: n})
		require.NoError(t, err)
	}

	users, err := repo.TopByQuest(quest.SubjectHTML, 10)
	require.NoError(t, err)
	require.Len(t, users, 10)

	var names []string
	for _, u := range users {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"L", "B", "H", "E", "I", "A", "C", "J", "F", "G"}, names)
	assert.Equal(t, 10, users[0].HTML)

	_, err = repo.TopByQuest("java", 10)
	assert.ErrorIs(t, err, util.ErrInvalidQuest)
}

func TestRedisLeaderboardCacheUnreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	cache := NewRedisLeaderboardCache(rdb)

	_, ok, err := cache.Get(context.Background(), quest.SubjectC)
	assert.False(t, ok)
	assert.Error(t, err)
	assert.Equal(t, "codequest:leaderboard:c", cache.key(quest.SubjectC))
}
