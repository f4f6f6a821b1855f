package questclient

import (
	"codequest_backend/internal/app"
	"codequest_backend/internal/config"
	"codequest_backend/internal/quest"
	"codequest_backend/pkg/database"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newServer 启动完整的路由，数据库是内存 sqlite
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.InitDB(&config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)

	cfg := &config.Config{
		JWT:   config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Redis: config.RedisConfig{LeaderboardTTL: time.Minute},
		AI:    config.AIConfig{Timeout: time.Second},
	}
	a, err := app.New(cfg, db, nil)
	require.NoError(t, err)
	t.Cleanup(a.Stop)

	srv := httptest.NewServer(a.Router)
	t.Cleanup(func() {
		srv.Close()
		database.Close(db)
	})
	return srv
}

func newUser(t *testing.T, c *Client, name, email string) {
	t.Helper()
	require.NoError(t, c.Signup(context.Background(), name, email, "pw"))
}

func TestClientAuthFlow(t *testing.T) {
	srv := newServer(t)
	c := NewClient(srv.URL)
	ctx := context.Background()

	newUser(t, c, "Ada", "ada@example.com")
	assert.ErrorIs(t, c.Signup(ctx, "Ada", "ada@example.com", "pw"), ErrAccountExists)

	_, err := c.Login(ctx, "ada@example.com", "bad")
	assert.ErrorIs(t, err, ErrIncorrectPassword)
	_, err = c.Login(ctx, "ghost@example.com", "pw")
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := c.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Name)
	assert.NotEmpty(t, c.Token())

	cached, ok := c.Cached("ada@example.com")
	assert.True(t, ok)
	assert.Equal(t, "ada@example.com", cached.Email)
}

func TestLoadProfileNotFound(t *testing.T) {
	c := NewClient(newServer(t).URL)
	_, err := c.LoadProfile(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, ok := c.Cached("ghost@example.com")
	assert.False(t, ok)
}

func TestSaveThenLoadReflectsAbsoluteCount(t *testing.T) {
	c := NewClient(newServer(t).URL)
	ctx := context.Background()
	newUser(t, c, "Ada", "ada@example.com")

	for _, n := range []int{4, 5, 6} {
		_, err := c.SaveProgressDelta(ctx, "ada@example.com", quest.SubjectC, n, 15, "")
		require.NoError(t, err)
	}

	p, err := c.LoadProfile(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, 6, p.Progress.C)
	assert.Equal(t, 45, p.Progress.Stars)
}

func TestSaveProgressDeltaErrors(t *testing.T) {
	c := NewClient(newServer(t).URL)
	ctx := context.Background()

	_, err := c.SaveProgressDelta(ctx, "ghost@example.com", quest.SubjectC, 1, 0, "")
	assert.ErrorIs(t, err, ErrNotFound)

	newUser(t, c, "Ada", "ada@example.com")
	_, err = c.SaveProgressDelta(ctx, "ada@example.com", quest.Subject("java"), 1, 0, "")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
}

func TestLeaderboardAndChatErrors(t *testing.T) {
	c := NewClient(newServer(t).URL)
	ctx := context.Background()

	entries, err := c.Leaderboard(ctx, quest.SubjectHTML)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = c.Leaderboard(ctx, quest.Subject("java"))
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)

	// 服务端没有配置 API key，返回占位回复
	reply, err := c.Chat(ctx, "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
}

func TestClientTransportFailure(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", WithTimeout(200*time.Millisecond))
	_, err := c.LoadProfile(context.Background(), "ada@example.com")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
