package database

import (
	"codequest_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectorSelection(t *testing.T) {
	assert.Equal(t, "sqlite", Dialector(&config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}).Name())
	assert.Equal(t, "mysql", Dialector(&config.DatabaseConfig{
		Driver: "mysql", Host: "localhost", Port: 3306, User: "root", DBName: "codequest", Charset: "utf8mb4",
	}).Name())
}

func TestInitDBMigrates(t *testing.T) {
	db, err := InitDB(&config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	defer Close(db)

	assert.True(t, db.Migrator().HasTable("users"))
	assert.True(t, db.Migrator().HasTable("profile_badges"))
	assert.True(t, db.Migrator().HasIndex("profile_badges", "idx_user_badge"))
}

func TestInitRedisDisabled(t *testing.T) {
	rdb, err := InitRedis(&config.RedisConfig{Enabled: false})
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}
