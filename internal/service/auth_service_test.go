package service

import (
	"codequest_backend/internal/repository"
	"codequest_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	repo := repository.NewUserRepository(newTestDB(t))
	svc := NewAuthService(repo, testConfig())

	require.NoError(t, svc.Signup("Ada", "ada@example.com", "hunter2"))

	stored, err := repo.FindByEmail("ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", stored.Password)

	user, token, err := svc.Login("ada@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)

	claims, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestSignupDuplicate(t *testing.T) {
	svc := NewAuthService(repository.NewUserRepository(newTestDB(t)), testConfig())

	require.NoError(t, svc.Signup("Ada", "ada@example.com", "a"))
	assert.ErrorIs(t, svc.Signup("Ada", "ada@example.com", "b"), util.ErrEmailRegistered)
}

func TestLoginFailures(t *testing.T) {
	svc := NewAuthService(repository.NewUserRepository(newTestDB(t)), testConfig())
	require.NoError(t, svc.Signup("Ada", "ada@example.com", "right"))

	_, _, err := svc.Login("nobody@example.com", "right")
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	_, _, err = svc.Login("ada@example.com", "wrong")
	assert.ErrorIs(t, err, util.ErrIncorrectPassword)
}
