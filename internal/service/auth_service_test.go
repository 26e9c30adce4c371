package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-ticketing/internal/config"
	"github.com/spec-kit/event-ticketing/internal/domain"
)

func newAuthService(store *fakeStore) *AuthService {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
		},
	}
	return NewAuthService(cfg, store)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)

	user, token, _, err := svc.Register(context.Background(), "Alice", " Alice@Example.COM ", "s3cret", "", "")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.UserRoleUser, user.Role)
	assert.Len(t, user.ReferralCode, 6)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	same, token, _, err := svc.Login(context.Background(), "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, same.ID)
	assert.NotEmpty(t, token)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.UserRoleUser, claims.Role)
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)

	_, _, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "s3cret", "", "")
	require.NoError(t, err)

	_, _, _, err = svc.Register(context.Background(), "Imposter", "ALICE@example.com", "other", "", "")
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestAuthRegisterOrganizerRole(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)

	user, _, _, err := svc.Register(context.Background(), "Olga", "olga@example.com", "s3cret", domain.UserRoleOrganizer, "")
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleOrganizer, user.Role)
}

func TestAuthLoginBadCredentials(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)

	_, _, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "s3cret", "", "")
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))

	_, _, _, err = svc.Login(context.Background(), "nobody@example.com", "s3cret")
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
}
