package auth

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocations_Tokens(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	store := NewMemoryRevocations()
	store.now = func() time.Time { return now }

	require.NoError(t, store.RevokeToken(ctx, "jti-logout", 15*time.Minute))

	revoked, err := store.IsTokenRevoked(ctx, "jti-logout")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = store.IsTokenRevoked(ctx, "jti-other")
	assert.False(t, revoked)

	now = now.Add(16 * time.Minute)
	revoked, _ = store.IsTokenRevoked(ctx, "jti-logout")
	assert.False(t, revoked, "revocation ends with the token lifetime")

	require.NoError(t, store.RevokeToken(ctx, "jti-next", time.Minute))
	assert.Len(t, store.tokens, 1, "expired entries are pruned on write")
}

func TestMemoryRevocations_Users(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	store := NewMemoryRevocations()
	store.now = func() time.Time { return now }

	revoked, err := store.UserTokensRevoked(ctx, "user-1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.RevokeUserTokens(ctx, "user-1", time.Hour))

	revoked, _ = store.UserTokensRevoked(ctx, "user-1", now.Add(-time.Minute))
	assert.True(t, revoked, "issued before revocation")
	revoked, _ = store.UserTokensRevoked(ctx, "user-1", now)
	assert.True(t, revoked, "issued in the same instant")
	revoked, _ = store.UserTokensRevoked(ctx, "user-1", now.Add(time.Second))
	assert.False(t, revoked, "issued after revocation")
	revoked, _ = store.UserTokensRevoked(ctx, "user-2", now.Add(-time.Minute))
	assert.False(t, revoked)
}

func TestRedisRevocations_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	store := NewRedisRevocations(client)
	ctx := context.Background()

	assert.ErrorContains(t, store.RevokeToken(ctx, "jti", time.Minute), "revoke token")
	_, err := store.IsTokenRevoked(ctx, "jti")
	assert.ErrorContains(t, err, "check token revocation")
	_, err = store.UserTokensRevoked(ctx, "user", time.Now())
	assert.ErrorContains(t, err, "check user revocation")
}
