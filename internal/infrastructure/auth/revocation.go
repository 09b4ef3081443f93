package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers access tokens that must be rejected before they
// expire. Logout revokes one token by its JTI; deactivating a user or
// changing their role revokes every token issued to them up to now.
type RevocationStore interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	RevokeUserTokens(ctx context.Context, userID string, ttl time.Duration) error
	// UserTokensRevoked reports whether a token issued at issuedAt predates
	// the user's last RevokeUserTokens.
	UserTokensRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const revocationKeyPrefix = "erp-obras:revoked:"

// RedisRevocations shares revocations between instances. Keys expire with
// the tokens they reject.
type RedisRevocations struct {
	client *redis.Client
}

// NewRedisRevocations uses an existing client and never closes it.
func NewRedisRevocations(client *redis.Client) *RedisRevocations {
	return &RedisRevocations{client: client}
}

func (r *RedisRevocations) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if err := r.client.Set(ctx, revocationKeyPrefix+"jti:"+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *RedisRevocations) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revocationKeyPrefix+"jti:"+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}

// RevokeUserTokens stores the revocation instant in Unix seconds. Tokens
// carry second precision in their iat claim.
func (r *RedisRevocations) RevokeUserTokens(ctx context.Context, userID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, revocationKeyPrefix+"user:"+userID, time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

func (r *RedisRevocations) UserTokensRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := r.client.Get(ctx, revocationKeyPrefix+"user:"+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user revocation: %w", err)
	}
	revokedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("corrupt revocation timestamp for user %s: %w", userID, err)
	}
	return issuedAt.Unix() <= revokedAt, nil
}

// MemoryRevocations is the single-instance RevocationStore used when Redis
// is disabled and in tests.
type MemoryRevocations struct {
	mu     sync.Mutex
	tokens map[string]time.Time // jti -> expiry
	users  map[string]time.Time // user id -> revoked at
	now    func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{
		tokens: make(map[string]time.Time),
		users:  make(map[string]time.Time),
		now:    time.Now,
	}
}

// RevokeToken also drops expired entries so the map stays bounded by the
// number of live revoked tokens.
func (m *MemoryRevocations) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, exp := range m.tokens {
		if !now.Before(exp) {
			delete(m.tokens, k)
		}
	}
	m.tokens[jti] = now.Add(ttl)
	return nil
}

func (m *MemoryRevocations) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.tokens[jti]
	return ok && m.now().Before(exp), nil
}

func (m *MemoryRevocations) RevokeUserTokens(_ context.Context, userID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = m.now()
	return nil
}

func (m *MemoryRevocations) UserTokensRevoked(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	revokedAt, ok := m.users[userID]
	return ok && !issuedAt.After(revokedAt), nil
}

var (
	_ RevocationStore = (*RedisRevocations)(nil)
	_ RevocationStore = (*MemoryRevocations)(nil)
)
