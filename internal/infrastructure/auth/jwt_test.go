package auth

import (
	"testing"
	"time"

	"github.com/erp-obras/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "erp-obras-test",
		MaxRefreshCount:        3,
	}
}

func engineer() GenerateTokenInput {
	return GenerateTokenInput{
		TenantID:    uuid.New(),
		UserID:      uuid.New(),
		Email:       "eng@construtora.com.br",
		Role:        "MANAGER",
		Permissions: []string{"records:read", "records:write", "records:approve"},
	}
}

func TestGenerateTokenPair_Claims(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	in := engineer()

	before := time.Now().Truncate(time.Second)
	pair, err := svc.GenerateTokenPair(in)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), pair.AccessTokenExpiresAt, time.Second)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), pair.RefreshTokenExpiresAt, time.Second)

	access, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, in.TenantID.String(), access.TenantID)
	assert.Equal(t, in.UserID.String(), access.UserID)
	assert.Equal(t, in.UserID.String(), access.Subject)
	assert.Equal(t, in.Email, access.Email)
	assert.Equal(t, in.Role, access.Role)
	assert.Equal(t, in.Permissions, access.Permissions)
	assert.Equal(t, TokenTypeAccess, access.TokenType)
	assert.Equal(t, "erp-obras-test", access.Issuer)
	assert.False(t, access.GetIssuedAtTime().Before(before))

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
	assert.Empty(t, refresh.Permissions, "refresh tokens carry identity only")
	assert.Empty(t, refresh.Role)
	assert.Zero(t, refresh.RefreshCount)

	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestValidate_Rejections(t *testing.T) {
	cfg := testJWTConfig()
	svc := NewJWTService(cfg)
	pair, err := svc.GenerateTokenPair(engineer())
	require.NoError(t, err)

	expiredCfg := cfg
	expiredCfg.AccessTokenExpiration = -time.Minute
	expired, err := NewJWTService(expiredCfg).GenerateTokenPair(engineer())
	require.NoError(t, err)

	otherSecret := cfg
	otherSecret.Secret = "another-secret-key-of-32-chars!!"
	forged, err := NewJWTService(otherSecret).GenerateTokenPair(engineer())
	require.NoError(t, err)

	otherIssuer := cfg
	otherIssuer.Issuer = "someone-else"
	foreign, err := NewJWTService(otherIssuer).GenerateTokenPair(engineer())
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		TenantID: uuid.NewString(), UserID: uuid.NewString(), TokenType: TokenTypeAccess,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-jwt", ErrInvalidToken},
		{"expired", expired.AccessToken, ErrExpiredToken},
		{"signed with another secret", forged.AccessToken, ErrInvalidToken},
		{"issued by another service", foreign.AccessToken, ErrInvalidToken},
		{"unsigned", noneToken, ErrInvalidToken},
		{"refresh token used as access", pair.RefreshToken, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_TokenTypeWithSharedSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.RefreshSecret = ""
	svc := NewJWTService(cfg)

	pair, err := svc.GenerateTokenPair(engineer())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidate_MissingIdentity(t *testing.T) {
	cfg := testJWTConfig()
	svc := NewJWTService(cfg)

	token, err := svc.sign(svc.access, time.Now(), &Claims{UserID: uuid.NewString()})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestRefreshTokenPair(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	in := engineer()

	pair, err := svc.GenerateTokenPair(in)
	require.NoError(t, err)

	t.Run("reloads role and permissions", func(t *testing.T) {
		demoted := in
		demoted.Role = "VIEWER"
		demoted.Permissions = []string{"records:read"}

		next, err := svc.RefreshTokenPair(pair.RefreshToken, demoted)
		require.NoError(t, err)

		access, err := svc.ValidateAccessToken(next.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "VIEWER", access.Role)
		assert.False(t, access.HasPermission("records:approve"))

		refresh, err := svc.ValidateRefreshToken(next.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1, refresh.RefreshCount)
	})

	t.Run("stops at the refresh limit", func(t *testing.T) {
		token := pair.RefreshToken
		for i := 0; i < 3; i++ {
			next, err := svc.RefreshTokenPair(token, in)
			require.NoError(t, err, "refresh %d", i+1)
			token = next.RefreshToken
		}
		_, err := svc.RefreshTokenPair(token, in)
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})

	t.Run("rejects another user", func(t *testing.T) {
		_, err := svc.RefreshTokenPair(pair.RefreshToken, engineer())
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("rejects access tokens", func(t *testing.T) {
		_, err := svc.RefreshTokenPair(pair.AccessToken, in)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClaims_Helpers(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	claims := &Claims{
		TenantID:    tenantID.String(),
		UserID:      userID.String(),
		Permissions: []string{"records:read", "users:manage"},
	}

	got, err := claims.GetTenantUUID()
	require.NoError(t, err)
	assert.Equal(t, tenantID, got)
	got, err = claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	assert.True(t, claims.HasPermission("users:manage"))
	assert.False(t, claims.HasPermission("records:delete"))
	assert.True(t, claims.HasAnyPermission("records:delete", "records:read"))
	assert.False(t, claims.HasAnyPermission())

	assert.True(t, claims.GetIssuedAtTime().IsZero())
	assert.Zero(t, claims.GetRemainingTTL())
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	assert.Zero(t, claims.GetRemainingTTL())
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(10 * time.Minute))
	assert.InDelta(t, (10 * time.Minute).Seconds(), claims.GetRemainingTTL().Seconds(), 2)

	_, err = (&Claims{TenantID: "obra-1"}).GetTenantUUID()
	assert.Error(t, err)
}
