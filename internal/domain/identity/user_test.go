package identity

import (
	"testing"
	"time"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates user with valid fields", func(t *testing.T) {
		user, err := NewUser(tenantID, "Maria Souza", "  Maria@Obra.com.br ", "Password123", RoleManager)

		require.NoError(t, err)
		assert.Equal(t, tenantID, user.TenantID)
		assert.Equal(t, "Maria Souza", user.Name)
		assert.Equal(t, "maria@obra.com.br", user.Email)
		assert.Equal(t, RoleManager, user.Role)
		assert.True(t, user.Active)
		assert.False(t, user.EmailVerified)
		assert.NotEqual(t, "Password123", user.PasswordHash)
		assert.True(t, user.VerifyPassword("Password123"))
		assert.Len(t, user.GetDomainEvents(), 1)
	})

	t.Run("fails with invalid email", func(t *testing.T) {
		_, err := NewUser(tenantID, "Maria", "not-an-email", "Password123", RoleUser)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email")
	})

	t.Run("fails with unknown role", func(t *testing.T) {
		_, err := NewUser(tenantID, "Maria", "maria@obra.com", "Password123", Role("ROOT"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid role")
	})

	t.Run("fails with weak passwords", func(t *testing.T) {
		for _, pw := range []string{"", "Pass1", "onlyletters", "12345678"} {
			_, err := NewUser(tenantID, "Maria", "maria@obra.com", pw, RoleUser)
			assert.Error(t, err, pw)
		}
	})
}

func TestUser_Update(t *testing.T) {
	user, err := NewUser(uuid.New(), "João", "joao@obra.com", "Password123", RoleUser)
	require.NoError(t, err)
	user.EmailVerified = true

	require.NoError(t, user.Update("João Silva", "joao@obra.com", RoleAdmin))
	assert.True(t, user.EmailVerified, "same email keeps verification")
	assert.Equal(t, RoleAdmin, user.Role)

	require.NoError(t, user.Update("João Silva", "joao.silva@obra.com", RoleAdmin))
	assert.False(t, user.EmailVerified, "changed email must be verified again")
}

func TestUser_VerifyEmail(t *testing.T) {
	user, err := NewUser(uuid.New(), "Ana", "ana@obra.com", "Password123", RoleUser)
	require.NoError(t, err)

	token, err := user.IssueVerificationToken()
	require.NoError(t, err)
	assert.Len(t, token, 48)
	assert.NotEqual(t, token, user.VerificationTokenHash)

	err = user.VerifyEmail("wrong")
	assert.ErrorIs(t, err, shared.NewDomainError("INVALID_TOKEN", ""))

	require.NoError(t, user.VerifyEmail(token))
	assert.True(t, user.EmailVerified)
	assert.Empty(t, user.VerificationTokenHash)

	err = user.VerifyEmail(token)
	assert.ErrorIs(t, err, shared.NewDomainError("ALREADY_VERIFIED", ""))
}

func TestUser_Lockout(t *testing.T) {
	user, err := NewUser(uuid.New(), "Ana", "ana@obra.com", "Password123", RoleUser)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		assert.False(t, user.RecordLoginFailure(5, 15*time.Minute))
	}
	assert.True(t, user.CanLogin())

	assert.True(t, user.RecordLoginFailure(5, 15*time.Minute))
	assert.True(t, user.IsLocked())
	assert.False(t, user.CanLogin())

	past := time.Now().Add(-time.Minute)
	user.LockedUntil = &past
	assert.False(t, user.IsLocked())
	assert.True(t, user.CanLogin())

	user.RecordLoginSuccess("10.0.0.1")
	assert.Nil(t, user.LockedUntil)
	assert.Equal(t, "10.0.0.1", user.LastLoginIP)
	assert.NotNil(t, user.LastLoginAt)
}

func TestUser_InactiveCannotLogin(t *testing.T) {
	user, err := NewUser(uuid.New(), "Ana", "ana@obra.com", "Password123", RoleUser)
	require.NoError(t, err)
	user.SetActive(false)
	assert.False(t, user.CanLogin())
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, RoleAdmin.Can(PermissionDelete))
	assert.True(t, RoleAdmin.Can(PermissionManageUsers))
	assert.False(t, RoleManager.Can(PermissionDelete))
	assert.True(t, RoleManager.Can(PermissionApprove))
	assert.False(t, RoleUser.Can(PermissionApprove))
	assert.True(t, RoleUser.Can(PermissionWrite))
	assert.False(t, Role("GUEST").IsValid())
	assert.Empty(t, Role("GUEST").Permissions())
}

func TestNewCompany(t *testing.T) {
	c, err := NewCompany("Construtora Alfa", "12.345.678/0001-90", "contato@alfa.com.br", "")
	require.NoError(t, err)
	assert.Equal(t, "12345678000190", c.TaxID)
	assert.True(t, c.Active)

	_, err = NewCompany("", "", "", "")
	assert.Error(t, err)

	_, err = NewCompany("Alfa", "123", "", "")
	assert.Error(t, err)
}
