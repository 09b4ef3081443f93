package identity

import (
	"context"
	"testing"
	"time"

	"github.com/erp-obras/backend/internal/domain/identity"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/internal/infrastructure/auth"
	"github.com/erp-obras/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserServiceFixture() (*UserService, *testutil.MockUserRepository, *auth.MemoryRevocations) {
	users := new(testutil.MockUserRepository)
	revocations := auth.NewMemoryRevocations()
	return NewUserService(users, revocations, time.Hour, zap.NewNop()), users, revocations
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestUserService_Create(t *testing.T) {
	tenantID := uuid.New()

	t.Run("adds user to company", func(t *testing.T) {
		svc, users, _ := newUserServiceFixture()
		users.On("ExistsByEmail", mock.Anything, "joao@horizonte.com").Return(false, nil)
		users.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := svc.Create(context.Background(), tenantID, CreateUserRequest{
			Name:     "João",
			Email:    "joao@horizonte.com",
			Password: "senha1234",
			Role:     "USER",
		})

		require.NoError(t, err)
		assert.Equal(t, tenantID, resp.CompanyID)
		assert.Equal(t, "USER", resp.Role)
		assert.True(t, resp.Active)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, users, _ := newUserServiceFixture()
		users.On("ExistsByEmail", mock.Anything, "joao@horizonte.com").Return(true, nil)

		_, err := svc.Create(context.Background(), tenantID, CreateUserRequest{
			Name: "João", Email: "joao@horizonte.com", Password: "senha1234", Role: "USER",
		})

		assertCode(t, err, "EMAIL_ALREADY_EXISTS")
	})
}

func TestUserService_Update(t *testing.T) {
	tenantID := uuid.New()

	t.Run("refuses to demote the last admin", func(t *testing.T) {
		svc, users, _ := newUserServiceFixture()
		admin := newTestUser(t, tenantID, "ana@horizonte.com", identity.RoleAdmin)
		users.On("FindByIDForTenant", mock.Anything, tenantID, admin.ID).Return(admin, nil)
		users.On("CountAdminsForTenant", mock.Anything, tenantID).Return(int64(1), nil)

		_, err := svc.Update(context.Background(), tenantID, admin.ID, UpdateUserRequest{Role: strPtr("USER")})

		assertCode(t, err, "LAST_ADMIN")
		assert.Equal(t, identity.RoleAdmin, admin.Role)
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("role change revokes sessions", func(t *testing.T) {
		svc, users, revocations := newUserServiceFixture()
		admin := newTestUser(t, tenantID, "ana@horizonte.com", identity.RoleAdmin)
		users.On("FindByIDForTenant", mock.Anything, tenantID, admin.ID).Return(admin, nil)
		users.On("CountAdminsForTenant", mock.Anything, tenantID).Return(int64(2), nil)
		users.On("Save", mock.Anything, admin).Return(nil)
		issuedBefore := time.Now().Add(-time.Second)

		resp, err := svc.Update(context.Background(), tenantID, admin.ID, UpdateUserRequest{
			Role:   strPtr("MANAGER"),
			Active: boolPtr(false),
		})

		require.NoError(t, err)
		assert.Equal(t, "MANAGER", resp.Role)
		assert.False(t, resp.Active)
		revoked, err := revocations.UserTokensRevoked(context.Background(), admin.ID.String(), issuedBefore)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("email already in use", func(t *testing.T) {
		svc, users, _ := newUserServiceFixture()
		user := newTestUser(t, tenantID, "ana@horizonte.com", identity.RoleUser)
		users.On("FindByIDForTenant", mock.Anything, tenantID, user.ID).Return(user, nil)
		users.On("ExistsByEmail", mock.Anything, "outro@horizonte.com").Return(true, nil)

		_, err := svc.Update(context.Background(), tenantID, user.ID, UpdateUserRequest{Email: strPtr("outro@horizonte.com")})

		assertCode(t, err, "EMAIL_ALREADY_EXISTS")
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, users, _ := newUserServiceFixture()
		id := uuid.New()
		users.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(context.Background(), tenantID, id, UpdateUserRequest{Name: strPtr("X")})

		assertCode(t, err, "NOT_FOUND")
	})
}

func TestUserService_Delete(t *testing.T) {
	tenantID := uuid.New()

	t.Run("cannot delete self", func(t *testing.T) {
		svc, users, _ := newUserServiceFixture()
		id := uuid.New()

		err := svc.Delete(context.Background(), tenantID, id, id)

		assertCode(t, err, "CANNOT_DELETE_SELF")
		users.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("keeps the last admin", func(t *testing.T) {
		svc, users, _ := newUserServiceFixture()
		admin := newTestUser(t, tenantID, "ana@horizonte.com", identity.RoleAdmin)
		users.On("FindByIDForTenant", mock.Anything, tenantID, admin.ID).Return(admin, nil)
		users.On("CountAdminsForTenant", mock.Anything, tenantID).Return(int64(1), nil)

		err := svc.Delete(context.Background(), tenantID, uuid.New(), admin.ID)

		assertCode(t, err, "LAST_ADMIN")
		users.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deletes a regular user", func(t *testing.T) {
		svc, users, _ := newUserServiceFixture()
		publisher := testutil.NewRecordingPublisher()
		svc.SetEventPublisher(publisher)
		user := newTestUser(t, tenantID, "joao@horizonte.com", identity.RoleUser)
		users.On("FindByIDForTenant", mock.Anything, tenantID, user.ID).Return(user, nil)
		users.On("DeleteForTenant", mock.Anything, tenantID, user.ID).Return(nil)

		err := svc.Delete(context.Background(), tenantID, uuid.New(), user.ID)

		require.NoError(t, err)
		require.Len(t, publisher.Events(), 1)
		users.AssertExpectations(t)
	})
}

func TestUserService_List(t *testing.T) {
	svc, users, _ := newUserServiceFixture()
	tenantID := uuid.New()
	user := newTestUser(t, tenantID, "ana@horizonte.com", identity.RoleManager)
	users.On("FindAllForTenant", mock.Anything, tenantID, mock.MatchedBy(func(f identity.UserFilter) bool {
		return f.Role != nil && *f.Role == identity.RoleManager && f.PageSize == 20
	})).Return([]identity.User{*user}, nil)
	users.On("CountForTenant", mock.Anything, tenantID, mock.Anything).Return(int64(1), nil)

	items, total, err := svc.List(context.Background(), tenantID, UserListFilter{Role: "MANAGER"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "ana@horizonte.com", items[0].Email)
}
