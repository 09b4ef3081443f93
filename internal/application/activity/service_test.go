package activity

import (
	"context"
	"errors"
	"testing"

	"github.com/erp-obras/backend/internal/domain/activity"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_Append(t *testing.T) {
	ctx := context.Background()
	tenantID, userID, entityID := uuid.New(), uuid.New(), uuid.New()

	t.Run("records the entry", func(t *testing.T) {
		repo := new(testutil.MockActivityRepository)
		repo.On("Append", ctx, mock.MatchedBy(func(e *activity.Entry) bool {
			return e.TenantID == tenantID && e.Action == "EXPORT" && *e.UserID == userID
		})).Return(nil)
		s := NewService(repo, zap.NewNop())

		resp, err := s.Append(ctx, tenantID, &userID, AppendRequest{
			Action:      " EXPORT ",
			EntityType:  "Project",
			EntityID:    &entityID,
			Description: "Relatório exportado",
		})

		require.NoError(t, err)
		assert.Equal(t, "EXPORT", resp.Action)
		assert.Equal(t, tenantID, resp.CompanyID)
		assert.NotNil(t, resp.Details)
		repo.AssertExpectations(t)
	})

	t.Run("blank action", func(t *testing.T) {
		repo := new(testutil.MockActivityRepository)
		s := NewService(repo, zap.NewNop())

		_, err := s.Append(ctx, tenantID, nil, AppendRequest{Action: "  "})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()
	tenantID, id := uuid.New(), uuid.New()

	t.Run("not found", func(t *testing.T) {
		repo := new(testutil.MockActivityRepository)
		repo.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := NewService(repo, zap.NewNop()).GetByID(ctx, tenantID, id)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Contains(t, err.Error(), "Activity log entry not found")
	})

	t.Run("found", func(t *testing.T) {
		repo := new(testutil.MockActivityRepository)
		repo.On("FindByIDForTenant", ctx, tenantID, id).Return(&activity.Entry{ID: id, TenantID: tenantID, Action: "CREATED"}, nil)

		resp, err := NewService(repo, zap.NewNop()).GetByID(ctx, tenantID, id)

		require.NoError(t, err)
		assert.Equal(t, id, resp.ID)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	tenantID, entityID := uuid.New(), uuid.New()
	repo := new(testutil.MockActivityRepository)
	repo.On("ListForTenant", ctx, tenantID, activity.Filter{Limit: 50, EntityType: "Project", EntityID: &entityID}).
		Return([]activity.Entry{{Action: "Project.updated"}, {Action: "Project.created"}}, nil)

	got, err := NewService(repo, zap.NewNop()).List(ctx, tenantID, ListFilter{Limit: 50, EntityType: "Project", EntityID: &entityID})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Project.updated", got[0].Action)
}

func TestRecorder_Handle(t *testing.T) {
	tenantID, aggID, userID := uuid.New(), uuid.New(), uuid.New()

	t.Run("records event with acting user", func(t *testing.T) {
		ctx := context.Background()
		repo := new(testutil.MockActivityRepository)
		repo.On("Append", ctx, mock.MatchedBy(func(e *activity.Entry) bool {
			return e.Action == "Client.created" &&
				e.EntityType == "Client" &&
				*e.EntityID == aggID &&
				e.UserID != nil && *e.UserID == userID &&
				e.Description == "Cliente Alfa criado"
		})).Return(nil)
		r := NewRecorder(repo, func(context.Context) *uuid.UUID { return &userID }, zap.NewNop())

		err := r.Handle(ctx, shared.NewEntityChangedEvent("Client", shared.ActionCreated, aggID, tenantID, "Cliente Alfa criado"))

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("system events have no user", func(t *testing.T) {
		ctx := context.Background()
		repo := new(testutil.MockActivityRepository)
		repo.On("Append", ctx, mock.MatchedBy(func(e *activity.Entry) bool { return e.UserID == nil })).Return(nil)

		err := NewRecorder(repo, nil, zap.NewNop()).Handle(ctx, shared.NewEntityChangedEvent("Client", shared.ActionDeleted, aggID, tenantID, ""))

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("events without tenant are skipped", func(t *testing.T) {
		repo := new(testutil.MockActivityRepository)

		err := NewRecorder(repo, nil, zap.NewNop()).Handle(context.Background(), shared.NewEntityChangedEvent("Client", shared.ActionCreated, aggID, uuid.Nil, ""))

		require.NoError(t, err)
		repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("repository failure is returned", func(t *testing.T) {
		ctx := context.Background()
		repo := new(testutil.MockActivityRepository)
		repo.On("Append", ctx, mock.Anything).Return(errors.New("db down"))

		err := NewRecorder(repo, nil, zap.NewNop()).Handle(ctx, shared.NewEntityChangedEvent("Client", shared.ActionUpdated, aggID, tenantID, ""))

		assert.EqualError(t, err, "db down")
	})

	assert.Nil(t, NewRecorder(nil, nil, zap.NewNop()).EventTypes())
}
