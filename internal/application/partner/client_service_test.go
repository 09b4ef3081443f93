package partner

import (
	"context"
	"testing"

	"github.com/erp-obras/backend/internal/domain/partner"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClientService_Create(t *testing.T) {
	clients := new(testutil.MockClientRepository)
	svc := NewClientService(clients, new(testutil.MockProjectRepository), zap.NewNop())
	tenantID := uuid.New()
	clients.On("Save", mock.Anything, mock.AnythingOfType("*partner.Client")).Return(nil)

	resp, err := svc.Create(context.Background(), tenantID, CreateClientRequest{
		Name:       "Residencial Aurora",
		Document:   "123.456.789-09",
		Street:     "Rua das Flores, 100",
		City:       "Campinas",
		State:      "sp",
		PostalCode: "13010-000",
	})

	require.NoError(t, err)
	assert.Equal(t, "12345678909", resp.Document)
	assert.Equal(t, "SP", resp.State)
	assert.Equal(t, "13010000", resp.PostalCode)
}

func TestClientService_Create_InvalidState(t *testing.T) {
	clients := new(testutil.MockClientRepository)
	svc := NewClientService(clients, new(testutil.MockProjectRepository), zap.NewNop())

	_, err := svc.Create(context.Background(), uuid.New(), CreateClientRequest{Name: "X", State: "XX"})

	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestClientService_Delete(t *testing.T) {
	tenantID := uuid.New()

	t.Run("blocked when a project uses the client name", func(t *testing.T) {
		clients := new(testutil.MockClientRepository)
		projects := new(testutil.MockProjectRepository)
		svc := NewClientService(clients, projects, zap.NewNop())
		client, err := partner.NewClient(tenantID, "Residencial Aurora")
		require.NoError(t, err)
		clients.On("FindByIDForTenant", mock.Anything, tenantID, client.ID).Return(client, nil)
		projects.On("CountByClientNameForTenant", mock.Anything, tenantID, "Residencial Aurora").Return(int64(2), nil)

		err = svc.Delete(context.Background(), tenantID, client.ID)

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrHasDependencies)
		assert.Contains(t, err.Error(), "2 project")
		clients.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deletes unreferenced client", func(t *testing.T) {
		clients := new(testutil.MockClientRepository)
		projects := new(testutil.MockProjectRepository)
		svc := NewClientService(clients, projects, zap.NewNop())
		client, err := partner.NewClient(tenantID, "Condomínio Vista")
		require.NoError(t, err)
		clients.On("FindByIDForTenant", mock.Anything, tenantID, client.ID).Return(client, nil)
		projects.On("CountByClientNameForTenant", mock.Anything, tenantID, "Condomínio Vista").Return(int64(0), nil)
		clients.On("DeleteForTenant", mock.Anything, tenantID, client.ID).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), tenantID, client.ID))
		clients.AssertExpectations(t)
	})
}
