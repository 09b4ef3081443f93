package activity

import (
	"testing"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	tenantID := uuid.New()

	e, err := NewEntry(tenantID, nil, "LOGIN", "User", nil, "Maria logged in", nil)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.NotNil(t, e.Details)

	nilUser := uuid.Nil
	e, err = NewEntry(tenantID, &nilUser, "LOGIN", "User", nil, "", nil)
	require.NoError(t, err)
	assert.Nil(t, e.UserID)

	_, err = NewEntry(uuid.Nil, nil, "LOGIN", "", nil, "", nil)
	assert.Error(t, err)

	_, err = NewEntry(tenantID, nil, "  ", "", nil, "", nil)
	assert.Error(t, err)
}

func TestFromEvent(t *testing.T) {
	tenantID, aggID := uuid.New(), uuid.New()
	event := shared.NewEntityChangedEvent("Project", shared.ActionCreated, aggID, tenantID, "Project \"Casa\" created")

	e, err := FromEvent(event, nil)
	require.NoError(t, err)
	assert.Equal(t, "Project.created", e.Action)
	assert.Equal(t, "Project", e.EntityType)
	assert.Equal(t, aggID, *e.EntityID)
	assert.Equal(t, "Project \"Casa\" created", e.Description)
	assert.Equal(t, "Project.created", e.Details["event_type"])
}

func TestFilter_EffectiveLimit(t *testing.T) {
	assert.Equal(t, MaxListSize, Filter{}.EffectiveLimit())
	assert.Equal(t, MaxListSize, Filter{Limit: 5000}.EffectiveLimit())
	assert.Equal(t, 50, Filter{Limit: 50}.EffectiveLimit())
}
