package project

import (
	"context"
	"testing"
	"time"

	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type measurementFixture struct {
	service      *MeasurementService
	measurements *testutil.MockMeasurementRepository
	projects     *testutil.MockProjectRepository
	stages       *testutil.MockStageRepository
	publisher    *testutil.RecordingPublisher
	now          time.Time
}

func newMeasurementFixture() *measurementFixture {
	f := &measurementFixture{
		measurements: new(testutil.MockMeasurementRepository),
		projects:     new(testutil.MockProjectRepository),
		stages:       new(testutil.MockStageRepository),
		publisher:    testutil.NewRecordingPublisher(),
		now:          time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC),
	}
	f.service = NewMeasurementService(f.measurements, f.projects, f.stages, zap.NewNop())
	f.service.SetEventPublisher(f.publisher)
	f.service.now = func() time.Time { return f.now }
	return f
}

func newTestMeasurement(t *testing.T, tenantID, projectID uuid.UUID) *project.Measurement {
	t.Helper()
	m, err := project.NewMeasurement(tenantID, projectID, project.MeasurementDetails{
		Description:     "Estrutura - 2ª medição",
		ExecutedPercent: decimal.NewFromInt(30),
		Amount:          decimal.NewFromInt(15000),
		MeasuredAt:      time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	m.ClearDomainEvents()
	return m
}

func TestMeasurementService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates a pending measurement", func(t *testing.T) {
		f := newMeasurementFixture()
		p := newTestProject(t, tenantID, nil)
		stage := newTestStage(t, tenantID, p.ID, 40, 0)
		stageID := stage.ID
		f.projects.On("FindByIDForTenant", ctx, tenantID, p.ID).Return(p, nil)
		f.stages.On("FindByIDForTenant", ctx, tenantID, stageID).Return(stage, nil)
		f.measurements.On("Save", ctx, mock.AnythingOfType("*project.Measurement")).Return(nil)

		resp, err := f.service.Create(ctx, tenantID, CreateMeasurementRequest{
			ProjectID:       p.ID,
			StageID:         &stageID,
			Description:     "Fundação - 1ª medição",
			ExecutedPercent: decimal.NewFromInt(25),
			Amount:          decimal.NewFromInt(12000),
			MeasuredAt:      "2024-06-05",
		})

		require.NoError(t, err)
		assert.Equal(t, string(project.MeasurementStatusPending), resp.Status)
		assert.Equal(t, "2024-06-05", resp.MeasuredAt)
		assert.Nil(t, resp.EntryID)
		assert.Len(t, f.publisher.Events(), 1)
	})

	t.Run("stage from another project", func(t *testing.T) {
		f := newMeasurementFixture()
		p := newTestProject(t, tenantID, nil)
		stage := newTestStage(t, tenantID, uuid.New(), 40, 0)
		stageID := stage.ID
		f.projects.On("FindByIDForTenant", ctx, tenantID, p.ID).Return(p, nil)
		f.stages.On("FindByIDForTenant", ctx, tenantID, stageID).Return(stage, nil)

		_, err := f.service.Create(ctx, tenantID, CreateMeasurementRequest{
			ProjectID:   p.ID,
			StageID:     &stageID,
			Description: "Fundação",
			MeasuredAt:  "2024-06-05",
		})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		f.measurements.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestMeasurementService_Approve(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newMeasurementFixture()
	m := newTestMeasurement(t, tenantID, uuid.New())
	f.measurements.On("FindByIDForTenant", ctx, tenantID, m.ID).Return(m, nil)
	f.measurements.On("Save", ctx, m).Return(nil)

	resp, err := f.service.Approve(ctx, tenantID, m.ID)

	require.NoError(t, err)
	assert.Equal(t, string(project.MeasurementStatusApproved), resp.Status)
	require.NotNil(t, resp.ApprovedAt)
	assert.Equal(t, f.now, *resp.ApprovedAt)
	assert.Equal(t, []string{project.EventTypeMeasurementApproved}, f.publisher.EventTypes())

	_, err = f.service.Approve(ctx, tenantID, m.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestMeasurementService_PaidIsFrozen(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newMeasurementFixture()
	m := newTestMeasurement(t, tenantID, uuid.New())
	require.NoError(t, m.MarkPaid(uuid.New(), f.now))
	f.measurements.On("FindByIDForTenant", ctx, tenantID, m.ID).Return(m, nil)

	_, err := f.service.Update(ctx, tenantID, m.ID, UpdateMeasurementRequest{Description: strPtr("Outra")})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	err = f.service.Delete(ctx, tenantID, m.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.measurements.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestMeasurementService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newMeasurementFixture()
	m := newTestMeasurement(t, tenantID, uuid.New())
	f.measurements.On("FindByIDForTenant", ctx, tenantID, m.ID).Return(m, nil)
	f.measurements.On("DeleteForTenant", ctx, tenantID, m.ID).Return(nil)

	require.NoError(t, f.service.Delete(ctx, tenantID, m.ID))
	assert.Len(t, f.publisher.Events(), 1)
}

func TestMeasurementService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newMeasurementFixture()
	projectID := uuid.New()
	m := newTestMeasurement(t, tenantID, projectID)
	f.measurements.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(filter project.MeasurementFilter) bool {
		return filter.ProjectID != nil && *filter.ProjectID == projectID &&
			filter.Status != nil && *filter.Status == project.MeasurementStatusPending
	})).Return([]project.Measurement{*m}, nil)
	f.measurements.On("CountForTenant", ctx, tenantID, mock.Anything).Return(int64(1), nil)

	items, total, err := f.service.List(ctx, tenantID, MeasurementListFilter{ProjectID: &projectID, Status: "PENDING"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)
}
