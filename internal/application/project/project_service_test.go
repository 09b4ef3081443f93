package project

import (
	"context"
	"testing"

	"github.com/erp-obras/backend/internal/domain/finance"
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

type projectFixture struct {
	service      *ProjectService
	projects     *testutil.MockProjectRepository
	stages       *testutil.MockStageRepository
	measurements *testutil.MockMeasurementRepository
	entries      *testutil.MockFinancialEntryRepository
}

func newProjectFixture() *projectFixture {
	f := &projectFixture{
		projects:     new(testutil.MockProjectRepository),
		stages:       new(testutil.MockStageRepository),
		measurements: new(testutil.MockMeasurementRepository),
		entries:      new(testutil.MockFinancialEntryRepository),
	}
	f.service = NewProjectService(f.projects, f.stages, f.measurements, f.entries, zap.NewNop())
	return f
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates an in-progress project", func(t *testing.T) {
		f := newProjectFixture()
		publisher := testutil.NewRecordingPublisher()
		f.service.SetEventPublisher(publisher)
		f.projects.On("Save", ctx, mock.AnythingOfType("*project.Project")).Return(nil)

		resp, err := f.service.Create(ctx, tenantID, CreateProjectRequest{
			Name:          "Edifício Aurora",
			ClientName:    "Construtora Horizonte",
			Street:        "Av. Paulista, 1000",
			City:          "São Paulo",
			State:         "SP",
			PostalCode:    "01310-100",
			StartDate:     strPtr("2024-02-01"),
			EndDate:       strPtr("2025-02-01"),
			MaterialsCost: decimal.NewFromInt(150000),
			LaborCost:     decimal.NewFromInt(90000),
		})

		require.NoError(t, err)
		assert.Equal(t, string(project.ProjectStatusInProgress), resp.Status)
		assert.Equal(t, "Em andamento", resp.StatusLabel)
		assert.True(t, decimal.NewFromInt(240000).Equal(resp.TotalCost))
		assert.Equal(t, "2024-02-01", *resp.StartDate)
		assert.Equal(t, 0, resp.Progress)
		assert.Len(t, publisher.Events(), 1)
	})

	t.Run("manual progress on a new project", func(t *testing.T) {
		f := newProjectFixture()
		f.projects.On("Save", ctx, mock.AnythingOfType("*project.Project")).Return(nil)

		resp, err := f.service.Create(ctx, tenantID, CreateProjectRequest{
			Name:     "Reforma Loja Centro",
			Progress: intPtr(35),
		})

		require.NoError(t, err)
		assert.Equal(t, 35, resp.Progress)
	})

	t.Run("end before start", func(t *testing.T) {
		f := newProjectFixture()

		_, err := f.service.Create(ctx, tenantID, CreateProjectRequest{
			Name:      "Galpão Industrial",
			StartDate: strPtr("2024-06-01"),
			EndDate:   strPtr("2024-01-01"),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.NewDomainError("INVALID_DATE_RANGE", ""))
		f.projects.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProjectService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("progress is derived once stages exist", func(t *testing.T) {
		f := newProjectFixture()
		p := newTestProject(t, tenantID, nil)
		projectID := p.ID
		f.projects.On("FindByIDForTenant", ctx, tenantID, projectID).Return(p, nil)
		f.stages.On("CountForTenant", ctx, tenantID, project.StageFilter{ProjectID: &projectID}).Return(int64(3), nil)

		_, err := f.service.Update(ctx, tenantID, projectID, UpdateProjectRequest{Progress: intPtr(50)})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.NewDomainError("PROGRESS_DERIVED", ""))
		f.projects.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("manual progress without stages", func(t *testing.T) {
		f := newProjectFixture()
		p := newTestProject(t, tenantID, nil)
		projectID := p.ID
		f.projects.On("FindByIDForTenant", ctx, tenantID, projectID).Return(p, nil)
		f.stages.On("CountForTenant", ctx, tenantID, project.StageFilter{ProjectID: &projectID}).Return(int64(0), nil)
		f.projects.On("Save", ctx, p).Return(nil)

		resp, err := f.service.Update(ctx, tenantID, projectID, UpdateProjectRequest{
			Progress: intPtr(50),
			Status:   strPtr(string(project.ProjectStatusPaused)),
		})

		require.NoError(t, err)
		assert.Equal(t, 50, resp.Progress)
		assert.Equal(t, "Paralisada", resp.StatusLabel)
	})

	t.Run("partial address update keeps the other fields", func(t *testing.T) {
		f := newProjectFixture()
		p := newTestProject(t, tenantID, nil)
		f.projects.On("FindByIDForTenant", ctx, tenantID, p.ID).Return(p, nil)
		f.projects.On("Save", ctx, p).Return(nil)

		resp, err := f.service.Update(ctx, tenantID, p.ID, UpdateProjectRequest{City: strPtr("Valinhos")})

		require.NoError(t, err)
		assert.Equal(t, "Valinhos", resp.City)
		assert.Equal(t, "Rua das Flores, 100", resp.Street)
		assert.Equal(t, "SP", resp.State)
	})

	t.Run("not found", func(t *testing.T) {
		f := newProjectFixture()
		id := uuid.New()
		f.projects.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.Update(ctx, tenantID, id, UpdateProjectRequest{Name: strPtr("X")})

		require.Error(t, err)
		assert.Equal(t, "Project not found", err.Error())
	})
}

func TestProjectService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("blocked by dependents", func(t *testing.T) {
		f := newProjectFixture()
		p := newTestProject(t, tenantID, nil)
		projectID := p.ID
		f.projects.On("FindByIDForTenant", ctx, tenantID, projectID).Return(p, nil)
		f.entries.On("CountForTenant", ctx, tenantID, finance.EntryFilter{ProjectID: &projectID}).Return(int64(4), nil)
		f.stages.On("CountForTenant", ctx, tenantID, project.StageFilter{ProjectID: &projectID}).Return(int64(2), nil)
		f.measurements.On("CountForTenant", ctx, tenantID, project.MeasurementFilter{ProjectID: &projectID}).Return(int64(0), nil)

		err := f.service.Delete(ctx, tenantID, projectID)

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrHasDependencies)
		assert.Contains(t, err.Error(), "4 financial entry(ies), 2 stage(s) and 0 measurement(s)")
		f.projects.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deletes an empty project", func(t *testing.T) {
		f := newProjectFixture()
		p := newTestProject(t, tenantID, nil)
		projectID := p.ID
		f.projects.On("FindByIDForTenant", ctx, tenantID, projectID).Return(p, nil)
		f.entries.On("CountForTenant", ctx, tenantID, mock.Anything).Return(int64(0), nil)
		f.stages.On("CountForTenant", ctx, tenantID, mock.Anything).Return(int64(0), nil)
		f.measurements.On("CountForTenant", ctx, tenantID, mock.Anything).Return(int64(0), nil)
		f.projects.On("DeleteForTenant", ctx, tenantID, projectID).Return(nil)

		require.NoError(t, f.service.Delete(ctx, tenantID, projectID))
		f.projects.AssertExpectations(t)
	})
}

func TestProjectService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newProjectFixture()
	p := newTestProject(t, tenantID, nil)
	f.projects.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(filter project.ProjectFilter) bool {
		return filter.Status != nil && *filter.Status == project.ProjectStatusLate && filter.PageSize == 20
	})).Return([]project.Project{*p}, nil)
	f.projects.On("CountForTenant", ctx, tenantID, mock.Anything).Return(int64(1), nil)

	items, total, err := f.service.List(ctx, tenantID, ProjectListFilter{Status: string(project.ProjectStatusLate)})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, p.ID, items[0].ID)
}
