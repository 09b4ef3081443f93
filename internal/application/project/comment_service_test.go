package project

import (
	"context"
	"testing"

	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCommentService(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	newFixture := func() (*CommentService, *testutil.MockCommentRepository, *testutil.MockProjectRepository) {
		comments := new(testutil.MockCommentRepository)
		projects := new(testutil.MockProjectRepository)
		return NewCommentService(comments, projects, zap.NewNop()), comments, projects
	}

	t.Run("create records the author", func(t *testing.T) {
		service, comments, projects := newFixture()
		p := newTestProject(t, tenantID, nil)
		author := CommentAuthor{ID: uuid.New(), Name: "João Lima"}
		projects.On("FindByIDForTenant", ctx, tenantID, p.ID).Return(p, nil)
		comments.On("Save", ctx, mock.AnythingOfType("*project.Comment")).Return(nil)

		resp, err := service.Create(ctx, tenantID, author, CreateCommentRequest{ProjectID: p.ID, Text: "  Concretagem da laje adiada  "})

		require.NoError(t, err)
		assert.Equal(t, "Concretagem da laje adiada", resp.Text)
		assert.Equal(t, "João Lima", resp.AuthorName)
		require.NotNil(t, resp.AuthorID)
		assert.Equal(t, author.ID, *resp.AuthorID)
		assert.False(t, resp.Hidden)
	})

	t.Run("create rejects blank text", func(t *testing.T) {
		service, comments, projects := newFixture()
		p := newTestProject(t, tenantID, nil)
		projects.On("FindByIDForTenant", ctx, tenantID, p.ID).Return(p, nil)

		_, err := service.Create(ctx, tenantID, CommentAuthor{}, CreateCommentRequest{ProjectID: p.ID, Text: "   "})

		assert.ErrorIs(t, err, shared.NewDomainError("INVALID_TEXT", ""))
		comments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("delete hides the comment", func(t *testing.T) {
		service, comments, _ := newFixture()
		c, err := project.NewComment(tenantID, uuid.New(), nil, "Ana", "Entrega de blocos confirmada")
		require.NoError(t, err)
		comments.On("FindByIDForTenant", ctx, tenantID, c.ID).Return(c, nil)
		comments.On("Save", ctx, c).Return(nil)

		require.NoError(t, service.Delete(ctx, tenantID, c.ID))

		assert.True(t, c.Hidden)
		comments.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("list leaves hidden comments out by default", func(t *testing.T) {
		service, comments, _ := newFixture()
		comments.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f project.CommentFilter) bool {
			return !f.IncludeHidden && f.OrderDir == "desc"
		})).Return([]project.Comment{}, nil)
		comments.On("CountForTenant", ctx, tenantID, mock.Anything).Return(int64(0), nil)

		items, total, err := service.List(ctx, tenantID, CommentListFilter{})

		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Zero(t, total)
	})
}

func TestWeeklyReportService(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("create snapshots project progress", func(t *testing.T) {
		reports := new(testutil.MockWeeklyReportRepository)
		projects := new(testutil.MockProjectRepository)
		service := NewWeeklyReportService(reports, projects, zap.NewNop())
		p := newTestProject(t, tenantID, nil)
		p.Progress = 42
		projects.On("FindByIDForTenant", ctx, tenantID, p.ID).Return(p, nil)
		reports.On("Save", ctx, mock.AnythingOfType("*project.WeeklyReport")).Return(nil)

		resp, err := service.Create(ctx, tenantID, CreateWeeklyReportRequest{
			ProjectID: p.ID,
			WeekStart: "2024-06-03",
			WeekEnd:   "2024-06-07",
			Summary:   "Alvenaria do 2º pavimento",
			Weather:   "Ensolarado",
		})

		require.NoError(t, err)
		assert.Equal(t, 42, resp.ProjectProgress)
		assert.Equal(t, "2024-06-03", resp.WeekStart)
	})

	t.Run("week end before start", func(t *testing.T) {
		reports := new(testutil.MockWeeklyReportRepository)
		projects := new(testutil.MockProjectRepository)
		service := NewWeeklyReportService(reports, projects, zap.NewNop())
		p := newTestProject(t, tenantID, nil)
		projects.On("FindByIDForTenant", ctx, tenantID, p.ID).Return(p, nil)

		_, err := service.Create(ctx, tenantID, CreateWeeklyReportRequest{
			ProjectID: p.ID,
			WeekStart: "2024-06-07",
			WeekEnd:   "2024-06-03",
			Summary:   "x",
		})

		assert.ErrorIs(t, err, shared.NewDomainError("INVALID_DATE_RANGE", ""))
		reports.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("update keeps the progress snapshot", func(t *testing.T) {
		reports := new(testutil.MockWeeklyReportRepository)
		projects := new(testutil.MockProjectRepository)
		service := NewWeeklyReportService(reports, projects, zap.NewNop())
		p := newTestProject(t, tenantID, nil)
		p.Progress = 10
		r, err := project.NewWeeklyReport(tenantID, p, project.WeeklyReportDetails{
			WeekStart: shared.DateOf(p.CreatedAt),
			WeekEnd:   shared.DateOf(p.CreatedAt),
			Summary:   "Mobilização do canteiro",
		})
		require.NoError(t, err)
		reports.On("FindByIDForTenant", ctx, tenantID, r.ID).Return(r, nil)
		reports.On("Save", ctx, r).Return(nil)

		resp, err := service.Update(ctx, tenantID, r.ID, UpdateWeeklyReportRequest{Issues: strPtr("Chuva forte na quarta")})

		require.NoError(t, err)
		assert.Equal(t, "Chuva forte na quarta", resp.Issues)
		assert.Equal(t, 10, resp.ProjectProgress)
	})
}
