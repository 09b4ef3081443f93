package project

import (
	"context"
	"errors"

	appevent "github.com/erp-obras/backend/internal/application/event"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WeeklyReportService handles weekly reports (relatórios semanais)
type WeeklyReportService struct {
	reportRepo     project.WeeklyReportRepository
	projectRepo    project.ProjectRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewWeeklyReportService creates a new WeeklyReportService
func NewWeeklyReportService(reportRepo project.WeeklyReportRepository, projectRepo project.ProjectRepository, logger *zap.Logger) *WeeklyReportService {
	return &WeeklyReportService{
		reportRepo:  reportRepo,
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *WeeklyReportService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create files a weekly report, snapshotting the project's current progress
func (s *WeeklyReportService) Create(ctx context.Context, tenantID uuid.UUID, req CreateWeeklyReportRequest) (*WeeklyReportResponse, error) {
	weekStart, err := shared.ParseDateField("semanaInicio", req.WeekStart)
	if err != nil {
		return nil, err
	}
	weekEnd, err := shared.ParseDateField("semanaFim", req.WeekEnd)
	if err != nil {
		return nil, err
	}
	p, err := findProject(ctx, s.projectRepo, tenantID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	r, err := project.NewWeeklyReport(tenantID, p, project.WeeklyReportDetails{
		WeekStart:      weekStart,
		WeekEnd:        weekEnd,
		Summary:        req.Summary,
		Activities:     req.Activities,
		Issues:         req.Issues,
		NextActivities: req.NextActivities,
		Weather:        req.Weather,
	})
	if err != nil {
		return nil, err
	}
	if err := s.reportRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, r)

	response := ToWeeklyReportResponse(r)
	return &response, nil
}

// GetByID retrieves a weekly report by ID
func (s *WeeklyReportService) GetByID(ctx context.Context, tenantID, reportID uuid.UUID) (*WeeklyReportResponse, error) {
	r, err := s.find(ctx, tenantID, reportID)
	if err != nil {
		return nil, err
	}
	response := ToWeeklyReportResponse(r)
	return &response, nil
}

// List retrieves weekly reports, latest week first
func (s *WeeklyReportService) List(ctx context.Context, tenantID uuid.UUID, filter WeeklyReportListFilter) ([]WeeklyReportResponse, int64, error) {
	page, pageSize := pageDefaults(filter.Page, filter.PageSize)
	domainFilter := project.WeeklyReportFilter{
		Filter: shared.Filter{
			Page:     page,
			PageSize: pageSize,
			OrderBy:  "week_start",
			OrderDir: "desc",
		},
		ProjectID: filter.ProjectID,
	}

	reports, err := s.reportRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.reportRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]WeeklyReportResponse, len(reports))
	for i := range reports {
		responses[i] = ToWeeklyReportResponse(&reports[i])
	}
	return responses, total, nil
}

// Update changes a weekly report. The progress snapshot is kept.
func (s *WeeklyReportService) Update(ctx context.Context, tenantID, reportID uuid.UUID, req UpdateWeeklyReportRequest) (*WeeklyReportResponse, error) {
	r, err := s.find(ctx, tenantID, reportID)
	if err != nil {
		return nil, err
	}

	details := project.WeeklyReportDetails{
		WeekStart:      r.WeekStart,
		WeekEnd:        r.WeekEnd,
		Summary:        r.Summary,
		Activities:     r.Activities,
		Issues:         r.Issues,
		NextActivities: r.NextActivities,
		Weather:        r.Weather,
	}
	if req.WeekStart != nil {
		if details.WeekStart, err = shared.ParseDateField("semanaInicio", *req.WeekStart); err != nil {
			return nil, err
		}
	}
	if req.WeekEnd != nil {
		if details.WeekEnd, err = shared.ParseDateField("semanaFim", *req.WeekEnd); err != nil {
			return nil, err
		}
	}
	if req.Summary != nil {
		details.Summary = *req.Summary
	}
	if req.Activities != nil {
		details.Activities = *req.Activities
	}
	if req.Issues != nil {
		details.Issues = *req.Issues
	}
	if req.NextActivities != nil {
		details.NextActivities = *req.NextActivities
	}
	if req.Weather != nil {
		details.Weather = *req.Weather
	}

	if err := r.Update(details); err != nil {
		return nil, err
	}
	if err := s.reportRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	response := ToWeeklyReportResponse(r)
	return &response, nil
}

// Delete removes a weekly report
func (s *WeeklyReportService) Delete(ctx context.Context, tenantID, reportID uuid.UUID) error {
	if _, err := s.find(ctx, tenantID, reportID); err != nil {
		return err
	}
	return s.reportRepo.DeleteForTenant(ctx, tenantID, reportID)
}

func (s *WeeklyReportService) find(ctx context.Context, tenantID, reportID uuid.UUID) (*project.WeeklyReport, error) {
	r, err := s.reportRepo.FindByIDForTenant(ctx, tenantID, reportID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Weekly report")
		}
		return nil, err
	}
	return r, nil
}
