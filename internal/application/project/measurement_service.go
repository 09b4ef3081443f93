package project

import (
	"context"
	"errors"
	"time"

	appevent "github.com/erp-obras/backend/internal/application/event"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MeasurementService handles measurement (medição) operations. Payment is
// a workflow trigger and lives in the workflow package.
type MeasurementService struct {
	measurementRepo project.MeasurementRepository
	projectRepo     project.ProjectRepository
	stageRepo       project.StageRepository
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
	now             func() time.Time
}

// NewMeasurementService creates a new MeasurementService
func NewMeasurementService(
	measurementRepo project.MeasurementRepository,
	projectRepo project.ProjectRepository,
	stageRepo project.StageRepository,
	logger *zap.Logger,
) *MeasurementService {
	return &MeasurementService{
		measurementRepo: measurementRepo,
		projectRepo:     projectRepo,
		stageRepo:       stageRepo,
		logger:          logger,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *MeasurementService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a new PENDING measurement
func (s *MeasurementService) Create(ctx context.Context, tenantID uuid.UUID, req CreateMeasurementRequest) (*MeasurementResponse, error) {
	measuredAt, err := shared.ParseDateField("dataMedicao", req.MeasuredAt)
	if err != nil {
		return nil, err
	}
	if _, err := findProject(ctx, s.projectRepo, tenantID, req.ProjectID); err != nil {
		return nil, err
	}
	if err := s.checkStage(ctx, tenantID, req.ProjectID, req.StageID); err != nil {
		return nil, err
	}

	m, err := project.NewMeasurement(tenantID, req.ProjectID, project.MeasurementDetails{
		StageID:         req.StageID,
		Description:     req.Description,
		ExecutedPercent: req.ExecutedPercent,
		Amount:          req.Amount,
		MeasuredAt:      measuredAt,
	})
	if err != nil {
		return nil, err
	}
	if err := s.measurementRepo.Save(ctx, m); err != nil {
		return nil, err
	}

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, m)

	response := ToMeasurementResponse(m)
	return &response, nil
}

// GetByID retrieves a measurement by ID
func (s *MeasurementService) GetByID(ctx context.Context, tenantID, measurementID uuid.UUID) (*MeasurementResponse, error) {
	m, err := s.find(ctx, tenantID, measurementID)
	if err != nil {
		return nil, err
	}
	response := ToMeasurementResponse(m)
	return &response, nil
}

// List retrieves measurements with filtering and pagination
func (s *MeasurementService) List(ctx context.Context, tenantID uuid.UUID, filter MeasurementListFilter) ([]MeasurementResponse, int64, error) {
	page, pageSize := pageDefaults(filter.Page, filter.PageSize)
	domainFilter := project.MeasurementFilter{
		Filter: shared.Filter{
			Page:     page,
			PageSize: pageSize,
			OrderBy:  "measured_at",
			OrderDir: "desc",
		},
		ProjectID: filter.ProjectID,
		StageID:   filter.StageID,
	}
	if filter.Status != "" {
		status := project.MeasurementStatus(filter.Status)
		domainFilter.Status = &status
	}

	measurements, err := s.measurementRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.measurementRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToMeasurementResponses(measurements), total, nil
}

// Update changes a measurement that has not been paid
func (s *MeasurementService) Update(ctx context.Context, tenantID, measurementID uuid.UUID, req UpdateMeasurementRequest) (*MeasurementResponse, error) {
	m, err := s.find(ctx, tenantID, measurementID)
	if err != nil {
		return nil, err
	}

	details := project.MeasurementDetails{
		StageID:         m.StageID,
		Description:     m.Description,
		ExecutedPercent: m.ExecutedPercent,
		Amount:          m.Amount,
		MeasuredAt:      m.MeasuredAt,
	}
	if req.StageID != nil {
		if err := s.checkStage(ctx, tenantID, m.ProjectID, req.StageID); err != nil {
			return nil, err
		}
		details.StageID = req.StageID
	}
	if req.Description != nil {
		details.Description = *req.Description
	}
	if req.ExecutedPercent != nil {
		details.ExecutedPercent = *req.ExecutedPercent
	}
	if req.Amount != nil {
		details.Amount = *req.Amount
	}
	if req.MeasuredAt != nil {
		if details.MeasuredAt, err = shared.ParseDateField("dataMedicao", *req.MeasuredAt); err != nil {
			return nil, err
		}
	}

	if err := m.Update(details); err != nil {
		return nil, err
	}
	if err := s.measurementRepo.Save(ctx, m); err != nil {
		return nil, err
	}

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, m)

	response := ToMeasurementResponse(m)
	return &response, nil
}

// Approve moves a PENDING measurement to APPROVED
func (s *MeasurementService) Approve(ctx context.Context, tenantID, measurementID uuid.UUID) (*MeasurementResponse, error) {
	m, err := s.find(ctx, tenantID, measurementID)
	if err != nil {
		return nil, err
	}
	if err := m.Approve(s.now()); err != nil {
		return nil, err
	}
	if err := s.measurementRepo.Save(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("Measurement approved",
		zap.String("tenant_id", tenantID.String()),
		zap.String("measurement_id", measurementID.String()))

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, m)

	response := ToMeasurementResponse(m)
	return &response, nil
}

// Delete removes a measurement. A paid measurement backs a financial entry
// and cannot be deleted.
func (s *MeasurementService) Delete(ctx context.Context, tenantID, measurementID uuid.UUID) error {
	m, err := s.find(ctx, tenantID, measurementID)
	if err != nil {
		return err
	}
	if m.IsPaid() {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a paid measurement")
	}
	if err := s.measurementRepo.DeleteForTenant(ctx, tenantID, measurementID); err != nil {
		return err
	}

	m.MarkDeleted()
	appevent.PublishPending(ctx, s.eventPublisher, s.logger, m)
	return nil
}

// checkStage verifies that an optional stage belongs to the project
func (s *MeasurementService) checkStage(ctx context.Context, tenantID, projectID uuid.UUID, stageID *uuid.UUID) error {
	if stageID == nil {
		return nil
	}
	stage, err := findStage(ctx, s.stageRepo, tenantID, *stageID)
	if err != nil {
		return err
	}
	if stage.ProjectID != projectID {
		return shared.NewValidationError("Stage does not belong to the project")
	}
	return nil
}

func (s *MeasurementService) find(ctx context.Context, tenantID, measurementID uuid.UUID) (*project.Measurement, error) {
	m, err := s.measurementRepo.FindByIDForTenant(ctx, tenantID, measurementID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Measurement")
		}
		return nil, err
	}
	return m, nil
}
