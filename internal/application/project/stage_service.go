package project

import (
	"context"
	"errors"
	"time"

	appevent "github.com/erp-obras/backend/internal/application/event"
	"github.com/erp-obras/backend/internal/application/workflow"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StageService handles stage (etapa) operations. Every stage write
// recomputes the owning project's progress and status in the same
// transaction.
type StageService struct {
	stageRepo      project.StageRepository
	txScope        workflow.TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewStageService creates a new StageService
func NewStageService(stageRepo project.StageRepository, txScope workflow.TransactionScope, logger *zap.Logger) *StageService {
	return &StageService{
		stageRepo: stageRepo,
		txScope:   txScope,
		logger:    logger,
		now:       time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *StageService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a stage to a project after checking the planned weights
func (s *StageService) Create(ctx context.Context, tenantID uuid.UUID, req CreateStageRequest) (*StageMutationResult, error) {
	startDate, err := shared.ParseDateField("dataInicio", req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := shared.ParseDateField("dataFim", req.EndDate)
	if err != nil {
		return nil, err
	}

	var stage *project.Stage
	var p *project.Project
	err = s.txScope.Execute(ctx, func(repos workflow.TransactionalRepositories) error {
		if _, err := findProject(ctx, repos.ProjectRepo(), tenantID, req.ProjectID); err != nil {
			return err
		}
		existing, err := repos.StageRepo().FindByProjectForTenant(ctx, tenantID, req.ProjectID)
		if err != nil {
			return err
		}
		if err := project.ValidateStageWeight(existing, uuid.Nil, req.PlannedPercent); err != nil {
			return err
		}

		stage, err = project.NewStage(tenantID, req.ProjectID, project.StageDetails{
			Name:            req.Name,
			Description:     req.Description,
			StartDate:       startDate,
			EndDate:         endDate,
			PlannedPercent:  req.PlannedPercent,
			ExecutedPercent: req.ExecutedPercent,
			Order:           req.Order,
		})
		if err != nil {
			return err
		}
		if err := repos.StageRepo().Save(ctx, stage); err != nil {
			return err
		}

		p, err = s.recalculate(ctx, repos, tenantID, req.ProjectID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stage created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("project_id", req.ProjectID.String()),
		zap.String("stage_id", stage.ID.String()),
		zap.Int("progress", p.Progress))

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, stage, p)
	return mutationResult(stage, p), nil
}

// GetByID retrieves a stage by ID
func (s *StageService) GetByID(ctx context.Context, tenantID, stageID uuid.UUID) (*StageResponse, error) {
	stage, err := findStage(ctx, s.stageRepo, tenantID, stageID)
	if err != nil {
		return nil, err
	}
	response := ToStageResponse(stage)
	return &response, nil
}

// List retrieves stages, optionally of one project
func (s *StageService) List(ctx context.Context, tenantID uuid.UUID, filter StageListFilter) ([]StageResponse, int64, error) {
	page, pageSize := pageDefaults(filter.Page, filter.PageSize)
	domainFilter := project.StageFilter{
		Filter: shared.Filter{
			Page:     page,
			PageSize: pageSize,
			OrderBy:  "sort_order",
			OrderDir: "asc",
			Search:   filter.Search,
		},
		ProjectID: filter.ProjectID,
	}

	stages, err := s.stageRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.stageRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToStageResponses(stages), total, nil
}

// Update changes a stage. The project is recomputed when either percentage
// was part of the request.
func (s *StageService) Update(ctx context.Context, tenantID, stageID uuid.UUID, req UpdateStageRequest) (*StageMutationResult, error) {
	var stage *project.Stage
	var p *project.Project
	err := s.txScope.Execute(ctx, func(repos workflow.TransactionalRepositories) error {
		var err error
		stage, err = findStage(ctx, repos.StageRepo(), tenantID, stageID)
		if err != nil {
			return err
		}

		details := project.StageDetails{
			Name:            stage.Name,
			Description:     stage.Description,
			StartDate:       stage.StartDate,
			EndDate:         stage.EndDate,
			PlannedPercent:  stage.PlannedPercent,
			ExecutedPercent: stage.ExecutedPercent,
			Order:           stage.Order,
		}
		if req.Name != nil {
			details.Name = *req.Name
		}
		if req.Description != nil {
			details.Description = *req.Description
		}
		if req.StartDate != nil {
			if details.StartDate, err = shared.ParseDateField("dataInicio", *req.StartDate); err != nil {
				return err
			}
		}
		if req.EndDate != nil {
			if details.EndDate, err = shared.ParseDateField("dataFim", *req.EndDate); err != nil {
				return err
			}
		}
		if req.ExecutedPercent != nil {
			details.ExecutedPercent = *req.ExecutedPercent
		}
		if req.Order != nil {
			details.Order = *req.Order
		}
		if req.PlannedPercent != nil {
			existing, err := repos.StageRepo().FindByProjectForTenant(ctx, tenantID, stage.ProjectID)
			if err != nil {
				return err
			}
			if err := project.ValidateStageWeight(existing, stage.ID, *req.PlannedPercent); err != nil {
				return err
			}
			details.PlannedPercent = *req.PlannedPercent
		}

		if err := stage.Update(details); err != nil {
			return err
		}
		if err := repos.StageRepo().Save(ctx, stage); err != nil {
			return err
		}

		if req.PlannedPercent == nil && req.ExecutedPercent == nil {
			return nil
		}
		p, err = s.recalculate(ctx, repos, tenantID, stage.ProjectID)
		return err
	})
	if err != nil {
		return nil, err
	}

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, stage)
	if p != nil {
		appevent.PublishPending(ctx, s.eventPublisher, s.logger, p)
	}
	return mutationResult(stage, p), nil
}

// Delete removes a stage that no measurement references, then recomputes
// the project
func (s *StageService) Delete(ctx context.Context, tenantID, stageID uuid.UUID) (*StageMutationResult, error) {
	var stage *project.Stage
	var p *project.Project
	err := s.txScope.Execute(ctx, func(repos workflow.TransactionalRepositories) error {
		var err error
		stage, err = findStage(ctx, repos.StageRepo(), tenantID, stageID)
		if err != nil {
			return err
		}

		measurements, err := repos.MeasurementRepo().CountForTenant(ctx, tenantID, project.MeasurementFilter{StageID: &stageID})
		if err != nil {
			return err
		}
		if measurements > 0 {
			return shared.NewDependencyError("Cannot delete stage: %d measurement(s) reference it", measurements)
		}

		if err := repos.StageRepo().DeleteForTenant(ctx, tenantID, stageID); err != nil {
			return err
		}
		p, err = s.recalculate(ctx, repos, tenantID, stage.ProjectID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stage deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("stage_id", stageID.String()),
		zap.Int("progress", p.Progress))

	stage.MarkDeleted()
	appevent.PublishPending(ctx, s.eventPublisher, s.logger, stage, p)
	return &StageMutationResult{Project: projectResponse(p)}, nil
}

// RecalculateProjectProgress recomputes and persists a project's progress
// and status from its current stages
func (s *StageService) RecalculateProjectProgress(ctx context.Context, tenantID, projectID uuid.UUID) (*ProjectResponse, error) {
	var p *project.Project
	err := s.txScope.Execute(ctx, func(repos workflow.TransactionalRepositories) error {
		var err error
		p, err = s.recalculate(ctx, repos, tenantID, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	appevent.PublishPending(ctx, s.eventPublisher, s.logger, p)
	return projectResponse(p), nil
}

// recalculate loads the project and all of its stages, applies the progress
// engine and saves the project when something changed
func (s *StageService) recalculate(ctx context.Context, repos workflow.TransactionalRepositories, tenantID, projectID uuid.UUID) (*project.Project, error) {
	p, err := findProject(ctx, repos.ProjectRepo(), tenantID, projectID)
	if err != nil {
		return nil, err
	}
	stages, err := repos.StageRepo().FindByProjectForTenant(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	if !project.Recalculate(p, stages, s.now()) {
		return p, nil
	}
	if err := repos.ProjectRepo().Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func findStage(ctx context.Context, repo project.StageRepository, tenantID, stageID uuid.UUID) (*project.Stage, error) {
	stage, err := repo.FindByIDForTenant(ctx, tenantID, stageID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Stage")
		}
		return nil, err
	}
	return stage, nil
}

func projectResponse(p *project.Project) *ProjectResponse {
	if p == nil {
		return nil
	}
	response := ToProjectResponse(p)
	return &response
}

func mutationResult(stage *project.Stage, p *project.Project) *StageMutationResult {
	response := ToStageResponse(stage)
	return &StageMutationResult{Stage: &response, Project: projectResponse(p)}
}
