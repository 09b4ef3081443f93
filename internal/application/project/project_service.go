package project

import (
	"context"
	"errors"
	"strings"

	appevent "github.com/erp-obras/backend/internal/application/event"
	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProjectService handles project (obra) operations
type ProjectService struct {
	projectRepo     project.ProjectRepository
	stageRepo       project.StageRepository
	measurementRepo project.MeasurementRepository
	entryRepo       finance.FinancialEntryRepository
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo project.ProjectRepository,
	stageRepo project.StageRepository,
	measurementRepo project.MeasurementRepository,
	entryRepo finance.FinancialEntryRepository,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo:     projectRepo,
		stageRepo:       stageRepo,
		measurementRepo: measurementRepo,
		entryRepo:       entryRepo,
		logger:          logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ProjectService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new project
func (s *ProjectService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProjectRequest) (*ProjectResponse, error) {
	addr, err := valueobject.NewAddress(req.Street, req.City, req.State, req.PostalCode)
	if err != nil {
		return nil, shared.NewValidationError("%s", err.Error())
	}
	startDate, err := shared.ParseOptionalDateField("dataInicio", req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := shared.ParseOptionalDateField("dataFim", req.EndDate)
	if err != nil {
		return nil, err
	}

	p, err := project.NewProject(tenantID, project.ProjectDetails{
		Name:          req.Name,
		ClientID:      req.ClientID,
		ClientName:    req.ClientName,
		Address:       addr,
		StartDate:     startDate,
		EndDate:       endDate,
		MaterialsCost: req.MaterialsCost,
		LaborCost:     req.LaborCost,
	})
	if err != nil {
		return nil, err
	}
	if req.Status != "" {
		if err := p.SetStatus(project.ProjectStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	// a new project has no stages, so its progress is still user-set
	if req.Progress != nil {
		if err := p.SetManualProgress(*req.Progress); err != nil {
			return nil, err
		}
	}

	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Project created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("project_id", p.ID.String()))

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, p)

	response := ToProjectResponse(p)
	return &response, nil
}

// GetByID retrieves a project by ID
func (s *ProjectService) GetByID(ctx context.Context, tenantID, projectID uuid.UUID) (*ProjectResponse, error) {
	p, err := s.find(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	response := ToProjectResponse(p)
	return &response, nil
}

// List retrieves projects with filtering and pagination
func (s *ProjectService) List(ctx context.Context, tenantID uuid.UUID, filter ProjectListFilter) ([]ProjectResponse, int64, error) {
	page, pageSize := pageDefaults(filter.Page, filter.PageSize)
	domainFilter := project.ProjectFilter{
		Filter: shared.Filter{
			Page:     page,
			PageSize: pageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
			Search:   filter.Search,
		},
		ClientName: strings.TrimSpace(filter.ClientName),
	}
	if filter.Status != "" {
		status := project.ProjectStatus(filter.Status)
		domainFilter.Status = &status
	}

	projects, err := s.projectRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.projectRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProjectResponses(projects), total, nil
}

// Update updates a project. Progress can only be set by hand while the
// project has no stages; afterwards it is derived from them.
func (s *ProjectService) Update(ctx context.Context, tenantID, projectID uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	p, err := s.find(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}

	details := project.ProjectDetails{
		Name:          p.Name,
		ClientID:      p.ClientID,
		ClientName:    p.ClientName,
		Address:       p.Address,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		MaterialsCost: p.MaterialsCost,
		LaborCost:     p.LaborCost,
	}
	if req.Name != nil {
		details.Name = *req.Name
	}
	if req.ClientID != nil {
		details.ClientID = req.ClientID
	}
	if req.ClientName != nil {
		details.ClientName = *req.ClientName
	}
	if req.Street != nil || req.City != nil || req.State != nil || req.PostalCode != nil {
		street, city, state, cep := p.Address.Street(), p.Address.City(), p.Address.State(), p.Address.PostalCode()
		if req.Street != nil {
			street = *req.Street
		}
		if req.City != nil {
			city = *req.City
		}
		if req.State != nil {
			state = *req.State
		}
		if req.PostalCode != nil {
			cep = *req.PostalCode
		}
		addr, err := valueobject.NewAddress(street, city, state, cep)
		if err != nil {
			return nil, shared.NewValidationError("%s", err.Error())
		}
		details.Address = addr
	}
	if req.StartDate != nil {
		if details.StartDate, err = shared.ParseOptionalDateField("dataInicio", req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if details.EndDate, err = shared.ParseOptionalDateField("dataFim", req.EndDate); err != nil {
			return nil, err
		}
	}
	if req.MaterialsCost != nil {
		details.MaterialsCost = *req.MaterialsCost
	}
	if req.LaborCost != nil {
		details.LaborCost = *req.LaborCost
	}

	if err := p.Update(details); err != nil {
		return nil, err
	}
	if req.Status != nil {
		if err := p.SetStatus(project.ProjectStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.Progress != nil && *req.Progress != p.Progress {
		stages, err := s.stageRepo.CountForTenant(ctx, tenantID, project.StageFilter{ProjectID: &projectID})
		if err != nil {
			return nil, err
		}
		if stages > 0 {
			return nil, shared.NewDomainError("PROGRESS_DERIVED",
				"Progress is calculated from the project stages and cannot be set directly")
		}
		if err := p.SetManualProgress(*req.Progress); err != nil {
			return nil, err
		}
	}

	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, p)

	response := ToProjectResponse(p)
	return &response, nil
}

// Delete deletes a project that owns no financial entries, stages or
// measurements
func (s *ProjectService) Delete(ctx context.Context, tenantID, projectID uuid.UUID) error {
	p, err := s.find(ctx, tenantID, projectID)
	if err != nil {
		return err
	}

	entries, err := s.entryRepo.CountForTenant(ctx, tenantID, finance.EntryFilter{ProjectID: &projectID})
	if err != nil {
		return err
	}
	stages, err := s.stageRepo.CountForTenant(ctx, tenantID, project.StageFilter{ProjectID: &projectID})
	if err != nil {
		return err
	}
	measurements, err := s.measurementRepo.CountForTenant(ctx, tenantID, project.MeasurementFilter{ProjectID: &projectID})
	if err != nil {
		return err
	}
	if entries > 0 || stages > 0 || measurements > 0 {
		return shared.NewDependencyError(
			"Cannot delete project: it has %d financial entry(ies), %d stage(s) and %d measurement(s)",
			entries, stages, measurements)
	}

	if err := s.projectRepo.DeleteForTenant(ctx, tenantID, projectID); err != nil {
		return err
	}

	s.logger.Info("Project deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("project_id", projectID.String()))

	p.MarkDeleted()
	appevent.PublishPending(ctx, s.eventPublisher, s.logger, p)
	return nil
}

func (s *ProjectService) find(ctx context.Context, tenantID, projectID uuid.UUID) (*project.Project, error) {
	return findProject(ctx, s.projectRepo, tenantID, projectID)
}

func findProject(ctx context.Context, repo project.ProjectRepository, tenantID, projectID uuid.UUID) (*project.Project, error) {
	p, err := repo.FindByIDForTenant(ctx, tenantID, projectID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Project")
		}
		return nil, err
	}
	return p, nil
}
