package project

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProjectFilter defines filtering options for project queries
type ProjectFilter struct {
	shared.Filter
	Status     *ProjectStatus
	ClientName string
}

// StageFilter defines filtering options for stage queries
type StageFilter struct {
	shared.Filter
	ProjectID *uuid.UUID
}

// MeasurementFilter defines filtering options for measurement queries
type MeasurementFilter struct {
	shared.Filter
	ProjectID *uuid.UUID
	StageID   *uuid.UUID
	Status    *MeasurementStatus
}

// CommentFilter defines filtering options for comment queries
type CommentFilter struct {
	shared.Filter
	ProjectID     *uuid.UUID
	IncludeHidden bool
}

// WeeklyReportFilter defines filtering options for weekly report queries
type WeeklyReportFilter struct {
	shared.Filter
	ProjectID *uuid.UUID
}

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	// FindByIDForTenant finds a project by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Project, error)
	// FindAllForTenant finds all projects for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ProjectFilter) ([]Project, error)
	// CountForTenant counts projects for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ProjectFilter) (int64, error)
	// CountByClientNameForTenant counts projects referencing a client name
	CountByClientNameForTenant(ctx context.Context, tenantID uuid.UUID, clientName string) (int64, error)
	// Save creates or updates a project
	Save(ctx context.Context, p *Project) error
	// DeleteForTenant deletes a project within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// StageRepository defines the interface for stage persistence
type StageRepository interface {
	// FindByIDForTenant finds a stage by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Stage, error)
	// FindByProjectForTenant returns all stages of a project ordered by their display order
	FindByProjectForTenant(ctx context.Context, tenantID, projectID uuid.UUID) ([]Stage, error)
	// FindAllForTenant finds stages for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter StageFilter) ([]Stage, error)
	// CountForTenant counts stages for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter StageFilter) (int64, error)
	// Save creates or updates a stage
	Save(ctx context.Context, s *Stage) error
	// DeleteForTenant deletes a stage within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// MeasurementRepository defines the interface for measurement persistence
type MeasurementRepository interface {
	// FindByIDForTenant finds a measurement by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Measurement, error)
	// FindByProjectForTenant returns all measurements of a project
	FindByProjectForTenant(ctx context.Context, tenantID, projectID uuid.UUID) ([]Measurement, error)
	// FindAllForTenant finds measurements for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter MeasurementFilter) ([]Measurement, error)
	// CountForTenant counts measurements for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter MeasurementFilter) (int64, error)
	// Save creates or updates a measurement
	Save(ctx context.Context, m *Measurement) error
	// DeleteForTenant deletes a measurement within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// CommentRepository defines the interface for comment persistence
type CommentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Comment, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter CommentFilter) ([]Comment, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter CommentFilter) (int64, error)
	Save(ctx context.Context, c *Comment) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// WeeklyReportRepository defines the interface for weekly report persistence
type WeeklyReportRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*WeeklyReport, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter WeeklyReportFilter) ([]WeeklyReport, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter WeeklyReportFilter) (int64, error)
	Save(ctx context.Context, r *WeeklyReport) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
