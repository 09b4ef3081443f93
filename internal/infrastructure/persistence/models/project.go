package models

import (
	"time"

	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectModel is the persistence model for the Project (obra) aggregate
type ProjectModel struct {
	TenantModel
	Name          string                `gorm:"type:varchar(200);not null"`
	ClientID      *uuid.UUID            `gorm:"type:uuid"`
	ClientName    string                `gorm:"type:varchar(200);index"`
	Street        string                `gorm:"type:varchar(300)"`
	City          string                `gorm:"type:varchar(100)"`
	State         string                `gorm:"type:varchar(2)"`
	PostalCode    string                `gorm:"type:varchar(8)"`
	StartDate     *time.Time            `gorm:"type:date"`
	EndDate       *time.Time            `gorm:"type:date"`
	MaterialsCost decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	LaborCost     decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Progress      int                   `gorm:"not null;default:0"`
	Status        project.ProjectStatus `gorm:"type:varchar(20);not null;default:'IN_PROGRESS'"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project
func (m *ProjectModel) ToDomain() *project.Project {
	return &project.Project{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Name:                m.Name,
		ClientID:            m.ClientID,
		ClientName:          m.ClientName,
		Address:             valueobject.RestoreAddress(m.Street, m.City, m.State, m.PostalCode),
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		MaterialsCost:       m.MaterialsCost,
		LaborCost:           m.LaborCost,
		Progress:            m.Progress,
		Status:              m.Status,
	}
}

// ProjectModelFromDomain creates a persistence model from a domain Project
func ProjectModelFromDomain(p *project.Project) *ProjectModel {
	m := &ProjectModel{
		Name:          p.Name,
		ClientID:      p.ClientID,
		ClientName:    p.ClientName,
		Street:        p.Address.Street(),
		City:          p.Address.City(),
		State:         p.Address.State(),
		PostalCode:    p.Address.PostalCode(),
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		MaterialsCost: p.MaterialsCost,
		LaborCost:     p.LaborCost,
		Progress:      p.Progress,
		Status:        p.Status,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}

// StageModel is the persistence model for the Stage (etapa) entity
type StageModel struct {
	TenantModel
	ProjectID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Description     string          `gorm:"type:text"`
	StartDate       time.Time       `gorm:"type:date;not null"`
	EndDate         time.Time       `gorm:"type:date;not null"`
	PlannedPercent  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	ExecutedPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	SortOrder       int             `gorm:"column:sort_order;not null;default:0"`
}

// TableName returns the table name for GORM
func (StageModel) TableName() string {
	return "stages"
}

// ToDomain converts the persistence model to a domain Stage
func (m *StageModel) ToDomain() *project.Stage {
	return &project.Stage{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		ProjectID:           m.ProjectID,
		Name:                m.Name,
		Description:         m.Description,
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		PlannedPercent:      m.PlannedPercent,
		ExecutedPercent:     m.ExecutedPercent,
		Order:               m.SortOrder,
	}
}

// StageModelFromDomain creates a persistence model from a domain Stage
func StageModelFromDomain(s *project.Stage) *StageModel {
	m := &StageModel{
		ProjectID:       s.ProjectID,
		Name:            s.Name,
		Description:     s.Description,
		StartDate:       s.StartDate,
		EndDate:         s.EndDate,
		PlannedPercent:  s.PlannedPercent,
		ExecutedPercent: s.ExecutedPercent,
		SortOrder:       s.Order,
	}
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	return m
}

// MeasurementModel is the persistence model for the Measurement (medição) entity
type MeasurementModel struct {
	TenantModel
	ProjectID       uuid.UUID                 `gorm:"type:uuid;not null;index"`
	StageID         *uuid.UUID                `gorm:"type:uuid;index"`
	Description     string                    `gorm:"type:text"`
	ExecutedPercent decimal.Decimal           `gorm:"type:decimal(5,2);not null;default:0"`
	Amount          decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
	MeasuredAt      time.Time                 `gorm:"type:date;not null"`
	Status          project.MeasurementStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	EntryID         *uuid.UUID                `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	PaidAt          *time.Time
}

// TableName returns the table name for GORM
func (MeasurementModel) TableName() string {
	return "measurements"
}

// ToDomain converts the persistence model to a domain Measurement
func (m *MeasurementModel) ToDomain() *project.Measurement {
	return &project.Measurement{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		ProjectID:           m.ProjectID,
		StageID:             m.StageID,
		Description:         m.Description,
		ExecutedPercent:     m.ExecutedPercent,
		Amount:              m.Amount,
		MeasuredAt:          m.MeasuredAt,
		Status:              m.Status,
		EntryID:             m.EntryID,
		ApprovedAt:          m.ApprovedAt,
		PaidAt:              m.PaidAt,
	}
}

// MeasurementModelFromDomain creates a persistence model from a domain Measurement
func MeasurementModelFromDomain(ms *project.Measurement) *MeasurementModel {
	m := &MeasurementModel{
		ProjectID:       ms.ProjectID,
		StageID:         ms.StageID,
		Description:     ms.Description,
		ExecutedPercent: ms.ExecutedPercent,
		Amount:          ms.Amount,
		MeasuredAt:      ms.MeasuredAt,
		Status:          ms.Status,
		EntryID:         ms.EntryID,
		ApprovedAt:      ms.ApprovedAt,
		PaidAt:          ms.PaidAt,
	}
	m.FromDomainTenantAggregateRoot(ms.TenantAggregateRoot)
	return m
}

// CommentModel is the persistence model for project comments
type CommentModel struct {
	TenantModel
	ProjectID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	AuthorID   *uuid.UUID `gorm:"type:uuid"`
	AuthorName string     `gorm:"type:varchar(200)"`
	Text       string     `gorm:"type:text;not null"`
	Hidden     bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CommentModel) TableName() string {
	return "project_comments"
}

// ToDomain converts the persistence model to a domain Comment
func (m *CommentModel) ToDomain() *project.Comment {
	return &project.Comment{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		ProjectID:           m.ProjectID,
		AuthorID:            m.AuthorID,
		AuthorName:          m.AuthorName,
		Text:                m.Text,
		Hidden:              m.Hidden,
	}
}

// CommentModelFromDomain creates a persistence model from a domain Comment
func CommentModelFromDomain(c *project.Comment) *CommentModel {
	m := &CommentModel{
		ProjectID:  c.ProjectID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Text:       c.Text,
		Hidden:     c.Hidden,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// WeeklyReportModel is the persistence model for weekly site reports
type WeeklyReportModel struct {
	TenantModel
	ProjectID       uuid.UUID `gorm:"type:uuid;not null;index"`
	WeekStart       time.Time `gorm:"type:date;not null"`
	WeekEnd         time.Time `gorm:"type:date;not null"`
	Summary         string    `gorm:"type:text"`
	Activities      string    `gorm:"type:text"`
	Issues          string    `gorm:"type:text"`
	NextActivities  string    `gorm:"type:text"`
	Weather         string    `gorm:"type:varchar(100)"`
	ProjectProgress int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (WeeklyReportModel) TableName() string {
	return "weekly_reports"
}

// ToDomain converts the persistence model to a domain WeeklyReport
func (m *WeeklyReportModel) ToDomain() *project.WeeklyReport {
	return &project.WeeklyReport{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		ProjectID:           m.ProjectID,
		WeekStart:           m.WeekStart,
		WeekEnd:             m.WeekEnd,
		Summary:             m.Summary,
		Activities:          m.Activities,
		Issues:              m.Issues,
		NextActivities:      m.NextActivities,
		Weather:             m.Weather,
		ProjectProgress:     m.ProjectProgress,
	}
}

// WeeklyReportModelFromDomain creates a persistence model from a domain WeeklyReport
func WeeklyReportModelFromDomain(r *project.WeeklyReport) *WeeklyReportModel {
	m := &WeeklyReportModel{
		ProjectID:       r.ProjectID,
		WeekStart:       r.WeekStart,
		WeekEnd:         r.WeekEnd,
		Summary:         r.Summary,
		Activities:      r.Activities,
		Issues:          r.Issues,
		NextActivities:  r.NextActivities,
		Weather:         r.Weather,
		ProjectProgress: r.ProjectProgress,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}
