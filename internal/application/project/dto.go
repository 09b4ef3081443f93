package project

import (
	"time"

	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Project DTOs
// =============================================================================

// CreateProjectRequest represents a request to create a project (obra)
type CreateProjectRequest struct {
	Name          string          `json:"nome" binding:"required,min=1,max=200"`
	ClientID      *uuid.UUID      `json:"clienteId"`
	ClientName    string          `json:"clienteNome" binding:"max=200"`
	Street        string          `json:"endereco" binding:"max=500"`
	City          string          `json:"cidade" binding:"max=100"`
	State         string          `json:"estado" binding:"omitempty,len=2"`
	PostalCode    string          `json:"cep" binding:"max=10"`
	StartDate     *string         `json:"dataInicio" binding:"omitempty,datetime=2006-01-02"`
	EndDate       *string         `json:"dataFim" binding:"omitempty,datetime=2006-01-02"`
	MaterialsCost decimal.Decimal `json:"custoMateriais"`
	LaborCost     decimal.Decimal `json:"custoMaoObra"`
	Status        string          `json:"status" binding:"omitempty,oneof=IN_PROGRESS COMPLETED PAUSED LATE CANCELLED"`
	Progress      *int            `json:"progresso" binding:"omitempty,min=0,max=100"`
}

// UpdateProjectRequest represents a request to update a project. Nil fields
// keep their current value.
type UpdateProjectRequest struct {
	Name          *string          `json:"nome" binding:"omitempty,min=1,max=200"`
	ClientID      *uuid.UUID       `json:"clienteId"`
	ClientName    *string          `json:"clienteNome" binding:"omitempty,max=200"`
	Street        *string          `json:"endereco" binding:"omitempty,max=500"`
	City          *string          `json:"cidade" binding:"omitempty,max=100"`
	State         *string          `json:"estado" binding:"omitempty,len=2"`
	PostalCode    *string          `json:"cep" binding:"omitempty,max=10"`
	StartDate     *string          `json:"dataInicio" binding:"omitempty,datetime=2006-01-02"`
	EndDate       *string          `json:"dataFim" binding:"omitempty,datetime=2006-01-02"`
	MaterialsCost *decimal.Decimal `json:"custoMateriais"`
	LaborCost     *decimal.Decimal `json:"custoMaoObra"`
	Status        *string          `json:"status" binding:"omitempty,oneof=IN_PROGRESS COMPLETED PAUSED LATE CANCELLED"`
	Progress      *int             `json:"progresso" binding:"omitempty,min=0,max=100"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID            uuid.UUID       `json:"id"`
	CompanyID     uuid.UUID       `json:"companyId"`
	Name          string          `json:"nome"`
	ClientID      *uuid.UUID      `json:"clienteId,omitempty"`
	ClientName    string          `json:"clienteNome"`
	Street        string          `json:"endereco"`
	City          string          `json:"cidade"`
	State         string          `json:"estado"`
	PostalCode    string          `json:"cep"`
	StartDate     *string         `json:"dataInicio"`
	EndDate       *string         `json:"dataFim"`
	MaterialsCost decimal.Decimal `json:"custoMateriais"`
	LaborCost     decimal.Decimal `json:"custoMaoObra"`
	TotalCost     decimal.Decimal `json:"custoTotal"`
	Progress      int             `json:"progresso"`
	Status        string          `json:"status"`
	StatusLabel   string          `json:"statusLabel"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ProjectListFilter represents filter options for the project list
type ProjectListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=IN_PROGRESS COMPLETED PAUSED LATE CANCELLED"`
	ClientName string `form:"clienteNome"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size" binding:"omitempty,max=100"`
}

// ToProjectResponse converts a domain Project to ProjectResponse
func ToProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:            p.ID,
		CompanyID:     p.TenantID,
		Name:          p.Name,
		ClientID:      p.ClientID,
		ClientName:    p.ClientName,
		Street:        p.Address.Street(),
		City:          p.Address.City(),
		State:         p.Address.State(),
		PostalCode:    p.Address.PostalCode(),
		StartDate:     shared.FormatDatePtr(p.StartDate),
		EndDate:       shared.FormatDatePtr(p.EndDate),
		MaterialsCost: p.MaterialsCost,
		LaborCost:     p.LaborCost,
		TotalCost:     p.TotalCost(),
		Progress:      p.Progress,
		Status:        p.Status.String(),
		StatusLabel:   p.Status.DisplayName(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToProjectResponses converts a slice of projects
func ToProjectResponses(projects []project.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = ToProjectResponse(&projects[i])
	}
	return responses
}

// =============================================================================
// Stage DTOs
// =============================================================================

// CreateStageRequest represents a request to create a stage (etapa)
type CreateStageRequest struct {
	ProjectID       uuid.UUID       `json:"obraId" binding:"required"`
	Name            string          `json:"nome" binding:"required,min=1,max=200"`
	Description     string          `json:"descricao"`
	StartDate       string          `json:"dataInicio" binding:"required,datetime=2006-01-02"`
	EndDate         string          `json:"dataFim" binding:"required,datetime=2006-01-02"`
	PlannedPercent  decimal.Decimal `json:"percentualPrevisto"`
	ExecutedPercent decimal.Decimal `json:"percentualExecutado"`
	Order           int             `json:"ordem" binding:"min=0"`
}

// UpdateStageRequest represents a request to update a stage
type UpdateStageRequest struct {
	Name            *string          `json:"nome" binding:"omitempty,min=1,max=200"`
	Description     *string          `json:"descricao"`
	StartDate       *string          `json:"dataInicio" binding:"omitempty,datetime=2006-01-02"`
	EndDate         *string          `json:"dataFim" binding:"omitempty,datetime=2006-01-02"`
	PlannedPercent  *decimal.Decimal `json:"percentualPrevisto"`
	ExecutedPercent *decimal.Decimal `json:"percentualExecutado"`
	Order           *int             `json:"ordem" binding:"omitempty,min=0"`
}

// StageResponse represents a stage in API responses
type StageResponse struct {
	ID              uuid.UUID       `json:"id"`
	CompanyID       uuid.UUID       `json:"companyId"`
	ProjectID       uuid.UUID       `json:"obraId"`
	Name            string          `json:"nome"`
	Description     string          `json:"descricao"`
	StartDate       string          `json:"dataInicio"`
	EndDate         string          `json:"dataFim"`
	PlannedPercent  decimal.Decimal `json:"percentualPrevisto"`
	ExecutedPercent decimal.Decimal `json:"percentualExecutado"`
	Order           int             `json:"ordem"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// StageListFilter represents filter options for the stage list
type StageListFilter struct {
	ProjectID *uuid.UUID `form:"-"`
	Search    string     `form:"search"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size" binding:"omitempty,max=100"`
}

// StageMutationResult is returned by stage writes: the stage and the
// project as recomputed in the same transaction
type StageMutationResult struct {
	Stage   *StageResponse   `json:"etapa,omitempty"`
	Project *ProjectResponse `json:"obra,omitempty"`
}

// ToStageResponse converts a domain Stage to StageResponse
func ToStageResponse(s *project.Stage) StageResponse {
	return StageResponse{
		ID:              s.ID,
		CompanyID:       s.TenantID,
		ProjectID:       s.ProjectID,
		Name:            s.Name,
		Description:     s.Description,
		StartDate:       shared.FormatDate(s.StartDate),
		EndDate:         shared.FormatDate(s.EndDate),
		PlannedPercent:  s.PlannedPercent,
		ExecutedPercent: s.ExecutedPercent,
		Order:           s.Order,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// ToStageResponses converts a slice of stages
func ToStageResponses(stages []project.Stage) []StageResponse {
	responses := make([]StageResponse, len(stages))
	for i := range stages {
		responses[i] = ToStageResponse(&stages[i])
	}
	return responses
}

// =============================================================================
// Measurement DTOs
// =============================================================================

// CreateMeasurementRequest represents a request to create a measurement (medição)
type CreateMeasurementRequest struct {
	ProjectID       uuid.UUID       `json:"obraId" binding:"required"`
	StageID         *uuid.UUID      `json:"etapaId"`
	Description     string          `json:"descricao" binding:"required,min=1,max=500"`
	ExecutedPercent decimal.Decimal `json:"percentualExecutado"`
	Amount          decimal.Decimal `json:"valorMedido"`
	MeasuredAt      string          `json:"dataMedicao" binding:"required,datetime=2006-01-02"`
}

// UpdateMeasurementRequest represents a request to update a measurement
type UpdateMeasurementRequest struct {
	StageID         *uuid.UUID       `json:"etapaId"`
	Description     *string          `json:"descricao" binding:"omitempty,min=1,max=500"`
	ExecutedPercent *decimal.Decimal `json:"percentualExecutado"`
	Amount          *decimal.Decimal `json:"valorMedido"`
	MeasuredAt      *string          `json:"dataMedicao" binding:"omitempty,datetime=2006-01-02"`
}

// MeasurementResponse represents a measurement in API responses
type MeasurementResponse struct {
	ID              uuid.UUID       `json:"id"`
	CompanyID       uuid.UUID       `json:"companyId"`
	ProjectID       uuid.UUID       `json:"obraId"`
	StageID         *uuid.UUID      `json:"etapaId,omitempty"`
	Description     string          `json:"descricao"`
	ExecutedPercent decimal.Decimal `json:"percentualExecutado"`
	Amount          decimal.Decimal `json:"valorMedido"`
	MeasuredAt      string          `json:"dataMedicao"`
	Status          string          `json:"status"`
	EntryID         *uuid.UUID      `json:"lancamentoGeradoId,omitempty"`
	ApprovedAt      *time.Time      `json:"aprovadaEm,omitempty"`
	PaidAt          *time.Time      `json:"pagaEm,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// MeasurementListFilter represents filter options for the measurement list
type MeasurementListFilter struct {
	ProjectID *uuid.UUID `form:"-"`
	StageID   *uuid.UUID `form:"-"`
	Status    string     `form:"status" binding:"omitempty,oneof=PENDING APPROVED PAID"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size" binding:"omitempty,max=100"`
}

// ToMeasurementResponse converts a domain Measurement to MeasurementResponse
func ToMeasurementResponse(m *project.Measurement) MeasurementResponse {
	return MeasurementResponse{
		ID:              m.ID,
		CompanyID:       m.TenantID,
		ProjectID:       m.ProjectID,
		StageID:         m.StageID,
		Description:     m.Description,
		ExecutedPercent: m.ExecutedPercent,
		Amount:          m.Amount,
		MeasuredAt:      shared.FormatDate(m.MeasuredAt),
		Status:          m.Status.String(),
		EntryID:         m.EntryID,
		ApprovedAt:      m.ApprovedAt,
		PaidAt:          m.PaidAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ToMeasurementResponses converts a slice of measurements
func ToMeasurementResponses(measurements []project.Measurement) []MeasurementResponse {
	responses := make([]MeasurementResponse, len(measurements))
	for i := range measurements {
		responses[i] = ToMeasurementResponse(&measurements[i])
	}
	return responses
}

// =============================================================================
// Comment DTOs
// =============================================================================

// CreateCommentRequest represents a request to comment on a project
type CreateCommentRequest struct {
	ProjectID uuid.UUID `json:"obraId" binding:"required"`
	Text      string    `json:"texto" binding:"required,min=1,max=4000"`
}

// UpdateCommentRequest represents a request to edit a comment
type UpdateCommentRequest struct {
	Text string `json:"texto" binding:"required,min=1,max=4000"`
}

// CommentAuthor identifies the user writing a comment
type CommentAuthor struct {
	ID   uuid.UUID
	Name string
}

// CommentResponse represents a comment in API responses
type CommentResponse struct {
	ID         uuid.UUID  `json:"id"`
	CompanyID  uuid.UUID  `json:"companyId"`
	ProjectID  uuid.UUID  `json:"obraId"`
	AuthorID   *uuid.UUID `json:"autorId,omitempty"`
	AuthorName string     `json:"autorNome"`
	Text       string     `json:"texto"`
	Hidden     bool       `json:"oculto"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// CommentListFilter represents filter options for the comment list
type CommentListFilter struct {
	ProjectID     *uuid.UUID `form:"-"`
	IncludeHidden bool       `form:"incluirOcultos"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size" binding:"omitempty,max=100"`
}

// ToCommentResponse converts a domain Comment to CommentResponse
func ToCommentResponse(c *project.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		CompanyID:  c.TenantID,
		ProjectID:  c.ProjectID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Text:       c.Text,
		Hidden:     c.Hidden,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// =============================================================================
// Weekly report DTOs
// =============================================================================

// CreateWeeklyReportRequest represents a request to file a weekly report
type CreateWeeklyReportRequest struct {
	ProjectID      uuid.UUID `json:"obraId" binding:"required"`
	WeekStart      string    `json:"semanaInicio" binding:"required,datetime=2006-01-02"`
	WeekEnd        string    `json:"semanaFim" binding:"required,datetime=2006-01-02"`
	Summary        string    `json:"resumo" binding:"required,min=1"`
	Activities     string    `json:"atividadesRealizadas"`
	Issues         string    `json:"problemas"`
	NextActivities string    `json:"proximasAtividades"`
	Weather        string    `json:"clima" binding:"max=100"`
}

// UpdateWeeklyReportRequest represents a request to update a weekly report
type UpdateWeeklyReportRequest struct {
	WeekStart      *string `json:"semanaInicio" binding:"omitempty,datetime=2006-01-02"`
	WeekEnd        *string `json:"semanaFim" binding:"omitempty,datetime=2006-01-02"`
	Summary        *string `json:"resumo" binding:"omitempty,min=1"`
	Activities     *string `json:"atividadesRealizadas"`
	Issues         *string `json:"problemas"`
	NextActivities *string `json:"proximasAtividades"`
	Weather        *string `json:"clima" binding:"omitempty,max=100"`
}

// WeeklyReportResponse represents a weekly report in API responses
type WeeklyReportResponse struct {
	ID              uuid.UUID `json:"id"`
	CompanyID       uuid.UUID `json:"companyId"`
	ProjectID       uuid.UUID `json:"obraId"`
	WeekStart       string    `json:"semanaInicio"`
	WeekEnd         string    `json:"semanaFim"`
	Summary         string    `json:"resumo"`
	Activities      string    `json:"atividadesRealizadas"`
	Issues          string    `json:"problemas"`
	NextActivities  string    `json:"proximasAtividades"`
	Weather         string    `json:"clima"`
	ProjectProgress int       `json:"progressoObra"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// WeeklyReportListFilter represents filter options for the weekly report list
type WeeklyReportListFilter struct {
	ProjectID *uuid.UUID `form:"-"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size" binding:"omitempty,max=100"`
}

// ToWeeklyReportResponse converts a domain WeeklyReport to WeeklyReportResponse
func ToWeeklyReportResponse(r *project.WeeklyReport) WeeklyReportResponse {
	return WeeklyReportResponse{
		ID:              r.ID,
		CompanyID:       r.TenantID,
		ProjectID:       r.ProjectID,
		WeekStart:       shared.FormatDate(r.WeekStart),
		WeekEnd:         shared.FormatDate(r.WeekEnd),
		Summary:         r.Summary,
		Activities:      r.Activities,
		Issues:          r.Issues,
		NextActivities:  r.NextActivities,
		Weather:         r.Weather,
		ProjectProgress: r.ProjectProgress,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func pageDefaults(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return page, pageSize
}
