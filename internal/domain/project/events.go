package project

import (
	"fmt"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type names
const (
	AggregateTypeProject      = "Project"
	AggregateTypeStage        = "Stage"
	AggregateTypeMeasurement  = "Measurement"
	AggregateTypeComment      = "Comment"
	AggregateTypeWeeklyReport = "WeeklyReport"
)

// Event types
const (
	EventTypeProgressRecalculated = "ProjectProgressRecalculated"
	EventTypeStageChanged         = "StageChanged"
	EventTypeMeasurementApproved  = "MeasurementApproved"
	EventTypeMeasurementPaid      = "MeasurementPaid"
)

// ProgressRecalculatedEvent is raised when the stage engine changes a
// project's progress or status
type ProgressRecalculatedEvent struct {
	shared.BaseDomainEvent
	Progress       int           `json:"progress"`
	Status         ProjectStatus `json:"status"`
	PreviousStatus ProjectStatus `json:"previous_status"`
}

// NewProgressRecalculatedEvent creates a new ProgressRecalculatedEvent
func NewProgressRecalculatedEvent(p *Project, previous ProjectStatus) *ProgressRecalculatedEvent {
	return &ProgressRecalculatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProgressRecalculated, AggregateTypeProject, p.ID, p.TenantID),
		Progress:        p.Progress,
		Status:          p.Status,
		PreviousStatus:  previous,
	}
}

// Describe implements shared.Describer
func (e *ProgressRecalculatedEvent) Describe() string {
	if e.Status != e.PreviousStatus {
		return fmt.Sprintf("Project progress %d%%, status %s -> %s", e.Progress, e.PreviousStatus, e.Status)
	}
	return fmt.Sprintf("Project progress %d%%", e.Progress)
}

// StageChangedEvent is raised on stage create, update and delete
type StageChangedEvent struct {
	shared.BaseDomainEvent
	ProjectID       uuid.UUID       `json:"project_id"`
	Action          string          `json:"action"`
	Name            string          `json:"name"`
	PlannedPercent  decimal.Decimal `json:"planned_percent"`
	ExecutedPercent decimal.Decimal `json:"executed_percent"`
}

// NewStageChangedEvent creates a new StageChangedEvent
func NewStageChangedEvent(s *Stage, action string) *StageChangedEvent {
	return &StageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStageChanged, AggregateTypeStage, s.ID, s.TenantID),
		ProjectID:       s.ProjectID,
		Action:          action,
		Name:            s.Name,
		PlannedPercent:  s.PlannedPercent,
		ExecutedPercent: s.ExecutedPercent,
	}
}

// Describe implements shared.Describer
func (e *StageChangedEvent) Describe() string {
	return fmt.Sprintf("Stage %q %s (planned %s%%, executed %s%%)",
		e.Name, actionVerb(e.Action), e.PlannedPercent.String(), e.ExecutedPercent.String())
}

// MeasurementApprovedEvent is raised when a measurement is approved
type MeasurementApprovedEvent struct {
	shared.BaseDomainEvent
	ProjectID uuid.UUID       `json:"project_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewMeasurementApprovedEvent creates a new MeasurementApprovedEvent
func NewMeasurementApprovedEvent(m *Measurement) *MeasurementApprovedEvent {
	return &MeasurementApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMeasurementApproved, AggregateTypeMeasurement, m.ID, m.TenantID),
		ProjectID:       m.ProjectID,
		Amount:          m.Amount,
	}
}

// Describe implements shared.Describer
func (e *MeasurementApprovedEvent) Describe() string {
	return fmt.Sprintf("Measurement approved (%s)", e.Amount.StringFixed(2))
}

// MeasurementPaidEvent is raised when a measurement is paid
type MeasurementPaidEvent struct {
	shared.BaseDomainEvent
	ProjectID uuid.UUID       `json:"project_id"`
	EntryID   uuid.UUID       `json:"entry_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewMeasurementPaidEvent creates a new MeasurementPaidEvent
func NewMeasurementPaidEvent(m *Measurement) *MeasurementPaidEvent {
	var entryID uuid.UUID
	if m.EntryID != nil {
		entryID = *m.EntryID
	}
	return &MeasurementPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMeasurementPaid, AggregateTypeMeasurement, m.ID, m.TenantID),
		ProjectID:       m.ProjectID,
		EntryID:         entryID,
		Amount:          m.Amount,
	}
}

// Describe implements shared.Describer
func (e *MeasurementPaidEvent) Describe() string {
	return fmt.Sprintf("Measurement paid (%s), entry %s generated", e.Amount.StringFixed(2), e.EntryID)
}

func actionVerb(action string) string {
	switch action {
	case shared.ActionCreated:
		return "created"
	case shared.ActionDeleted:
		return "deleted"
	default:
		return "updated"
	}
}
