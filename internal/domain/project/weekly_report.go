package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WeeklyReportDetails holds the editable fields of a weekly report
type WeeklyReportDetails struct {
	WeekStart      time.Time
	WeekEnd        time.Time
	Summary        string
	Activities     string
	Issues         string
	NextActivities string
	Weather        string
}

// WeeklyReport (relatório semanal) records a week of work on a project.
// ProjectProgress is the project's progress when the report was filed.
type WeeklyReport struct {
	shared.TenantAggregateRoot
	ProjectID       uuid.UUID
	WeekStart       time.Time
	WeekEnd         time.Time
	Summary         string
	Activities      string
	Issues          string
	NextActivities  string
	Weather         string
	ProjectProgress int
}

// NewWeeklyReport creates a weekly report snapshotting the project's progress
func NewWeeklyReport(tenantID uuid.UUID, p *Project, details WeeklyReportDetails) (*WeeklyReport, error) {
	if p == nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project is required")
	}
	if err := validateWeeklyReport(details); err != nil {
		return nil, err
	}
	r := &WeeklyReport{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           p.ID,
		ProjectProgress:     p.Progress,
	}
	r.applyDetails(details)

	r.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeWeeklyReport, shared.ActionCreated, r.ID, tenantID,
		fmt.Sprintf("Weekly report %s to %s filed", shared.FormatDate(r.WeekStart), shared.FormatDate(r.WeekEnd))))
	return r, nil
}

// Update replaces the editable fields
func (r *WeeklyReport) Update(details WeeklyReportDetails) error {
	if err := validateWeeklyReport(details); err != nil {
		return err
	}
	r.applyDetails(details)
	r.Touch()
	return nil
}

func (r *WeeklyReport) applyDetails(d WeeklyReportDetails) {
	r.WeekStart = shared.DateOf(d.WeekStart)
	r.WeekEnd = shared.DateOf(d.WeekEnd)
	r.Summary = strings.TrimSpace(d.Summary)
	r.Activities = d.Activities
	r.Issues = d.Issues
	r.NextActivities = d.NextActivities
	r.Weather = d.Weather
}

func validateWeeklyReport(d WeeklyReportDetails) error {
	if d.WeekStart.IsZero() || d.WeekEnd.IsZero() {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Week start and end are required")
	}
	if shared.DateOf(d.WeekEnd).Before(shared.DateOf(d.WeekStart)) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Week end cannot be before week start")
	}
	if strings.TrimSpace(d.Summary) == "" {
		return shared.NewDomainError("INVALID_SUMMARY", "Summary cannot be empty")
	}
	return nil
}
