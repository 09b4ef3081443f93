package project

import (
	"fmt"
	"time"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrStageWeightExceeded is returned when stage weights of a project would exceed 100%
var ErrStageWeightExceeded = shared.NewDomainError("STAGE_WEIGHT_EXCEEDED", "Sum of planned percentages exceeds 100%")

// CalculateProgress returns the weight-normalized average of the executed
// percentages, rounded to an integer. Weights need not sum to 100.
func CalculateProgress(stages []Stage) int {
	total := decimal.Zero
	for _, s := range stages {
		total = total.Add(s.PlannedPercent)
	}
	if total.IsZero() {
		return 0
	}

	weighted := decimal.Zero
	for _, s := range stages {
		weighted = weighted.Add(s.PlannedPercent.Div(total).Mul(s.ExecutedPercent))
	}
	return shared.RoundHalfUp(weighted)
}

// DeriveStatus applies the status rules for a recomputed progress.
// The first matching rule wins.
func DeriveStatus(p *Project, stages []Stage, progress int, now time.Time) ProjectStatus {
	allComplete := len(stages) > 0
	for i := range stages {
		if !stages[i].IsComplete() {
			allComplete = false
			break
		}
	}

	switch {
	case allComplete && progress >= 100:
		return ProjectStatusCompleted
	case p.IsPastEnd(now) && progress < 100 && !p.Status.IsHalted():
		return ProjectStatusLate
	case p.Status == ProjectStatusCompleted && progress < 100:
		return ProjectStatusInProgress
	case p.Status == ProjectStatusLate && !p.IsPastEnd(now):
		return ProjectStatusInProgress
	default:
		return p.Status
	}
}

// Recalculate recomputes progress and status from the full stage list and
// applies them to the project. With no stages progress is forced to 0 and
// the status is left unchanged. It returns true when the project changed.
func Recalculate(p *Project, stages []Stage, now time.Time) bool {
	if len(stages) == 0 {
		return p.ApplyProgress(0, p.Status)
	}
	progress := CalculateProgress(stages)
	return p.ApplyProgress(progress, DeriveStatus(p, stages, progress, now))
}

// ValidateStageWeight checks that adding proposed to the planned weights of
// the project's other stages keeps the total at or below 100. excludeID is
// the stage being edited (uuid.Nil on create).
func ValidateStageWeight(existing []Stage, excludeID uuid.UUID, proposed decimal.Decimal) error {
	used := decimal.Zero
	for _, s := range existing {
		if s.ID == excludeID {
			continue
		}
		used = used.Add(s.PlannedPercent)
	}
	if used.Add(proposed).GreaterThan(hundred) {
		remaining := hundred.Sub(used)
		return shared.NewDomainError(ErrStageWeightExceeded.Code,
			fmt.Sprintf("Sum of planned percentages exceeds 100%%. Available: %s%%", remaining.String()))
	}
	return nil
}
