package lifecycle

import (
	"fmt"
	"strings"

	"prd_planner/internal/apperrors"
	"prd_planner/internal/models"
)

// Planning is a PRD known to be in the planning status.
type Planning struct{ prd *models.Prd }

// PlanningReview is a PRD in planning_review that has a non-blank summary.
type PlanningReview struct{ prd *models.Prd }

// PrdReview is a PRD in prd_review.
type PrdReview struct{ prd *models.Prd }

func (p Planning) Prd() *models.Prd       { return p.prd }
func (p PlanningReview) Prd() *models.Prd { return p.prd }
func (p PrdReview) Prd() *models.Prd      { return p.prd }

// Summary is always non-blank for a PlanningReview value.
func (p PlanningReview) Summary() string { return *p.prd.Summary }

func statusConflict(action string, required models.PrdStatus) *apperrors.Error {
	return apperrors.Conflict(
		fmt.Sprintf("PRD must be in %s status to %s", required, action),
		string(required),
	)
}

func RequirePlanning(prd *models.Prd, action string) (Planning, error) {
	if prd.Status != models.StatusPlanning {
		return Planning{}, statusConflict(action, models.StatusPlanning)
	}
	return Planning{prd: prd}, nil
}

func RequirePlanningReview(prd *models.Prd) (PlanningReview, error) {
	if prd.Status != RequiredStatus(TriggerGenerateDocument) {
		return PlanningReview{}, statusConflict("generate document", models.StatusPlanningReview)
	}
	if prd.Summary == nil || strings.TrimSpace(*prd.Summary) == "" {
		return PlanningReview{}, apperrors.Conflict(
			"Cannot generate document: PRD has no summary",
			string(models.StatusPlanningReview),
		)
	}
	return PlanningReview{prd: prd}, nil
}

func RequirePrdReview(prd *models.Prd, action string) (PrdReview, error) {
	if prd.Status != models.StatusPrdReview {
		return PrdReview{}, statusConflict(action, models.StatusPrdReview)
	}
	return PrdReview{prd: prd}, nil
}
