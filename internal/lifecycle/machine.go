// Package lifecycle owns the PRD status state machine. Statuses only move
// forward along planning -> planning_review -> prd_review -> completed, plus
// the prd_review self-edge used by document edits.
package lifecycle

import (
	"fmt"

	"prd_planner/internal/models"
)

type Trigger string

const (
	TriggerGenerateSummary  Trigger = "generate_summary"
	TriggerGenerateDocument Trigger = "generate_document"
	TriggerUpdateDocument   Trigger = "update_document"
	TriggerFinalize         Trigger = "finalize"
)

type transition struct {
	from models.PrdStatus
	to   models.PrdStatus
}

var transitions = map[Trigger]transition{
	TriggerGenerateSummary:  {from: models.StatusPlanning, to: models.StatusPlanningReview},
	TriggerGenerateDocument: {from: models.StatusPlanningReview, to: models.StatusPrdReview},
	TriggerUpdateDocument:   {from: models.StatusPrdReview, to: models.StatusPrdReview},
	TriggerFinalize:         {from: models.StatusPrdReview, to: models.StatusCompleted},
}

// Next returns the status a PRD in status from moves to when trigger fires.
func Next(from models.PrdStatus, trigger Trigger) (models.PrdStatus, error) {
	t, ok := transitions[trigger]
	if !ok {
		return "", fmt.Errorf("unknown trigger %q", trigger)
	}
	if t.from != from {
		return "", fmt.Errorf("trigger %q not allowed from status %q", trigger, from)
	}
	return t.to, nil
}

// RequiredStatus is the only status trigger may fire from.
func RequiredStatus(trigger Trigger) models.PrdStatus {
	return transitions[trigger].from
}
