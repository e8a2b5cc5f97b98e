package models

import (
	"time"

	"github.com/google/uuid"
)

type PrdStatus string

const (
	StatusPlanning       PrdStatus = "planning"
	StatusPlanningReview PrdStatus = "planning_review"
	StatusPrdReview      PrdStatus = "prd_review"
	StatusCompleted      PrdStatus = "completed"
)

// Valid reports whether s is one of the four known statuses.
func (s PrdStatus) Valid() bool {
	switch s {
	case StatusPlanning, StatusPlanningReview, StatusPrdReview, StatusCompleted:
		return true
	}
	return false
}

type Prd struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	Name               string    `json:"name"`
	MainProblem        string    `json:"main_problem"`
	InScope            string    `json:"in_scope"`
	OutOfScope         string    `json:"out_of_scope"`
	SuccessCriteria    string    `json:"success_criteria"`
	Status             PrdStatus `json:"status"`
	Summary            *string   `json:"summary,omitempty"`
	Content            *string   `json:"content,omitempty"`
	CurrentRoundNumber int       `json:"current_round_number"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (p *Prd) Prepare() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = StatusPlanning
	}
	if p.CurrentRoundNumber < 1 {
		p.CurrentRoundNumber = 1
	}
}

// PrdPatch is a partial update of a PRD row. Nil fields are left untouched.
type PrdPatch struct {
	Summary *string
	Content *string
	Status  *PrdStatus
}

func (p PrdPatch) IsEmpty() bool {
	return p.Summary == nil && p.Content == nil && p.Status == nil
}
