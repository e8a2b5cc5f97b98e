package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"prd_planner/internal/apperrors"
	"prd_planner/internal/lifecycle"
	"prd_planner/internal/models"
)

// PlanningService coordinates the question rounds of a PRD in planning.
type PlanningService struct {
	prds      PrdStore
	questions QuestionStore
	generator *Generator
	documents *DocumentService
}

func NewPlanningService(
	prds PrdStore,
	questions QuestionStore,
	generator *Generator,
	documents *DocumentService,
) *PlanningService {
	return &PlanningService{
		prds:      prds,
		questions: questions,
		generator: generator,
		documents: documents,
	}
}

type AnswerInput struct {
	QuestionID string `json:"question_id" binding:"required"`
	Answer     string `json:"answer"`
}

type SubmitAnswersRequest struct {
	Answers []AnswerInput `json:"answers" binding:"required,min=1,dive"`
}

func (s *PlanningService) roundState(ctx context.Context, prd *models.Prd) ([]models.PrdQuestion, RoundState, error) {
	questions, err := s.questions.ListByPrdID(ctx, prd.ID)
	if err != nil {
		return nil, RoundState{}, fmt.Errorf("failed to load questions: %w", err)
	}
	return questions, Partition(questions, prd.CurrentRoundNumber), nil
}

// GetPlanningState reports the current round's answered and unanswered questions.
func (s *PlanningService) GetPlanningState(ctx context.Context, userID, prdID uuid.UUID) (*RoundState, error) {
	prd, err := loadPrd(ctx, s.prds, userID, prdID)
	if err != nil {
		return nil, err
	}

	_, state, err := s.roundState(ctx, prd)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// SubmitAnswers writes trimmed answers onto questions of the current round.
// An answer that trims to empty clears the question's answer. A well-formed
// id that names none of this PRD's questions is NotFound, ahead of the status
// guard; ids from earlier rounds are Validation.
func (s *PlanningService) SubmitAnswers(ctx context.Context, userID, prdID uuid.UUID, req SubmitAnswersRequest) (*RoundState, error) {
	prd, err := loadPrd(ctx, s.prds, userID, prdID)
	if err != nil {
		return nil, err
	}

	questions, _, err := s.roundState(ctx, prd)
	if err != nil {
		return nil, err
	}

	index := make(map[uuid.UUID]int, len(questions))
	for i, q := range questions {
		index[q.ID] = i
	}
	for _, input := range req.Answers {
		if id, err := uuid.Parse(input.QuestionID); err == nil {
			if _, ok := index[id]; !ok {
				return nil, apperrors.NotFound("question")
			}
		}
	}

	if _, err := lifecycle.RequirePlanning(prd, "submit answers"); err != nil {
		return nil, err
	}

	if len(req.Answers) == 0 {
		return nil, apperrors.Validation("at least one answer is required")
	}

	answers := make(map[uuid.UUID]*string, len(req.Answers))
	for _, input := range req.Answers {
		id, err := uuid.Parse(input.QuestionID)
		if err != nil {
			return nil, apperrors.Validationf("invalid question id %q", input.QuestionID)
		}
		if questions[index[id]].RoundNumber != prd.CurrentRoundNumber {
			return nil, apperrors.Validationf(
				"question %s does not belong to round %d of this PRD", id, prd.CurrentRoundNumber,
			)
		}
		if _, dup := answers[id]; dup {
			return nil, apperrors.Validationf("question %s is answered more than once", id)
		}

		var answer *string
		if trimmed := strings.TrimSpace(input.Answer); trimmed != "" {
			answer = &trimmed
		}
		answers[id] = answer
	}

	if err := s.questions.UpdateAnswers(ctx, prd.ID, prd.CurrentRoundNumber, answers); err != nil {
		return nil, apperrors.Update("Failed to save answers", err)
	}

	for id, answer := range answers {
		questions[index[id]].Answer = answer
	}

	state := Partition(questions, prd.CurrentRoundNumber)
	return &state, nil
}

// ContinuePlanning opens the next round once the current one is complete.
func (s *PlanningService) ContinuePlanning(ctx context.Context, userID, prdID uuid.UUID) (*RoundState, error) {
	prd, err := loadPrd(ctx, s.prds, userID, prdID)
	if err != nil {
		return nil, err
	}

	if _, err := lifecycle.RequirePlanning(prd, "continue planning"); err != nil {
		return nil, err
	}

	questions, state, err := s.roundState(ctx, prd)
	if err != nil {
		return nil, err
	}
	if !state.RoundComplete {
		return nil, incompleteRound("continue planning")
	}

	nextRound := prd.CurrentRoundNumber + 1
	texts, err := s.generator.Questions(ctx, prd, state.History(), nextRound)
	if err != nil {
		return nil, err
	}

	created, err := s.questions.AdvanceRound(ctx, prd.ID, nextRound, texts)
	if err != nil {
		return nil, apperrors.Update("Failed to start next round", err)
	}

	log.WithFields(log.Fields{"prd_id": prd.ID, "round": nextRound}).Info("Planning round opened")

	next := Partition(append(questions, created...), nextRound)
	return &next, nil
}

// RequestSummary hands a PRD with a complete round to the document service
// for the planning -> planning_review transition.
func (s *PlanningService) RequestSummary(ctx context.Context, userID, prdID uuid.UUID) (*models.Prd, error) {
	prd, err := loadPrd(ctx, s.prds, userID, prdID)
	if err != nil {
		return nil, err
	}

	view, err := lifecycle.RequirePlanning(prd, "generate summary")
	if err != nil {
		return nil, err
	}

	_, state, err := s.roundState(ctx, prd)
	if err != nil {
		return nil, err
	}
	if !state.RoundComplete {
		return nil, incompleteRound("generate summary")
	}

	return s.documents.GenerateSummary(ctx, view, state)
}
