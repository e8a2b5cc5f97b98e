package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"prd_planner/internal/apperrors"
	"prd_planner/internal/models"
	"prd_planner/internal/repositories"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PrdService struct {
	prds      PrdStore
	questions QuestionStore
	generator *Generator
}

func NewPrdService(prds PrdStore, questions QuestionStore, generator *Generator) *PrdService {
	return &PrdService{
		prds:      prds,
		questions: questions,
		generator: generator,
	}
}

type CreatePrdRequest struct {
	Name            string `json:"name" binding:"required"`
	MainProblem     string `json:"main_problem" binding:"required"`
	InScope         string `json:"in_scope" binding:"required"`
	OutOfScope      string `json:"out_of_scope" binding:"required"`
	SuccessCriteria string `json:"success_criteria" binding:"required"`
}

func (r CreatePrdRequest) validate() error {
	fields := []struct{ name, value string }{
		{"name", r.Name},
		{"main_problem", r.MainProblem},
		{"in_scope", r.InScope},
		{"out_of_scope", r.OutOfScope},
		{"success_criteria", r.SuccessCriteria},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return apperrors.Validationf("%s is required", f.name)
		}
	}
	return nil
}

type CreatePrdResult struct {
	Prd       *models.Prd          `json:"prd"`
	Questions []models.PrdQuestion `json:"questions"`
}

type PrdPage struct {
	Items      []models.Prd `json:"items"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	Total      int          `json:"total"`
	TotalPages int          `json:"total_pages"`
}

// CreatePrd stores a new PRD in planning and opens round 1. If the first
// questions cannot be produced the PRD is removed again.
func (s *PrdService) CreatePrd(ctx context.Context, userID uuid.UUID, req CreatePrdRequest) (*CreatePrdResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	prd := &models.Prd{
		UserID:          userID,
		Name:            strings.TrimSpace(req.Name),
		MainProblem:     strings.TrimSpace(req.MainProblem),
		InScope:         strings.TrimSpace(req.InScope),
		OutOfScope:      strings.TrimSpace(req.OutOfScope),
		SuccessCriteria: strings.TrimSpace(req.SuccessCriteria),
	}
	if err := s.prds.Create(ctx, prd); err != nil {
		return nil, fmt.Errorf("failed to save PRD to database: %w", err)
	}

	texts, err := s.generator.Questions(ctx, prd, nil, prd.CurrentRoundNumber)
	if err != nil {
		s.rollback(ctx, prd.ID)
		return nil, err
	}

	questions, err := s.questions.CreateBatch(ctx, prd.ID, prd.CurrentRoundNumber, texts)
	if err != nil {
		s.rollback(ctx, prd.ID)
		return nil, apperrors.Update("Failed to save questions", err)
	}

	log.WithFields(log.Fields{"prd_id": prd.ID, "user_id": userID}).Info("PRD created")
	return &CreatePrdResult{Prd: prd, Questions: questions}, nil
}

func (s *PrdService) rollback(ctx context.Context, prdID uuid.UUID) {
	// Runs even when the request context is already done.
	if err := s.prds.Delete(context.WithoutCancel(ctx), prdID); err != nil {
		log.WithField("prd_id", prdID).WithError(err).Error("Failed to roll back PRD")
	}
}

func (s *PrdService) GetPrd(ctx context.Context, userID, prdID uuid.UUID) (*models.Prd, error) {
	return loadPrd(ctx, s.prds, userID, prdID)
}

// ListPrds returns one page of the user's PRDs, most recently updated first.
func (s *PrdService) ListPrds(ctx context.Context, userID uuid.UUID, page, pageSize int) (*PrdPage, error) {
	if page < 1 {
		return nil, apperrors.Validation("page must be at least 1")
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, apperrors.Validationf("page_size must be between 1 and %d", MaxPageSize)
	}

	total, err := s.prds.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count PRDs: %w", err)
	}

	items, err := s.prds.ListByUserID(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list PRDs: %w", err)
	}

	return &PrdPage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

func (s *PrdService) DeletePrd(ctx context.Context, userID, prdID uuid.UUID) error {
	err := s.prds.DeleteByIDAndUserID(ctx, prdID, userID)
	if errors.Is(err, repositories.ErrPrdNotFound) {
		return apperrors.NotFound("PRD")
	}
	if err != nil {
		return fmt.Errorf("failed to delete PRD: %w", err)
	}

	log.WithFields(log.Fields{"prd_id": prdID, "user_id": userID}).Info("PRD deleted")
	return nil
}
