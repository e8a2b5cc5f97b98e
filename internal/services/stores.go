package services

import (
	"context"

	"github.com/google/uuid"

	"prd_planner/internal/models"
)

// PrdStore is the part of the PRD repository the services use.
// Lookups return (nil, nil) when no row matches.
type PrdStore interface {
	Create(ctx context.Context, prd *models.Prd) error
	GetByIDAndUserID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Prd, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Prd, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int, error)
	Update(ctx context.Context, id uuid.UUID, patch models.PrdPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByIDAndUserID(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type QuestionStore interface {
	CreateBatch(ctx context.Context, prdID uuid.UUID, round int, texts []string) ([]models.PrdQuestion, error)
	ListByPrdID(ctx context.Context, prdID uuid.UUID) ([]models.PrdQuestion, error)
	UpdateAnswers(ctx context.Context, prdID uuid.UUID, round int, answers map[uuid.UUID]*string) error
	AdvanceRound(ctx context.Context, prdID uuid.UUID, nextRound int, texts []string) ([]models.PrdQuestion, error)
}
