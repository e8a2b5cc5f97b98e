package services

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"prd_planner/internal/apperrors"
	"prd_planner/internal/lifecycle"
	"prd_planner/internal/models"
)

// DocumentService performs the AI-backed status transitions and document edits.
type DocumentService struct {
	prds      PrdStore
	generator *Generator
}

func NewDocumentService(prds PrdStore, generator *Generator) *DocumentService {
	return &DocumentService{
		prds:      prds,
		generator: generator,
	}
}

// UpdateDocumentRequest requires the content field but accepts an empty
// string, which clears the document.
type UpdateDocumentRequest struct {
	Content *string `json:"content" binding:"required"`
}

// GenerateSummary moves a PRD from planning to planning_review. The caller
// has already checked that the current round is complete.
func (s *DocumentService) GenerateSummary(ctx context.Context, view lifecycle.Planning, round RoundState) (*models.Prd, error) {
	prd := view.Prd()
	if !round.RoundComplete {
		return nil, incompleteRound("generate summary")
	}

	next, err := lifecycle.Next(prd.Status, lifecycle.TriggerGenerateSummary)
	if err != nil {
		return nil, err
	}

	summary, err := s.generator.Summary(ctx, view, round.History())
	if err != nil {
		return nil, err
	}

	patch := models.PrdPatch{Summary: &summary, Status: &next}
	if err := s.prds.Update(ctx, prd.ID, patch); err != nil {
		return nil, patchFailed(err)
	}

	log.WithFields(log.Fields{"prd_id": prd.ID, "status": next}).Info("PRD summary generated")

	updated := *prd
	updated.Summary = &summary
	updated.Status = next
	return &updated, nil
}

// GenerateDocument moves a PRD from planning_review to prd_review, writing
// the generated document and the new status together.
func (s *DocumentService) GenerateDocument(ctx context.Context, userID, prdID uuid.UUID) (string, error) {
	prd, err := loadPrd(ctx, s.prds, userID, prdID)
	if err != nil {
		return "", err
	}

	view, err := lifecycle.RequirePlanningReview(prd)
	if err != nil {
		return "", err
	}

	next, err := lifecycle.Next(prd.Status, lifecycle.TriggerGenerateDocument)
	if err != nil {
		return "", err
	}

	content, err := s.generator.Document(ctx, view)
	if err != nil {
		return "", err
	}

	patch := models.PrdPatch{Content: &content, Status: &next}
	if err := s.prds.Update(ctx, prd.ID, patch); err != nil {
		return "", patchFailed(err)
	}

	log.WithFields(log.Fields{"prd_id": prd.ID, "status": next}).Info("PRD document generated")
	return content, nil
}

// UpdateDocument replaces the content of a PRD in prd_review. Status is never written.
func (s *DocumentService) UpdateDocument(ctx context.Context, userID, prdID uuid.UUID, content string) (string, error) {
	prd, err := loadPrd(ctx, s.prds, userID, prdID)
	if err != nil {
		return "", err
	}

	if _, err := lifecycle.RequirePrdReview(prd, "update document"); err != nil {
		return "", err
	}
	if _, err := lifecycle.Next(prd.Status, lifecycle.TriggerUpdateDocument); err != nil {
		return "", err
	}

	if err := s.prds.Update(ctx, prd.ID, models.PrdPatch{Content: &content}); err != nil {
		return "", patchFailed(err)
	}

	return content, nil
}

// Complete finalizes a PRD in prd_review.
func (s *DocumentService) Complete(ctx context.Context, userID, prdID uuid.UUID) (*models.Prd, error) {
	prd, err := loadPrd(ctx, s.prds, userID, prdID)
	if err != nil {
		return nil, err
	}

	if _, err := lifecycle.RequirePrdReview(prd, "complete"); err != nil {
		return nil, err
	}

	next, err := lifecycle.Next(prd.Status, lifecycle.TriggerFinalize)
	if err != nil {
		return nil, err
	}

	if err := s.prds.Update(ctx, prd.ID, models.PrdPatch{Status: &next}); err != nil {
		return nil, patchFailed(err)
	}

	log.WithFields(log.Fields{"prd_id": prd.ID, "status": next}).Info("PRD completed")

	prd.Status = next
	return prd, nil
}

func incompleteRound(action string) *apperrors.Error {
	return apperrors.Conflict(
		"Current round must be fully answered to "+action,
		string(models.StatusPlanning),
	)
}
