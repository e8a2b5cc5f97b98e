package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"prd_planner/internal/apperrors"
	"prd_planner/internal/models"
)

// loadPrd resolves a PRD owned by userID. Existence is checked before any
// caller inspects status.
func loadPrd(ctx context.Context, prds PrdStore, userID, prdID uuid.UUID) (*models.Prd, error) {
	prd, err := prds.GetByIDAndUserID(ctx, prdID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load PRD: %w", err)
	}
	if prd == nil {
		return nil, apperrors.NotFound("PRD")
	}
	return prd, nil
}

func patchFailed(err error) *apperrors.Error {
	return apperrors.Update("Failed to update PRD", err)
}
