package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"prd_planner/internal/apperrors"
)

type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type AuthService struct {
	revocations TokenRevoker
	now         func() time.Time
}

func NewAuthService(revocations TokenRevoker) *AuthService {
	return &AuthService{
		revocations: revocations,
		now:         time.Now,
	}
}

// Logout revokes the access token jti until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return apperrors.Validation("token has no id")
	}

	ttl := expiresAt.Sub(s.now())
	if err := s.revocations.Revoke(ctx, jti, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	log.WithField("jti", jti).Info("Access token revoked")
	return nil
}
