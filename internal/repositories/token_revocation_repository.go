package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type TokenRevocationRepository struct {
	rdb *redis.Client
}

func NewTokenRevocationRepository(rdb *redis.Client) *TokenRevocationRepository {
	return &TokenRevocationRepository{rdb: rdb}
}

func revokedKey(jti string) string {
	return "revoked:" + jti
}

// Revoke marks a token id as revoked until ttl elapses (normally the token's remaining lifetime).
func (r *TokenRevocationRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, revokedKey(jti), "true", ttl).Err()
}

func (r *TokenRevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := r.rdb.Exists(ctx, revokedKey(jti)).Result()
	return exists == 1, err
}
