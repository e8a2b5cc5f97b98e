package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRevoker struct {
	jti string
	ttl time.Duration
	err error
}

func (r *recordingRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	r.jti, r.ttl = jti, ttl
	return r.err
}

func TestLogout(t *testing.T) {
	revoker := &recordingRevoker{}
	svc := NewAuthService(revoker)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	require.NoError(t, svc.Logout(context.Background(), "jti-1", now.Add(10*time.Minute)))
	assert.Equal(t, "jti-1", revoker.jti)
	assert.Equal(t, 10*time.Minute, revoker.ttl)

	assert.Error(t, svc.Logout(context.Background(), "", now.Add(time.Minute)))

	revoker.err = errors.New("redis down")
	err := svc.Logout(context.Background(), "jti-2", now.Add(time.Minute))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis down")
}
