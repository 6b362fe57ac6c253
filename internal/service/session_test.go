package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/seeek/portfolio/backend/internal/apperr"
	"github.com/seeek/portfolio/backend/internal/service"
	"github.com/seeek/portfolio/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	client, mr := testhelpers.NewRedis(t)
	svc := service.NewSessionService(client, "test-secret", time.Hour)
	ctx := context.Background()

	token, err := svc.Create(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Len(t, mr.Keys(), 1)

	email, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)

	require.NoError(t, svc.Destroy(ctx, token))
	_, err = svc.Resolve(ctx, token)
	assert.True(t, apperr.Is(err, apperr.CodeUnauthorized))
	assert.Empty(t, mr.Keys())
}

func TestSessionExpiresWithRedisTTL(t *testing.T) {
	client, mr := testhelpers.NewRedis(t)
	svc := service.NewSessionService(client, "test-secret", time.Hour)
	ctx := context.Background()

	token, err := svc.Create(ctx, "a@x.com")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)
	_, err = svc.Resolve(ctx, token)
	assert.True(t, apperr.Is(err, apperr.CodeUnauthorized))
}

func TestSessionRejectsForeignTokens(t *testing.T) {
	client, _ := testhelpers.NewRedis(t)
	svc := service.NewSessionService(client, "test-secret", time.Hour)
	other := service.NewSessionService(client, "another-secret", time.Hour)
	ctx := context.Background()

	token, err := other.Create(ctx, "a@x.com")
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, token)
	assert.True(t, apperr.Is(err, apperr.CodeUnauthorized))
	_, err = svc.Resolve(ctx, "garbage")
	assert.True(t, apperr.Is(err, apperr.CodeUnauthorized))
	assert.True(t, apperr.Is(svc.Destroy(ctx, "garbage"), apperr.CodeUnauthorized))
}
