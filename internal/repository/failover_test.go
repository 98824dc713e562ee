package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, userID, limit, window)
	return args.Bool(0), args.Error(1)
}

func TestFailoverRateLimiter(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	t.Run("PrimarySuccess", func(t *testing.T) {
		primary := new(mockLimiter)
		fallback := new(mockLimiter)
		limiter := NewFailoverRateLimiter(primary, fallback, &logger)

		primary.On("CheckRateLimit", ctx, int64(1), 5, time.Minute).Return(true, nil)

		allowed, err := limiter.CheckRateLimit(ctx, 1, 5, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		fallback.AssertNotCalled(t, "CheckRateLimit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("FallbackOnPrimaryError", func(t *testing.T) {
		primary := new(mockLimiter)
		fallback := new(mockLimiter)
		limiter := NewFailoverRateLimiter(primary, fallback, &logger)

		primary.On("CheckRateLimit", ctx, int64(2), 5, time.Minute).Return(false, errors.New("redis down"))
		fallback.On("CheckRateLimit", ctx, int64(2), 5, time.Minute).Return(true, nil)

		allowed, err := limiter.CheckRateLimit(ctx, 2, 5, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("StaysOnFallbackUntilRecovery", func(t *testing.T) {
		primary := new(mockLimiter)
		fallback := new(mockLimiter)
		limiter := NewFailoverRateLimiter(primary, fallback, &logger)

		primary.On("CheckRateLimit", ctx, int64(3), 5, time.Minute).Return(false, errors.New("redis down")).Once()
		fallback.On("CheckRateLimit", ctx, int64(3), 5, time.Minute).Return(true, nil)

		_, err := limiter.CheckRateLimit(ctx, 3, 5, time.Minute)
		assert.NoError(t, err)

		// Пока не истек интервал восстановления, основной не трогаем
		_, err = limiter.CheckRateLimit(ctx, 3, 5, time.Minute)
		assert.NoError(t, err)
		primary.AssertNumberOfCalls(t, "CheckRateLimit", 1)
	})
}

func TestMemoryRateLimiter(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	ctx := context.Background()

	allowed, err := limiter.CheckRateLimit(ctx, 1, 2, 50*time.Millisecond)
	assert.NoError(t, err)
	assert.True(t, allowed)

	allowed, _ = limiter.CheckRateLimit(ctx, 1, 2, 50*time.Millisecond)
	assert.True(t, allowed)

	allowed, _ = limiter.CheckRateLimit(ctx, 1, 2, 50*time.Millisecond)
	assert.False(t, allowed)

	// Другой пользователь считается отдельно
	allowed, _ = limiter.CheckRateLimit(ctx, 2, 2, 50*time.Millisecond)
	assert.True(t, allowed)

	time.Sleep(60 * time.Millisecond)

	allowed, _ = limiter.CheckRateLimit(ctx, 1, 2, 50*time.Millisecond)
	assert.True(t, allowed)
}
