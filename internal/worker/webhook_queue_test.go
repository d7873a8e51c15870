package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() QueueConfig {
	return QueueConfig{
		Workers:     2,
		QueueSize:   8,
		MaxAttempts: 3,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  4 * time.Millisecond,
	}
}

func startQueue(t *testing.T, q *WebhookQueue, handle WebhookHandler) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- q.Start(context.Background(), handle) }()
	return done
}

func waitStopped(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not stop")
	}
}

func TestWebhookQueueProcessesEveryTask(t *testing.T) {
	q := NewWebhookQueue(testConfig())
	var mu sync.Mutex
	seen := map[string]bool{}

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Dispatch(context.Background(), []byte(fmt.Sprintf("body-%d", i))))
	}
	done := startQueue(t, q, func(_ context.Context, body []byte) error {
		mu.Lock()
		defer mu.Unlock()
		seen[string(body)] = true
		return nil
	})
	q.Close()
	waitStopped(t, done)

	assert.Len(t, seen, 5)
}

func TestWebhookQueueRetriesTransientFailures(t *testing.T) {
	q := NewWebhookQueue(testConfig())
	var calls atomic.Int32

	require.NoError(t, q.Dispatch(context.Background(), []byte("body")))
	done := startQueue(t, q, func(context.Context, []byte) error {
		if calls.Add(1) < 3 {
			return errors.New("database unavailable")
		}
		return nil
	})
	q.Close()
	waitStopped(t, done)

	assert.Equal(t, int32(3), calls.Load())
}

func TestWebhookQueueStopsAfterMaxAttempts(t *testing.T) {
	q := NewWebhookQueue(testConfig())
	var calls atomic.Int32

	require.NoError(t, q.Dispatch(context.Background(), []byte("body")))
	done := startQueue(t, q, func(context.Context, []byte) error {
		calls.Add(1)
		return errors.New("still down")
	})
	q.Close()
	waitStopped(t, done)

	assert.Equal(t, int32(3), calls.Load())
}

func TestWebhookQueueDoesNotRetryPermanentFailures(t *testing.T) {
	q := NewWebhookQueue(testConfig())
	var calls atomic.Int32

	require.NoError(t, q.Dispatch(context.Background(), []byte("not json")))
	done := startQueue(t, q, func(context.Context, []byte) error {
		calls.Add(1)
		return fmt.Errorf("%w: bad body", apperrors.ErrValidation)
	})
	q.Close()
	waitStopped(t, done)

	assert.Equal(t, int32(1), calls.Load())
}

func TestWebhookQueueRejectsWhenFull(t *testing.T) {
	cfg := testConfig()
	cfg.QueueSize = 1
	q := NewWebhookQueue(cfg)

	require.NoError(t, q.Dispatch(context.Background(), []byte("first")))
	err := q.Dispatch(context.Background(), []byte("second"))
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestWebhookQueueRejectsAfterClose(t *testing.T) {
	q := NewWebhookQueue(testConfig())
	q.Close()
	q.Close()

	assert.ErrorIs(t, q.Dispatch(context.Background(), []byte("late")), ErrQueueClosed)
}

func TestWebhookQueueStopsOnCancel(t *testing.T) {
	q := NewWebhookQueue(testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- q.Start(ctx, func(context.Context, []byte) error { return nil }) }()

	cancel()
	waitStopped(t, done)
}

func TestBackoff(t *testing.T) {
	q := NewWebhookQueue(QueueConfig{BaseBackoff: time.Second, MaxBackoff: 5 * time.Second})

	assert.Equal(t, time.Second, q.backoff(1))
	assert.Equal(t, 2*time.Second, q.backoff(2))
	assert.Equal(t, 4*time.Second, q.backoff(3))
	assert.Equal(t, 5*time.Second, q.backoff(4))
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(errors.New("timeout")))
	assert.True(t, retryable(apperrors.ErrConflict))
	assert.False(t, retryable(apperrors.NewNotFoundError("cart")))
	assert.False(t, retryable(apperrors.ErrInvalidActionTransition))
	assert.False(t, retryable(apperrors.ErrPaymentState))
}
