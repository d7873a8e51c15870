// Package worker runs gateway webhooks off the request path.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/apperrors"
	"github.com/SscSPs/kudi_commerce/internal/core/ports/gateways"
	"github.com/SscSPs/kudi_commerce/internal/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrQueueFull   = errors.New("webhook queue is full")
	ErrQueueClosed = errors.New("webhook queue is closed")
)

// WebhookHandler applies one raw webhook body.
type WebhookHandler func(ctx context.Context, rawBody []byte) error

// QueueConfig sizes the queue.
type QueueConfig struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

type task struct {
	id     string
	body   []byte
	logger *slog.Logger
	queued time.Time
}

// WebhookQueue is a bounded in-process queue drained by a fixed pool of workers.
// Delivery is at-least-once: a failed task is retried with exponential backoff until
// it succeeds, fails permanently or runs out of attempts.
type WebhookQueue struct {
	cfg   QueueConfig
	tasks chan task

	mu     sync.RWMutex
	closed bool
}

var _ gateways.WebhookDispatcher = (*WebhookQueue)(nil)

func NewWebhookQueue(cfg QueueConfig) *WebhookQueue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = time.Second
	}
	if cfg.MaxBackoff < cfg.BaseBackoff {
		cfg.MaxBackoff = 30 * cfg.BaseBackoff
	}
	return &WebhookQueue{
		cfg:   cfg,
		tasks: make(chan task, cfg.QueueSize),
	}
}

// Dispatch queues rawBody without blocking. The caller's logger travels with the task.
func (q *WebhookQueue) Dispatch(ctx context.Context, rawBody []byte) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	t := task{
		id:     uuid.NewString(),
		body:   rawBody,
		logger: middleware.GetLoggerFromCtx(ctx),
		queued: time.Now(),
	}
	select {
	case q.tasks <- t:
		t.logger.Debug("Webhook queued", slog.String("task_id", t.id), slog.Int("depth", len(q.tasks)))
		return nil
	default:
		return fmt.Errorf("%w (capacity %d)", ErrQueueFull, cap(q.tasks))
	}
}

// Start runs the workers until ctx is cancelled or Close has been called and the
// queue is drained. It blocks.
func (q *WebhookQueue) Start(ctx context.Context, handle WebhookHandler) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < q.cfg.Workers; i++ {
		worker := i
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case t, ok := <-q.tasks:
					if !ok {
						return nil
					}
					q.run(gctx, worker, t, handle)
				}
			}
		})
	}
	return g.Wait()
}

// Close stops accepting tasks. Workers finish what is already queued.
func (q *WebhookQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.tasks)
}

func (q *WebhookQueue) run(ctx context.Context, worker int, t task, handle WebhookHandler) {
	logger := t.logger.With(slog.String("task_id", t.id), slog.Int("worker", worker))
	taskCtx := middleware.WithLogger(ctx, logger)

	for attempt := 1; attempt <= q.cfg.MaxAttempts; attempt++ {
		err := handle(taskCtx, t.body)
		if err == nil {
			logger.Info("Webhook processed",
				slog.Int("attempt", attempt),
				slog.Duration("queue_latency", time.Since(t.queued)))
			return
		}
		if !retryable(err) {
			logger.Error("Webhook rejected", slog.Int("attempt", attempt), slog.String("error", err.Error()))
			return
		}
		if attempt == q.cfg.MaxAttempts {
			logger.Error("Webhook dropped after retries", slog.Int("attempts", attempt), slog.String("error", err.Error()))
			return
		}

		delay := q.backoff(attempt)
		logger.Warn("Webhook processing failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("retry_in", delay),
			slog.String("error", err.Error()))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			logger.Warn("Webhook abandoned on shutdown", slog.Int("attempt", attempt))
			return
		}
	}
}

// backoff doubles per attempt: base, 2*base, 4*base ... capped at MaxBackoff.
func (q *WebhookQueue) backoff(attempt int) time.Duration {
	delay := q.cfg.BaseBackoff
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= q.cfg.MaxBackoff {
			return q.cfg.MaxBackoff
		}
	}
	return delay
}

// retryable reports whether another attempt could succeed. Malformed bodies and
// state the cart can no longer leave will fail the same way every time.
func retryable(err error) bool {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrInvalidOperation),
		errors.Is(err, apperrors.ErrPaymentState):
		return false
	}
	return true
}
