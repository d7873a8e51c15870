package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/apperrors"
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/core/ports/gateways"
	"github.com/SscSPs/kudi_commerce/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	clock   func() time.Time
	tracker gateways.EventTracker
}

// ServiceOption configures the functionality shared by every service.
type ServiceOption func(*BaseService)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.clock = clock
	}
}

// WithEventTracker sends lifecycle events to product analytics.
func WithEventTracker(tracker gateways.EventTracker) ServiceOption {
	return func(s *BaseService) {
		s.tracker = tracker
	}
}

func (s *BaseService) applyOptions(options []ServiceOption) {
	for _, option := range options {
		option(s)
	}
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.clock != nil {
		return s.clock().UTC()
	}
	return time.Now().UTC()
}

// Track enqueues an analytics event when a tracker is configured.
func (s *BaseService) Track(distinctID, event string, properties map[string]any) {
	if s.tracker == nil {
		return
	}
	s.tracker.Enqueue(distinctID, event, properties)
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.ErrorContext(ctx, msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).InfoContext(ctx, msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).DebugContext(ctx, msg, keyvals...)
}

// RequireAdmin fails with ErrUnauthorized unless actor holds an admin role.
func (s *BaseService) RequireAdmin(ctx context.Context, actor domain.Actor, operation string) error {
	if actor.IsAdmin() {
		return nil
	}
	err := fmt.Errorf("%w: %s requires an admin role", apperrors.ErrUnauthorized, operation)
	s.LogError(ctx, err, "Admin check failed", slog.String("user_id", actor.UserID))
	return err
}

// requireOwnerOrAdmin fails with ErrUnauthorized unless actor owns the resource or is an admin.
func requireOwnerOrAdmin(actor domain.Actor, ownerID string, resource string) error {
	if actor.UserID == ownerID || actor.IsAdmin() {
		return nil
	}
	return fmt.Errorf("%w: %s belongs to another user", apperrors.ErrUnauthorized, resource)
}
