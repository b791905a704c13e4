package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	"github.com/SscSPs/fitment_console/internal/core/domain"
	"github.com/SscSPs/fitment_console/internal/middleware"
	"github.com/SscSPs/fitment_console/internal/platform/metrics"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Metrics *metrics.Metrics
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Authorize checks that scope is resolved and grants capability. It never touches
// storage, so a denied caller causes no side effects.
func (s *BaseService) Authorize(ctx context.Context, scope domain.TenantScope, capability domain.Capability) error {
	if !scope.IsResolved() {
		return apperrors.ErrTenantUnresolved
	}
	if domain.ScopeCan(scope, capability) {
		return nil
	}
	s.Metrics.RecordDenied(string(capability), string(scope.Role))
	s.LogWarn(ctx, "Capability denied",
		slog.String("actor_id", scope.ActorID),
		slog.String("role", string(scope.Role)),
		slog.String("capability", string(capability)))
	return fmt.Errorf("%w: role %s may not %s", apperrors.ErrForbidden, scope.Role, capability)
}

// targetTenant returns the tenant a tenant-level operation applies to. Super-admins have
// no tenant of their own and must name one.
func targetTenant(scope domain.TenantScope, requested string) (string, error) {
	if scope.SuperAdmin {
		if requested != "" {
			return requested, nil
		}
		if scope.TenantID != "" {
			return scope.TenantID, nil
		}
		return "", fmt.Errorf("%w: super-admins must select a tenant", apperrors.ErrValidation)
	}
	if requested != "" && requested != scope.TenantID {
		return "", apperrors.ErrTenantIsolation
	}
	return scope.TenantID, nil
}
