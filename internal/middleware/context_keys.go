package middleware

import (
	"context"
	"log/slog"

	"github.com/SscSPs/fitment_console/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is a private type for request context keys.
// Using a custom type prevents collisions.
type contextKey string

const (
	userIDKey      = contextKey("userID")
	loggerCtxKey   = contextKey("logger")
	tenantScopeKey = contextKey("tenantScope")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// WithUserID stores the authenticated user id in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetLoggerFromCtx retrieves the request-scoped logger from a standard context.
// It returns slog.Default when none was stored.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// GetTenantScopeFromContext retrieves the scope resolved by TenantContextMiddleware.
func GetTenantScopeFromContext(c *gin.Context) (domain.TenantScope, bool) {
	scope, ok := c.Request.Context().Value(tenantScopeKey).(domain.TenantScope)
	if !ok || !scope.IsResolved() {
		return domain.TenantScope{}, false
	}
	return scope, true
}

// WithTenantScope stores a resolved scope in ctx.
func WithTenantScope(ctx context.Context, scope domain.TenantScope) context.Context {
	return context.WithValue(ctx, tenantScopeKey, scope)
}
