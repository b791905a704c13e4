package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// TenantHeader lets a user with several memberships pick the tenant to act in. It is
// only a hint; the membership table decides.
const TenantHeader = "X-Tenant-ID"

// TenantContextMiddleware resolves the caller's TenantScope once per request and stores
// it in the request context. It must run after AuthMiddleware.
func TenantContextMiddleware(resolver portssvc.TenantContextSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		scope, err := resolver.ResolveScope(c.Request.Context(), userID, c.GetHeader(TenantHeader))
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrTenantUnresolved):
				logger.Warn("Tenant context unresolved", slog.String("error", err.Error()))
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
			case errors.Is(err, apperrors.ErrUnauthorized):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			default:
				logger.Error("Failed to resolve tenant context", slog.String("error", err.Error()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve tenant context"})
			}
			return
		}

		ctx := WithTenantScope(c.Request.Context(), scope)
		ctx = WithLogger(ctx, logger.With(
			slog.String("tenant_id", scope.TenantID),
			slog.String("role", string(scope.Role)),
			slog.Bool("super_admin", scope.SuperAdmin),
		))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
