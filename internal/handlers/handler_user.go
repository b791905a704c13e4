package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
	"github.com/SscSPs/fitment_console/internal/dto"
	"github.com/SscSPs/fitment_console/internal/middleware"
	"github.com/gin-gonic/gin"
)

// userHandler serves the caller's own profile.
type userHandler struct {
	userService   portssvc.UserSvcFacade
	tenantService portssvc.TenantSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade, ts portssvc.TenantSvcFacade) *userHandler {
	return &userHandler{userService: us, tenantService: ts}
}

// registerUserRoutes registers the /me routes. They need an authenticated user but no tenant.
func registerUserRoutes(rg *gin.RouterGroup, us portssvc.UserSvcFacade, ts portssvc.TenantSvcFacade) {
	h := newUserHandler(us, ts)

	me := rg.Group("/me")
	{
		me.GET("", h.getMe)
		me.PATCH("", h.updateMe)
		me.GET("/tenants", h.listMyTenants)
	}
}

// getMe godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /me [get]
func (h *userHandler) getMe(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "User", "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// updateMe godoc
// @Summary Update own profile
// @Description Updates the caller's name and phone. The phone is where notifications are delivered.
// @Tags users
// @Accept json
// @Produce json
// @Param profile body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /me [patch]
func (h *userHandler) updateMe(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err, "User", "Failed to update profile")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Profile updated", slog.String("user_id", userID))
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// listMyTenants godoc
// @Summary List own tenants
// @Description Lists the tenants the caller belongs to, or every tenant for a super-admin.
// @Tags users
// @Produce json
// @Success 200 {object} dto.ListTenantsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /me/tenants [get]
func (h *userHandler) listMyTenants(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	tenants, err := h.tenantService.ListActorTenants(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Tenant", "Failed to list tenants")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTenantsResponse(tenants))
}
