package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/fitment_console/internal/core/domain"
	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
	"github.com/SscSPs/fitment_console/internal/dto"
	"github.com/SscSPs/fitment_console/internal/middleware"
	"github.com/gin-gonic/gin"
)

// tenantHandler handles HTTP requests related to tenants and their members.
type tenantHandler struct {
	tenantService portssvc.TenantSvcFacade
}

func newTenantHandler(ts portssvc.TenantSvcFacade) *tenantHandler {
	return &tenantHandler{tenantService: ts}
}

// registerTenantCreationRoutes registers the routes that only need an authenticated user.
func registerTenantCreationRoutes(rg *gin.RouterGroup, ts portssvc.TenantSvcFacade) {
	h := newTenantHandler(ts)
	rg.POST("/tenants", h.createTenant)
}

// registerTenantRoutes registers the routes that act inside a resolved tenant scope.
func registerTenantRoutes(rg *gin.RouterGroup, ts portssvc.TenantSvcFacade) {
	h := newTenantHandler(ts)

	rg.GET("/tenant", h.getCurrentTenant)

	tenants := rg.Group("/tenants/:tenant_id")
	{
		tenants.GET("", h.getTenant)
		tenants.PATCH("/status", h.setTenantStatus)
	}

	members := rg.Group("/members")
	{
		members.GET("", h.listMembers)
		members.POST("", h.addMember)
		members.PUT("/:user_id/role", h.updateMemberRole)
		members.DELETE("/:user_id", h.removeMember)
	}
}

// scopeOrAbort returns the resolved tenant scope, answering 403 when there is none.
func scopeOrAbort(c *gin.Context) (domain.TenantScope, bool) {
	scope, ok := middleware.GetTenantScopeFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "No active tenant membership for this request"})
		return domain.TenantScope{}, false
	}
	return scope, true
}

// createTenant godoc
// @Summary Create a tenant
// @Description Creates a tenant and makes the caller its first admin.
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenant body dto.CreateTenantRequest true "Tenant details"
// @Success 201 {object} dto.TenantResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Slug already taken"
// @Security BearerAuth
// @Router /tenants [post]
func (h *tenantHandler) createTenant(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err, "Tenant", "Failed to create tenant")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Tenant created", slog.String("tenant_id", tenant.TenantID))
	c.JSON(http.StatusCreated, dto.ToTenantResponse(tenant))
}

// getCurrentTenant godoc
// @Summary Get the current tenant
// @Description Returns the tenant the request was resolved to.
// @Tags tenants
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Success 200 {object} dto.TenantResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenant [get]
func (h *tenantHandler) getCurrentTenant(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}
	h.respondTenant(c, scope, scope.TenantID)
}

// getTenant godoc
// @Summary Get a tenant
// @Tags tenants
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Success 200 {object} dto.TenantResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id} [get]
func (h *tenantHandler) getTenant(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}
	h.respondTenant(c, scope, c.Param("tenant_id"))
}

func (h *tenantHandler) respondTenant(c *gin.Context, scope domain.TenantScope, tenantID string) {
	tenant, err := h.tenantService.GetTenant(c.Request.Context(), scope, tenantID)
	if err != nil {
		respondWithError(c, err, "Tenant", "Failed to retrieve tenant")
		return
	}
	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

// setTenantStatus godoc
// @Summary Activate or deactivate a tenant
// @Description Super-admin only. A deactivated tenant is closed to everyone except its admins.
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param status body dto.SetTenantStatusRequest true "New status"
// @Success 200 {object} dto.TenantResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/status [patch]
func (h *tenantHandler) setTenantStatus(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	var req dto.SetTenantStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tenant, err := h.tenantService.SetTenantActive(c.Request.Context(), scope, c.Param("tenant_id"), *req.IsActive)
	if err != nil {
		respondWithError(c, err, "Tenant", "Failed to update tenant status")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Tenant status changed",
		slog.String("target_tenant_id", tenant.TenantID), slog.Bool("is_active", tenant.IsActive))
	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

// listMembers godoc
// @Summary List tenant members
// @Tags members
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Success 200 {object} dto.ListMembersResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /members [get]
func (h *tenantHandler) listMembers(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	members, err := h.tenantService.ListMembers(c.Request.Context(), scope)
	if err != nil {
		respondWithError(c, err, "Tenant", "Failed to list members")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMembersResponse(members))
}

// addMember godoc
// @Summary Add a member
// @Description Adds an existing user to the current tenant with a role. Tenant admins only.
// @Tags members
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Param member body dto.AddMemberRequest true "Member details"
// @Success 201 {object} dto.MembershipResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /members [post]
func (h *tenantHandler) addMember(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	membership, err := h.tenantService.AddMember(c.Request.Context(), scope, req)
	if err != nil {
		respondWithError(c, err, "Member", "Failed to add member")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Member added",
		slog.String("member_user_id", membership.UserID), slog.String("member_role", string(membership.Role)))
	c.JSON(http.StatusCreated, dto.ToMembershipResponse(membership))
}

// updateMemberRole godoc
// @Summary Change a member's role
// @Tags members
// @Accept json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Param user_id path string true "User ID"
// @Param role body dto.UpdateMemberRoleRequest true "New role"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/{user_id}/role [put]
func (h *tenantHandler) updateMemberRole(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	var req dto.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.tenantService.UpdateMemberRole(c.Request.Context(), scope, c.Param("user_id"), req.Role); err != nil {
		respondWithError(c, err, "Member", "Failed to update member role")
		return
	}
	c.Status(http.StatusNoContent)
}

// removeMember godoc
// @Summary Remove a member
// @Description Revokes the membership. The user keeps their account.
// @Tags members
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Param user_id path string true "User ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/{user_id} [delete]
func (h *tenantHandler) removeMember(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	if err := h.tenantService.RemoveMember(c.Request.Context(), scope, c.Param("user_id")); err != nil {
		respondWithError(c, err, "Member", "Failed to remove member")
		return
	}
	c.Status(http.StatusNoContent)
}
