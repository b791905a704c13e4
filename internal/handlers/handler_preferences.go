package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
	"github.com/SscSPs/fitment_console/internal/dto"
	"github.com/gin-gonic/gin"
)

type preferenceHandler struct {
	preferenceService portssvc.NotificationPreferenceSvc
}

func registerPreferenceRoutes(rg *gin.RouterGroup, ps portssvc.NotificationPreferenceSvc) {
	h := &preferenceHandler{preferenceService: ps}

	prefs := rg.Group("/notification-preferences")
	{
		prefs.GET("", h.listPreferences)
		prefs.PUT("", h.setPreference)
	}
}

// listPreferences godoc
// @Summary List own notification preferences
// @Description Returns the caller's effective opt-in for every event type in the current tenant
// @Tags notifications
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Success 200 {object} dto.ListPreferencesResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /notification-preferences [get]
func (h *preferenceHandler) listPreferences(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	prefs, err := h.preferenceService.ListPreferences(c.Request.Context(), scope)
	if err != nil {
		respondWithError(c, err, "Preference", "Failed to list notification preferences")
		return
	}
	c.JSON(http.StatusOK, dto.ListPreferencesResponse{Preferences: prefs})
}

// setPreference godoc
// @Summary Opt in or out of an event
// @Tags notifications
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Param preference body dto.SetPreferenceRequest true "Preference"
// @Success 200 {object} domain.NotificationPreference
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /notification-preferences [put]
func (h *preferenceHandler) setPreference(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	var req dto.SetPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	pref, err := h.preferenceService.SetPreference(c.Request.Context(), scope, req.EventType, *req.Enabled)
	if err != nil {
		respondWithError(c, err, "Preference", "Failed to save notification preference")
		return
	}
	c.JSON(http.StatusOK, pref)
}
