package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-reader/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-reader/internal/app"
)

// SettingsHandler serves the voice list and voice selection.
type SettingsHandler struct {
	service *app.SettingsService
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(service *app.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// ListVoices handles GET /api/voices.
func (h *SettingsHandler) ListVoices(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewVoicesResponse(h.service.Voices()))
}

// SaveSettings handles POST /api/settings. A rejected voice is still a 200;
// the outcome is in the success field.
func (h *SettingsHandler) SaveSettings(c *gin.Context) {
	var req dto.SettingsRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	result := h.service.SaveVoice(c.Request.Context(), req.VoiceID)

	c.JSON(http.StatusOK, dto.NewSettingsResponse(result))
}

// Reject answers a settings change turned away by auth middleware in the
// same shape as a rejected voice: 200 with success false.
func (h *SettingsHandler) Reject(c *gin.Context, _, message string) {
	c.AbortWithStatusJSON(http.StatusOK, dto.SettingsResponse{
		Success: false,
		Message: "Error saving settings: " + message,
	})
}

// RegisterSettingsRoutes registers the voice list on rg and the settings
// endpoint on protected, which may carry auth middleware.
func (h *SettingsHandler) RegisterSettingsRoutes(rg, protected *gin.RouterGroup) {
	rg.GET("/voices", h.ListVoices)
	protected.POST("/settings", h.SaveSettings)
}
