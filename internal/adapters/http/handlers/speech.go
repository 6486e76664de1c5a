package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-reader/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-reader/internal/app"
)

// SpeechHandler serves text-to-speech requests.
type SpeechHandler struct {
	service *app.SpeechService
}

// NewSpeechHandler creates a new speech handler.
func NewSpeechHandler(service *app.SpeechService) *SpeechHandler {
	return &SpeechHandler{service: service}
}

// Synthesize handles POST /api/tts. The response carries either an MP3 data
// URL or app.BrowserSpeechSentinel, telling the page to speak the text itself.
//
// @Summary Convert text to speech
// @Tags speech
// @Accept json
// @Produce json
// @Param request body dto.SpeechRequest true "Text and voice options"
// @Success 200 {object} dto.SpeechResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/tts [post]
func (h *SpeechHandler) Synthesize(c *gin.Context) {
	var req dto.SpeechRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	audio, err := h.service.Synthesize(c.Request.Context(), req.ToInput())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SpeechResponse{AudioData: audio})
}

// RegisterSpeechRoutes registers speech routes on the given router group.
func (h *SpeechHandler) RegisterSpeechRoutes(rg *gin.RouterGroup) {
	rg.POST("/tts", h.Synthesize)
}
