package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-reader/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-reader/internal/app"
)

// QuoteHandler serves the quote generation API.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// GenerateQuotes handles POST /api/quotes.
//
// @Summary Generate quotes for a subject
// @Description Classifies the subject, asks the language model for quotes and
// @Description falls back to the built-in catalog when the model fails.
// @Tags quotes
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Subject"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/quotes [post]
func (h *QuoteHandler) GenerateQuotes(c *gin.Context) {
	var req dto.QuoteRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	result, err := h.service.GenerateQuotes(c.Request.Context(), req.Subject)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(result))
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	rg.POST("/quotes", h.GenerateQuotes)
}
