package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"coparent-api/internal/domain/analysis"
	"coparent-api/internal/interfaces/httpserver/requests"
	"coparent-api/internal/interfaces/httpserver/responses"
)

// AnalysisHandler triggers AI analysis of messages.
type AnalysisHandler struct {
	service  analysis.Service
	validate *validator.Validate
	log      zerolog.Logger
}

// NewAnalysisHandler constructs the handler.
func NewAnalysisHandler(service analysis.Service, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:  service,
		validate: newValidator(),
		log:      log.With().Str("handler", "analysis").Logger(),
	}
}

// Analyze handles POST /ai/analyze
// @Summary Analyze a message
// @Description Runs the chosen (or preferred) AI provider over a visible message and stores a new analysis run
// @Tags Analysis
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body requests.AnalyzeRequest true "Analysis request"
// @Success 201 {object} responses.AnalysisResponse
// @Failure 400 {object} responses.ErrorResponse "Validation failure or no API key configured"
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse "Provider failure"
// @Router /ai/analyze [post]
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	var req requests.AnalyzeRequest
	if !bindJSON(c, h.validate, &req) {
		return
	}
	messageID := strings.TrimSpace(req.MessageID)

	result, err := h.service.Analyze(c.Request.Context(), messageID, u.ID, req.Provider)
	if err != nil {
		responses.HandleError(c, err, "failed to analyze message")
		return
	}

	h.log.Info().
		Str("message_id", messageID).
		Str("provider", result.Provider).
		Str("model", result.Model).
		Msg("message analyzed")

	c.JSON(http.StatusCreated, responses.MapAnalysisToResponse(result, messageID))
}
