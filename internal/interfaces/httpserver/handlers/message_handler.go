package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"coparent-api/internal/domain/analysis"
	"coparent-api/internal/domain/message"
	"coparent-api/internal/infrastructure/metrics"
	"coparent-api/internal/infrastructure/telemetry"
	"coparent-api/internal/interfaces/httpserver/requests"
	"coparent-api/internal/interfaces/httpserver/responses"
	"coparent-api/internal/utils/platformerrors"
)

// MessageHandler exposes the message log.
type MessageHandler struct {
	service   message.Service
	analyses  analysis.Service
	sanitizer *telemetry.Sanitizer
	validate  *validator.Validate
	log       zerolog.Logger
}

// NewMessageHandler constructs the handler.
func NewMessageHandler(service message.Service, analyses analysis.Service, sanitizer *telemetry.Sanitizer, log zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		service:   service,
		analyses:  analyses,
		sanitizer: sanitizer,
		validate:  newValidator(),
		log:       log.With().Str("handler", "message").Logger(),
	}
}

// Create handles POST /messages
// @Summary Log a message
// @Description Stores a new message sent or received by the caller
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body requests.CreateMessageRequest true "Message"
// @Success 201 {object} responses.MessageEnvelope
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /messages [post]
func (h *MessageHandler) Create(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	var req requests.CreateMessageRequest
	if !bindJSON(c, h.validate, &req) {
		return
	}

	msg, err := h.service.Create(c.Request.Context(), u.ID, req.ToParams())
	metrics.RecordMessageOperation("create", err)
	if err != nil {
		responses.HandleError(c, err, "failed to create message")
		return
	}

	h.log.Debug().
		Str("message_id", msg.PublicID).
		Str("content", h.sanitizer.Content(msg.Content)).
		Msg("message logged")

	c.JSON(http.StatusCreated, responses.MessageEnvelope{Message: responses.MapMessageToResponse(msg)})
}

// List handles GET /messages
// @Summary List messages
// @Description Lists the caller's visible messages, newest first
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size (1-100)"
// @Param platform query string false "Exact platform"
// @Param messageType query string false "TEXT, IMAGE, SCREENSHOT or EMAIL"
// @Param dateFrom query string false "Inclusive lower bound (RFC 3339 or YYYY-MM-DD)"
// @Param dateTo query string false "Inclusive upper bound (RFC 3339 or YYYY-MM-DD)"
// @Param hasAnalysis query bool false "Only analyzed (true) or unanalyzed (false) messages"
// @Success 200 {object} responses.MessagePageResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Router /messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	filter, err := requests.ParseListFilter(c)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "message-query-001")
		return
	}

	page, err := h.service.List(c.Request.Context(), u.ID, filter)
	metrics.RecordMessageOperation("list", err)
	if err != nil {
		responses.HandleError(c, err, "failed to list messages")
		return
	}

	c.JSON(http.StatusOK, responses.MapPageToResponse(page))
}

// Search handles GET /messages/search
// @Summary Search messages
// @Description Case-insensitive substring search over content, OCR text and platform
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search term"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size (1-100)"
// @Success 200 {object} responses.MessagePageResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Router /messages/search [get]
func (h *MessageHandler) Search(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	query, page, limit, err := requests.ParseSearch(c)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "message-query-002")
		return
	}
	if _, present := c.GetQuery("q"); !present {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Search query is required", "message-query-003")
		return
	}

	result, err := h.service.Search(c.Request.Context(), u.ID, query, page, limit)
	metrics.RecordMessageOperation("search", err)
	if err != nil {
		responses.HandleError(c, err, "failed to search messages")
		return
	}

	h.log.Debug().
		Str("query", h.sanitizer.Query(query)).
		Int64("total", result.Total).
		Msg("message search")

	c.JSON(http.StatusOK, responses.MapPageToResponse(result))
}

// Stats handles GET /messages/stats
// @Summary Message statistics
// @Description Totals, platform breakdown and the last seven days of activity
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} responses.StatsResponse
// @Failure 401 {object} responses.ErrorResponse
// @Router /messages/stats [get]
func (h *MessageHandler) Stats(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := h.service.GetStats(c.Request.Context(), u.ID)
	metrics.RecordMessageOperation("stats", err)
	if err != nil {
		responses.HandleError(c, err, "failed to compute statistics")
		return
	}

	c.JSON(http.StatusOK, responses.MapStatsToResponse(stats))
}

// Get handles GET /messages/:id
// @Summary Get a message
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} responses.MessageEnvelope
// @Failure 404 {object} responses.ErrorResponse
// @Router /messages/{id} [get]
func (h *MessageHandler) Get(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	msg, err := h.service.GetByID(c.Request.Context(), c.Param("id"), u.ID)
	metrics.RecordMessageOperation("get", err)
	if err != nil {
		responses.HandleError(c, err, "failed to get message")
		return
	}

	c.JSON(http.StatusOK, responses.MessageEnvelope{Message: responses.MapMessageToResponse(msg)})
}

// Update handles PUT /messages/:id
// @Summary Update a message
// @Description Partial update; only the sender may update. Keys absent from the body are left untouched.
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Param request body requests.UpdateMessageRequest true "Fields to change"
// @Success 200 {object} responses.MessageEnvelope
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /messages/{id} [put]
func (h *MessageHandler) Update(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	var req requests.UpdateMessageRequest
	if !bindJSON(c, h.validate, &req) {
		return
	}

	msg, err := h.service.Update(c.Request.Context(), c.Param("id"), u.ID, req.ToParams())
	metrics.RecordMessageOperation("update", err)
	if err != nil {
		responses.HandleError(c, err, "failed to update message")
		return
	}

	c.JSON(http.StatusOK, responses.MessageEnvelope{Message: responses.MapMessageToResponse(msg)})
}

// Delete handles DELETE /messages/:id
// @Summary Delete a message
// @Description Soft-deletes the message; only the sender may delete
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} responses.ErrorResponse
// @Router /messages/{id} [delete]
func (h *MessageHandler) Delete(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	err := h.service.SoftDelete(c.Request.Context(), c.Param("id"), u.ID)
	metrics.RecordMessageOperation("delete", err)
	if err != nil {
		responses.HandleError(c, err, "failed to delete message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Analyses handles GET /messages/:id/analyses
// @Summary Analysis history
// @Description Lists every analysis run for the message, newest first
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} responses.AnalysisListResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /messages/{id}/analyses [get]
func (h *MessageHandler) Analyses(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	messageID := c.Param("id")
	runs, err := h.analyses.ListForMessage(c.Request.Context(), messageID, u.ID)
	if err != nil {
		responses.HandleError(c, err, "failed to list analyses")
		return
	}

	c.JSON(http.StatusOK, responses.MapAnalysesToResponse(runs, messageID))
}
