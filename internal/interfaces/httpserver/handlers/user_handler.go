package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"coparent-api/internal/domain/user"
	"coparent-api/internal/infrastructure/telemetry"
	"coparent-api/internal/interfaces/httpserver/requests"
	"coparent-api/internal/interfaces/httpserver/responses"
)

// UserHandler serves the caller's account.
type UserHandler struct {
	service   user.Service
	sanitizer *telemetry.Sanitizer
	validate  *validator.Validate
	log       zerolog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(service user.Service, sanitizer *telemetry.Sanitizer, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		service:   service,
		sanitizer: sanitizer,
		validate:  newValidator(),
		log:       log.With().Str("handler", "user").Logger(),
	}
}

// Me handles GET /auth/me
// @Summary Current user
// @Description Returns the caller's user record, creating it on first sight
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} responses.UserEnvelope
// @Failure 401 {object} responses.ErrorResponse
// @Router /auth/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, responses.UserEnvelope{User: responses.MapUserToResponse(u)})
}

// GetSettings handles GET /users/settings
// @Summary Get settings
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} responses.UserEnvelope
// @Failure 401 {object} responses.ErrorResponse
// @Router /users/settings [get]
func (h *UserHandler) GetSettings(c *gin.Context) {
	h.Me(c)
}

// UpdateSettings handles PUT /users/settings
// @Summary Update settings
// @Description Changes the preferred AI provider and whether analysis is enabled. Absent keys are left untouched.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body requests.UpdateSettingsRequest true "Settings"
// @Success 200 {object} responses.UserEnvelope
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Router /users/settings [put]
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	var req requests.UpdateSettingsRequest
	if !bindJSON(c, h.validate, &req) {
		return
	}

	updated, err := h.service.UpdateSettings(c.Request.Context(), u.ID, req.ToSettingsUpdate())
	if err != nil {
		responses.HandleError(c, err, "failed to update settings")
		return
	}

	c.JSON(http.StatusOK, responses.UserEnvelope{User: responses.MapUserToResponse(updated)})
}

// Lookup handles GET /users/lookup
// @Summary Find a co-parent by e-mail
// @Description Returns the reduced profile used to address messages to another user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param email query string true "E-mail address"
// @Success 200 {object} responses.ProfileResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /users/lookup [get]
func (h *UserHandler) Lookup(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	email := c.Query("email")
	profile, err := h.service.GetByEmail(c.Request.Context(), email)
	if err != nil {
		h.log.Debug().Str("email", h.sanitizer.Email(email)).Msg("user lookup failed")
		responses.HandleError(c, err, "failed to look up user")
		return
	}

	c.JSON(http.StatusOK, responses.MapProfileToResponse(profile))
}

// DeleteAccount handles DELETE /users/me
// @Summary Delete account
// @Description Archives every message the caller takes part in and deactivates the account
// @Tags Users
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} responses.ErrorResponse
// @Router /users/me [delete]
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAccount(c.Request.Context(), u.ID); err != nil {
		responses.HandleError(c, err, "failed to delete account")
		return
	}

	c.Status(http.StatusNoContent)
}
