package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"coparent-api/internal/domain/credential"
	"coparent-api/internal/interfaces/httpserver/requests"
	"coparent-api/internal/interfaces/httpserver/responses"
	"coparent-api/internal/utils/platformerrors"
)

// CredentialHandler manages the caller's AI provider keys.
type CredentialHandler struct {
	service  credential.Service
	validate *validator.Validate
	log      zerolog.Logger
}

// NewCredentialHandler constructs the handler.
func NewCredentialHandler(service credential.Service, log zerolog.Logger) *CredentialHandler {
	return &CredentialHandler{
		service:  service,
		validate: newValidator(),
		log:      log.With().Str("handler", "credential").Logger(),
	}
}

// List handles GET /users/credentials
// @Summary List provider keys
// @Description Lists stored keys in masked form
// @Tags Credentials
// @Produce json
// @Security BearerAuth
// @Success 200 {object} responses.CredentialListResponse
// @Failure 401 {object} responses.ErrorResponse
// @Router /users/credentials [get]
func (h *CredentialHandler) List(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	creds, err := h.service.List(c.Request.Context(), u.ID)
	if err != nil {
		responses.HandleError(c, err, "failed to list credentials")
		return
	}

	c.JSON(http.StatusOK, responses.MapCredentialsToResponse(creds))
}

// Put handles PUT /users/credentials/:provider
// @Summary Store a provider key
// @Description Stores (or replaces) the caller's API key for an AI provider
// @Tags Credentials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param provider path string true "openai, anthropic, groq or gemini"
// @Param request body requests.PutCredentialRequest true "API key"
// @Success 200 {object} responses.CredentialResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /users/credentials/{provider} [put]
func (h *CredentialHandler) Put(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	provider, ok := h.provider(c)
	if !ok {
		return
	}

	var req requests.PutCredentialRequest
	if !bindJSON(c, h.validate, &req) {
		return
	}

	cred, err := h.service.Put(c.Request.Context(), u.ID, provider, req.APIKey)
	if err != nil {
		responses.HandleError(c, err, "failed to store credential")
		return
	}

	h.log.Info().Str("provider", string(provider)).Msg("provider key stored")
	c.JSON(http.StatusOK, responses.MapCredentialToResponse(cred))
}

// Delete handles DELETE /users/credentials/:provider
// @Summary Remove a provider key
// @Tags Credentials
// @Security BearerAuth
// @Param provider path string true "openai, anthropic, groq or gemini"
// @Success 204
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /users/credentials/{provider} [delete]
func (h *CredentialHandler) Delete(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	provider, ok := h.provider(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), u.ID, provider); err != nil {
		responses.HandleError(c, err, "failed to delete credential")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CredentialHandler) provider(c *gin.Context) (credential.Provider, bool) {
	provider, ok := credential.ParseProvider(c.Param("provider"))
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"provider must be one of openai, anthropic, groq, gemini", "credential-route-001")
		return "", false
	}
	return provider, true
}
