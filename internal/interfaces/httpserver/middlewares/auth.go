package middlewares

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"coparent-api/internal/domain/user"
	"coparent-api/internal/infrastructure/auth"
	"coparent-api/internal/interfaces/httpserver/responses"
	"coparent-api/internal/utils/platformerrors"
)

const userContextKey = "user"

// TokenValidator checks a bearer token and returns its claims.
type TokenValidator interface {
	Validate(ctx context.Context, rawToken string) (*auth.Claims, error)
	Provider() string
}

// IdentityResolver maps token claims onto the stored application user.
type IdentityResolver interface {
	ResolveOrCreate(ctx context.Context, identity user.Identity) (*user.User, error)
}

// AuthMiddleware requires a valid bearer token and resolves the caller's user record,
// creating it on first sight.
func AuthMiddleware(validator TokenValidator, users IdentityResolver, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			logger.Debug().
				Str("path", c.FullPath()).
				Str("method", c.Request.Method).
				Msg("unauthenticated request")
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "auth-missing-001")
			return
		}

		claims, err := validator.Validate(c.Request.Context(), token)
		if err != nil {
			logger.Warn().Err(err).Msg("bearer token rejected")
			message := "invalid token"
			if errors.Is(err, auth.ErrMissingSubject) {
				message = "token has no subject"
			}
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, message, "auth-invalid-001")
			return
		}

		u, err := users.ResolveOrCreate(c.Request.Context(), claims.Identity(validator.Provider()))
		if err != nil {
			responses.HandleError(c, err, "failed to resolve user")
			return
		}

		c.Set(userContextKey, u)
		c.Set("user_id", u.PublicID)
		c.Next()
	}
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(c *gin.Context) (*user.User, bool) {
	val, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	u, ok := val.(*user.User)
	return u, ok && u != nil
}
