package v1

import (
	"github.com/gin-gonic/gin"

	"coparent-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes builds the v1 route registrar.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register mounts every route at the root and again under /v1.
func (r *Routes) Register(engine *gin.Engine, middleware ...gin.HandlerFunc) {
	for _, prefix := range []string{"/", "/v1"} {
		group := engine.Group(prefix, middleware...)
		registerMessageRoutes(group, r.handlers.Message)
		registerAnalysisRoutes(group, r.handlers.Analysis)
		registerUserRoutes(group, r.handlers.User)
		registerCredentialRoutes(group, r.handlers.Credential)
		registerUploadRoutes(group, r.handlers.Upload)
	}
}
