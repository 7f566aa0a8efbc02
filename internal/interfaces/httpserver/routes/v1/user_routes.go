package v1

import (
	"github.com/gin-gonic/gin"

	"coparent-api/internal/interfaces/httpserver/handlers"
)

func registerUserRoutes(router gin.IRoutes, handler *handlers.UserHandler) {
	router.GET("/auth/me", handler.Me)
	router.GET("/users/settings", handler.GetSettings)
	router.PUT("/users/settings", handler.UpdateSettings)
	router.GET("/users/lookup", handler.Lookup)
	router.DELETE("/users/me", handler.DeleteAccount)
}

func registerCredentialRoutes(router gin.IRoutes, handler *handlers.CredentialHandler) {
	router.GET("/users/credentials", handler.List)
	router.PUT("/users/credentials/:provider", handler.Put)
	router.DELETE("/users/credentials/:provider", handler.Delete)
}
