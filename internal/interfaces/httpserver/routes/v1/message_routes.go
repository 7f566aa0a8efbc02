package v1

import (
	"github.com/gin-gonic/gin"

	"coparent-api/internal/interfaces/httpserver/handlers"
)

func registerMessageRoutes(router gin.IRoutes, handler *handlers.MessageHandler) {
	router.POST("/messages", handler.Create)
	router.GET("/messages", handler.List)
	router.GET("/messages/search", handler.Search)
	router.GET("/messages/stats", handler.Stats)
	router.GET("/messages/:id", handler.Get)
	router.PUT("/messages/:id", handler.Update)
	router.DELETE("/messages/:id", handler.Delete)
	router.GET("/messages/:id/analyses", handler.Analyses)
}

func registerAnalysisRoutes(router gin.IRoutes, handler *handlers.AnalysisHandler) {
	router.POST("/ai/analyze", handler.Analyze)
}

func registerUploadRoutes(router gin.IRoutes, handler *handlers.UploadHandler) {
	router.POST("/upload", handler.Upload)
}
