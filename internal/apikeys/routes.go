package apikeys

import (
	"log/slog"

	"nlpengine/internal/db"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, dbService db.Service, tester Tester, log *slog.Logger) {
	handler := NewHandler(dbService, tester, log)

	keysGroup := router.Group("/api/api-keys")
	{
		keysGroup.GET("", handler.ListAPIKeysHandler)
		keysGroup.POST("", handler.CreateAPIKeyHandler)
		keysGroup.POST("/test", handler.TestAPIKeyHandler)
		keysGroup.GET("/:id", handler.GetAPIKeyHandler)
		keysGroup.PUT("/:id", handler.UpdateAPIKeyHandler)
		keysGroup.DELETE("/:id", handler.DeleteAPIKeyHandler)
	}
}
