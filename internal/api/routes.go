package api

import (
	"log/slog"

	"nlpengine/internal/mockapi"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, gen *mockapi.Generator, log *slog.Logger) {
	handler := NewHandler(gen, log)

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/overview", handler.OverviewHandler)
		apiGroup.GET("/dashboard", handler.DashboardHandler)
		apiGroup.GET("/activity", handler.RecentActivityHandler)

		auditGroup := apiGroup.Group("/audit")
		{
			auditGroup.POST("", handler.AuditWebsiteHandler)
			auditGroup.GET("/history", handler.AuditHistoryHandler)
		}

		blockchainGroup := apiGroup.Group("/blockchain")
		{
			blockchainGroup.POST("/verify", handler.VerifyContentHandler)
			blockchainGroup.POST("/register", handler.RegisterContentHandler)
			blockchainGroup.POST("/verify-hash", handler.VerifyHashHandler)
			blockchainGroup.GET("/transactions", handler.TransactionsHandler)
			blockchainGroup.GET("/performance", handler.BlockchainPerformanceHandler)
		}

		contentGroup := apiGroup.Group("/content")
		{
			contentGroup.POST("/generate", handler.GenerateContentHandler)
			contentGroup.POST("/optimize", handler.OptimizeContentHandler)
		}

		keywordsGroup := apiGroup.Group("/keywords")
		{
			keywordsGroup.GET("", handler.KeywordsHandler)
			keywordsGroup.POST("", handler.AddKeywordHandler)
			keywordsGroup.GET("/overview", handler.KeywordsOverviewHandler)
			keywordsGroup.GET("/research", handler.ResearchKeywordsHandler)
			keywordsGroup.GET("/competitors", handler.CompetitorsHandler)
		}

		serpGroup := apiGroup.Group("/serp")
		{
			serpGroup.POST("/analyze", handler.AnalyzeSERPHandler)
			serpGroup.GET("/history", handler.SERPHistoryHandler)
		}
	}
}
