package api

import (
	"github.com/RishiKendai/verbatim/internal/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(cfg *config.Config, handler *Handler) *gin.Engine {
	router := gin.Default()

	rateLimiter := NewRateLimiter(cfg.RateLimitRPS, cfg.CompareRateLimitRPS)

	// Middleware
	router.Use(MetricsMiddleware())
	router.Use(ErrorHandlerMiddleware())

	// Health endpoint (no auth)
	router.GET("/health", handler.Health)

	// API routes (with auth and rate limiting)
	api := router.Group("/api/v1")
	api.Use(JWTAuthMiddleware(cfg.JWTSecret))

	// Comparisons draw from a separate, smaller budget
	compute := api.Group("", RateLimitMiddleware(rateLimiter, LimitCompare))
	{
		compute.POST("/compare", handler.Compare)
		compute.POST("/comparisons", handler.Enqueue)
	}

	reads := api.Group("", RateLimitMiddleware(rateLimiter, LimitDefault))
	{
		reads.GET("/comparisons/:id", handler.GetReport)
		reads.GET("/comparisons/:id/status", handler.GetStatus)
		reads.POST("/documents", handler.StoreDocument)
	}

	return router
}
