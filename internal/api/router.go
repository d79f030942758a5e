package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/antifraud-service/internal/api/handler"
	"github.com/antifraud-service/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	transactionHandler *handler.TransactionHandler,
	blacklistHandler *handler.BlacklistHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Transaction evaluation, feedback and history
		transactions := v1.Group("/transactions")
		{
			transactions.POST("", transactionHandler.Evaluate)
			transactions.GET("", transactionHandler.GetHistory)
			transactions.PUT("/:id/feedback", transactionHandler.SubmitFeedback)
		}
		v1.GET("/cards/:number/transactions", transactionHandler.GetHistoryByCard)

		// Blacklist maintenance
		suspiciousIPs := v1.Group("/suspicious-ips")
		{
			suspiciousIPs.POST("", blacklistHandler.AddSuspiciousIP)
			suspiciousIPs.GET("", blacklistHandler.ListSuspiciousIPs)
			suspiciousIPs.DELETE("/:ip", blacklistHandler.RemoveSuspiciousIP)
		}

		stolenCards := v1.Group("/stolen-cards")
		{
			stolenCards.POST("", blacklistHandler.AddStolenCard)
			stolenCards.GET("", blacklistHandler.ListStolenCards)
			stolenCards.DELETE("/:number", blacklistHandler.RemoveStolenCard)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
