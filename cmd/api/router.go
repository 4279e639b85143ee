package api

import (
	"net/http"

	"github.com/seeya29/SmartBrief/internal/summary/delivery"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the pipeline's HTTP surface on the engine.
func SetupRoutes(r *gin.Engine, summaryHandler *delivery.SummaryHandler) {
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "version": "v4"})
		})

		api.POST("/summarize", summaryHandler.Summarize)
		api.POST("/summarize/batch", summaryHandler.QueueBatch)
		api.POST("/message_cleaner", summaryHandler.CleanMessage)
		api.GET("/context", summaryHandler.GetContext)
		api.GET("/summaries/:id", summaryHandler.GetSummary)
	}
}
