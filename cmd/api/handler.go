package api

import (
	"github.com/seeya29/SmartBrief/internal/summary/delivery"
	"github.com/seeya29/SmartBrief/internal/summary/usecase"

	"github.com/gin-gonic/gin"
)

// Handler owns the HTTP server and its route wiring.
type Handler struct {
	summaryHandler *delivery.SummaryHandler
}

// NewHandler wires the delivery layer over the usecase and batch worker.
func NewHandler(uc usecase.SummaryUsecase, worker *usecase.BatchWorkerService) *Handler {
	return &Handler{
		summaryHandler: delivery.NewSummaryHandler(uc, worker),
	}
}

// Start runs the HTTP server on addr until it fails.
func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.summaryHandler)

	return r.Run(addr)
}
