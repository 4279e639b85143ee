package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/seeya29/SmartBrief/internal/summary/domain"
	"github.com/seeya29/SmartBrief/internal/summary/dto"
	"github.com/seeya29/SmartBrief/internal/summary/usecase"

	"github.com/gin-gonic/gin"
)

const (
	defaultContextLimit = 3
	maxContextLimit     = 50
)

// SummaryHandler serves the pipeline's HTTP operations.
type SummaryHandler struct {
	usecase usecase.SummaryUsecase
	worker  *usecase.BatchWorkerService
}

// NewSummaryHandler creates a SummaryHandler. The worker may be nil, which
// disables the batch endpoint.
func NewSummaryHandler(uc usecase.SummaryUsecase, worker *usecase.BatchWorkerService) *SummaryHandler {
	return &SummaryHandler{usecase: uc, worker: worker}
}

// POST /api/summarize
// Summarize runs the full pipeline and returns the persisted record.
func (h *SummaryHandler) Summarize(c *gin.Context) {
	var req dto.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.usecase.Summarize(req.ToPayload())
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist summary"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// POST /api/message_cleaner
// CleanMessage exposes the platform cleaner alone for preview use cases.
func (h *SummaryHandler) CleanMessage(c *gin.Context) {
	var req dto.CleanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.CleanResponse{
		CleanedText: h.usecase.Clean(req.Platform, req.MessageText),
	})
}

// GET /api/context?user_id=&platform=&limit=
// GetContext returns the most recent records for a user/platform pair,
// newest first. An unknown pair yields an empty list, not an error.
func (h *SummaryHandler) GetContext(c *gin.Context) {
	userID := c.Query("user_id")
	platform := c.Query("platform")
	if userID == "" || platform == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and platform are required"})
		return
	}

	limit := defaultContextLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	if limit > maxContextLimit {
		limit = maxContextLimit
	}

	records, err := h.usecase.GetContext(c.Request.Context(), userID, platform, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load context"})
		return
	}

	c.JSON(http.StatusOK, records)
}

// GET /api/summaries/:id
// GetSummary fetches one persisted record by summary id.
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	record, err := h.usecase.GetRecord(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "summary_id": c.Param("id")})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load summary"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// POST /api/summarize/batch
// QueueBatch queues payloads for background summarization and reports how
// many were accepted. Payloads rejected here were refused by a full queue;
// invalid payloads surface later in worker logs, never as partial records.
func (h *SummaryHandler) QueueBatch(c *gin.Context) {
	if h.worker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "batch processing disabled"})
		return
	}

	var req dto.BatchSummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := dto.BatchSummarizeResponse{}
	for _, msg := range req.Messages {
		if h.worker.QueueJob(msg.ToPayload()) {
			resp.Queued++
		} else {
			resp.Rejected++
		}
	}

	c.JSON(http.StatusOK, resp)
}
