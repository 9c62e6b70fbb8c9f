package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cargoflow/internal/service"
)

// QueueHandler exposes the extraction pipeline over HTTP.
type QueueHandler struct {
	extraction service.ExtractionService
}

// NewQueueHandler creates a new QueueHandler.
func NewQueueHandler(extraction service.ExtractionService) *QueueHandler {
	return &QueueHandler{extraction: extraction}
}

type processRequest struct {
	// FilePath overrides the stored object key; empty uses the item's own.
	FilePath string `json:"file_path"`
}

// Process handles POST /api/v1/queue/:id/process
func (h *QueueHandler) Process(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid queue item id")
		return
	}

	var req processRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
			return
		}
	}

	result, err := h.extraction.ProcessQueueItem(c.Request.Context(), id, req.FilePath)
	if err != nil {
		status, code, msg := MapDomainError(err)
		RespondError(c, status, code, msg)
		return
	}
	RespondOK(c, result)
}
