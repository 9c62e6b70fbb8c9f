package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cargoflow/internal/service"
)

// AlertHandler exposes the alert engine over HTTP.
type AlertHandler struct {
	alerts service.AlertService
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alerts service.AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// Sweep handles POST /api/v1/alerts/sweep
func (h *AlertHandler) Sweep(c *gin.Context) {
	result, err := h.alerts.RunSweep(c.Request.Context())
	if err != nil {
		status, code, msg := MapDomainError(err)
		RespondError(c, status, code, msg)
		return
	}
	RespondOK(c, result)
}

// ListActive handles GET /api/v1/alerts
func (h *AlertHandler) ListActive(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	alerts, total, err := h.alerts.ListActive(c.Request.Context(), offset, limit)
	if err != nil {
		status, code, msg := MapDomainError(err)
		RespondError(c, status, code, msg)
		return
	}
	RespondPaginated(c, alerts, PagMeta{Total: total, Offset: offset, Limit: limit})
}

type resolveRequest struct {
	Notes string `json:"notes"`
}

// Resolve handles POST /api/v1/alerts/:id/resolve
func (h *AlertHandler) Resolve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid alert id")
		return
	}

	var req resolveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
			return
		}
	}
	if req.Notes == "" {
		req.Notes = "Resolved manually."
	}

	if err := h.alerts.Resolve(c.Request.Context(), id, req.Notes); err != nil {
		status, code, msg := MapDomainError(err)
		RespondError(c, status, code, msg)
		return
	}
	RespondOK(c, gin.H{"resolved": true})
}
