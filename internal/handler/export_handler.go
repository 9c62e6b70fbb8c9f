package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cargoflow/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves generated workbook downloads.
type ExportHandler struct {
	ledger *export.LedgerWriter
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(ledger *export.LedgerWriter) *ExportHandler {
	return &ExportHandler{ledger: ledger}
}

// SupplierLedger handles GET /api/v1/suppliers/:id/ledger.xlsx
func (h *ExportHandler) SupplierLedger(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid supplier id")
		return
	}

	data, filename, err := h.ledger.WriteSupplierLedger(c.Request.Context(), id)
	if err != nil {
		status, code, msg := MapDomainError(err)
		RespondError(c, status, code, msg)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
