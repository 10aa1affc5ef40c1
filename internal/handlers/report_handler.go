package handlers

import (
	"context"
	"net/http"

	"atenciones-backend/internal/middleware"
	"atenciones-backend/internal/services"
	"atenciones-backend/pkg/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ReportHandler serves file downloads: filtered exports and PDF receipts
type ReportHandler struct {
	Export  *services.ExportService
	Reports *services.ReportService
	logger  *zap.Logger
}

func NewReportHandler(export *services.ExportService, reports *services.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{Export: export, Reports: reports, logger: logger}
}

// ExportVisits handles POST /api/exportar
// Body: {"fields": {...}, "filters": {"dateFrom", "dateTo", "region"}, "format": "csv|excel|pdf"}
func (h *ReportHandler) ExportVisits(w http.ResponseWriter, r *http.Request) {
	var req services.ExportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), exportTimeout)
	defer cancel()

	file, err := h.Export.ExportVisits(ctx, middleware.CallerFromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.Attachment(w, file.Filename, file.ContentType, file.Content)
}

// GetVisitPDF handles GET /api/atenciones/{id}/pdf
func (h *ReportHandler) GetVisitPDF(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), exportTimeout)
	defer cancel()

	content, filename, err := h.Reports.VisitReceipt(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.Attachment(w, filename, "application/pdf", content)
}

// GetProducerPDF handles GET /api/productores/{id}/pdf
func (h *ReportHandler) GetProducerPDF(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), exportTimeout)
	defer cancel()

	content, filename, err := h.Reports.ProducerReport(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.Attachment(w, filename, "application/pdf", content)
}
