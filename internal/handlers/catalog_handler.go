package handlers

import (
	"context"
	"net/http"

	"atenciones-backend/internal/services"
	"atenciones-backend/pkg/utils"

	"go.uber.org/zap"
)

// CatalogHandler serves the region and agency selects of the visit form
type CatalogHandler struct {
	Service *services.CatalogService
	logger  *zap.Logger
}

func NewCatalogHandler(service *services.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Service: service, logger: logger}
}

func (h *CatalogHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	regions, err := h.Service.ListRegions(ctx)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, regions)
}

// ListAgencies handles GET /api/agencias?regionId=
func (h *CatalogHandler) ListAgencies(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	agencies, err := h.Service.ListAgencies(ctx, r.URL.Query().Get("regionId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, agencies)
}
