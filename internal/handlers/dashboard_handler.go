package handlers

import (
	"context"
	"net/http"

	"atenciones-backend/internal/services"
	"atenciones-backend/pkg/utils"

	"go.uber.org/zap"
)

type DashboardHandler struct {
	Service *services.StatsService
	logger  *zap.Logger
}

func NewDashboardHandler(service *services.StatsService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{Service: service, logger: logger}
}

// GetStats handles GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	stats, err := h.Service.Statistics(ctx)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}
