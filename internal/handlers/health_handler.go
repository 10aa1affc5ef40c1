package handlers

import (
	"net/http"

	"atenciones-backend/internal/health"
	"atenciones-backend/pkg/utils"
)

type HealthHandler struct {
	checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// BasicHealth is the liveness probe; it names the store driver and cache backend
func (h *HealthHandler) BasicHealth(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.checker.Liveness())
}

// ReadinessHealth fails only when the store is unreachable. A lost cache reports degraded.
func (h *HealthHandler) ReadinessHealth(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckBasic(r.Context())
	utils.JSON(w, readinessCode(status.Status), status)
}

// DetailedHealth adds host figures for the monitoring dashboard
func (h *HealthHandler) DetailedHealth(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckDetailed(r.Context())
	utils.JSON(w, readinessCode(status.Status), status)
}

func readinessCode(status string) int {
	if status == "unhealthy" {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}
