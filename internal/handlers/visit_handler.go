package handlers

import (
	"context"
	"net/http"

	"atenciones-backend/internal/middleware"
	"atenciones-backend/internal/models"
	"atenciones-backend/internal/services"
	"atenciones-backend/pkg/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type VisitHandler struct {
	Service *services.VisitService
	logger  *zap.Logger
}

func NewVisitHandler(service *services.VisitService, logger *zap.Logger) *VisitHandler {
	return &VisitHandler{Service: service, logger: logger}
}

// ListVisits handles GET /api/atenciones
// Query params: page, limit, search, region, dateFrom, dateTo
func (h *VisitHandler) ListVisits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.VisitFilter{
		DateFrom: q.Get("dateFrom"),
		DateTo:   q.Get("dateTo"),
		Region:   q.Get("region"),
		Search:   q.Get("search"),
	}
	page := services.ParsePagination(q.Get("page"), q.Get("limit"))

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := h.Service.ListVisits(ctx, filter, page)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

func (h *VisitHandler) CreateVisit(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVisitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	visit, err := h.Service.CreateVisit(ctx, middleware.CallerFromContext(r.Context()), &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, visit)
}

func (h *VisitHandler) GetVisit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	visit, err := h.Service.GetVisit(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, visit)
}

func (h *VisitHandler) UpdateVisit(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateVisitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	visit, err := h.Service.UpdateVisit(ctx, middleware.CallerFromContext(r.Context()), mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, visit)
}

func (h *VisitHandler) DeleteVisit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.Service.DeleteVisit(ctx, middleware.CallerFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
