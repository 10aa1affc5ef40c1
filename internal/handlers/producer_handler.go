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

type ProducerHandler struct {
	Service *services.ProducerService
	logger  *zap.Logger
}

func NewProducerHandler(service *services.ProducerService, logger *zap.Logger) *ProducerHandler {
	return &ProducerHandler{Service: service, logger: logger}
}

// ListProducers handles GET /api/productores?search=
func (h *ProducerHandler) ListProducers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	producers, err := h.Service.ListProducers(ctx, r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, producers)
}

func (h *ProducerHandler) CreateProducer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProducerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, err := h.Service.CreateProducer(ctx, middleware.CallerFromContext(r.Context()), &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, p)
}

func (h *ProducerHandler) GetProducer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, err := h.Service.GetProducer(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

// GetProducerByCedula handles GET /api/productores/cedula/{cedula}
func (h *ProducerHandler) GetProducerByCedula(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, err := h.Service.GetProducerByCedula(ctx, mux.Vars(r)["cedula"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

func (h *ProducerHandler) UpdateProducer(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProducerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, err := h.Service.UpdateProducer(ctx, middleware.CallerFromContext(r.Context()), mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

func (h *ProducerHandler) DeleteProducer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.Service.DeleteProducer(ctx, middleware.CallerFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
