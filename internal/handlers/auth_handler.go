package handlers

import (
	"context"
	"net/http"

	"atenciones-backend/internal/middleware"
	"atenciones-backend/internal/models"
	"atenciones-backend/internal/services"
	"atenciones-backend/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	Service *services.UserService
	logger  *zap.Logger
}

func NewAuthHandler(s *services.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		Service: s,
		logger:  logger,
	}
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	authResp, err := h.Service.Login(ctx, &req)
	if err != nil {
		h.logger.Info("login rejected", zap.String("email", req.Email), zap.String("ip", r.RemoteAddr))
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Info("login", zap.String("user_id", authResp.User.ID))
	utils.JSON(w, http.StatusOK, authResp)
}

// Me returns the authenticated caller
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.Service.GetUser(ctx, caller.ID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}
