package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"atenciones-backend/internal/middleware"
	"atenciones-backend/internal/services"
	"atenciones-backend/pkg/utils"

	"go.uber.org/zap"
)

const (
	requestTimeout = 10 * time.Second
	exportTimeout  = 60 * time.Second
)

// statusFor maps service sentinels to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrReferentialIntegrity):
		return http.StatusConflict
	case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrUnsupportedFormat):
		return http.StatusNotImplemented
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError responds with {"error": ...}. Internal failures are logged and
// their detail is not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
			zap.Error(err))
		utils.Error(w, status, "Internal server error")
		return
	}
	utils.Error(w, status, err.Error())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
