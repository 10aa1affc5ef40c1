package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"atenciones-backend/internal/auth"
	"atenciones-backend/internal/config"
	"atenciones-backend/internal/models"
	"atenciones-backend/internal/repositories/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "test"
	cfg.JWT.ExpirationHours = 1
	return cfg
}

func TestAuthenticateAndRequireRole(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	officer := &models.User{ID: "2", Nombre: "Juan", Email: "juan@mag.go.cr", Rol: models.RoleFuncionario}
	viewer := &models.User{ID: "4", Nombre: "Carlos", Email: "carlos@mag.go.cr", Rol: models.RoleConsulta}
	require.NoError(t, store.Users.Create(ctx, officer))
	require.NoError(t, store.Users.Create(ctx, viewer))

	jwtManager := auth.NewJWTManager(testConfig())
	m := NewAuthMiddleware(jwtManager, store.Users)

	var seen models.Caller
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CallerFromContext(r.Context())
	})

	officerToken, err := jwtManager.GenerateToken(officer)
	require.NoError(t, err)
	viewerToken, err := jwtManager.GenerateToken(viewer)
	require.NoError(t, err)
	ghostToken, err := jwtManager.GenerateToken(&models.User{ID: "99", Rol: models.RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name    string
		handler http.Handler
		header  string
		want    int
	}{
		{"missing header", m.Authenticate(ok), "", http.StatusUnauthorized},
		{"wrong scheme", m.Authenticate(ok), "Basic abc", http.StatusUnauthorized},
		{"garbage token", m.Authenticate(ok), "Bearer abc", http.StatusUnauthorized},
		{"unknown user", m.Authenticate(ok), "Bearer " + ghostToken, http.StatusUnauthorized},
		{"valid", m.Authenticate(ok), "Bearer " + officerToken, http.StatusOK},
		{"writer allowed", m.RequireWriter(ok), "Bearer " + officerToken, http.StatusOK},
		{"viewer forbidden", m.RequireWriter(ok), "Bearer " + viewerToken, http.StatusForbidden},
		{"writer after authenticate", m.Authenticate(m.RequireWriter(ok)), "Bearer " + officerToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = models.Caller{}
			req := httptest.NewRequest("GET", "/api/atenciones", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, models.Caller{ID: "2", Nombre: "Juan", Email: "juan@mag.go.cr", Rol: models.RoleFuncionario}, seen)
			}
		})
	}
}

func TestRequestLoggerAssignsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var fromCtx string
	h := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/regiones", nil))

	id := rec.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Equal(t, id, fromCtx)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(http.StatusTeapot), logs.All()[0].ContextMap()["status"])

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(RequestIDHeader, "client-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "client-id", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, 1, logs.Len(), "health checks are not logged")
}

func TestPanicRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := PanicRecovery(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Internal server error"}`, rec.Body.String())
	assert.Equal(t, 1, logs.Len())
}
