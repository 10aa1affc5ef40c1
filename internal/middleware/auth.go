package middleware

import (
	"context"
	"net/http"
	"strings"

	"atenciones-backend/internal/auth"
	"atenciones-backend/internal/models"
	"atenciones-backend/internal/repositories"
)

type contextKey string

const CallerKey contextKey = "caller"

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	userRepo   repositories.UserStore
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, userRepo repositories.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		userRepo:   userRepo,
	}
}

// authenticate resolves the bearer token to a caller. The store is consulted
// so role changes and removed users take effect before the token expires.
func (m *AuthMiddleware) authenticate(r *http.Request) (models.Caller, int, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return models.Caller{}, http.StatusUnauthorized, "Authorization header required"
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return models.Caller{}, http.StatusUnauthorized, "Invalid authorization format"
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		return models.Caller{}, http.StatusUnauthorized, "Invalid or expired token"
	}

	user, err := m.userRepo.Get(r.Context(), claims.UserID)
	if err != nil {
		return models.Caller{}, http.StatusUnauthorized, "User not found"
	}

	return models.Caller{ID: user.ID, Nombre: user.Nombre, Email: user.Email, Rol: user.Rol}, 0, ""
}

// Authenticate is a middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, status, msg := m.authenticate(r)
		if status != 0 {
			http.Error(w, msg, status)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

// RequireRole is a middleware that ensures the user has one of the allowed roles
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// reuse the caller when Authenticate already ran
			caller := CallerFromContext(r.Context())
			if !caller.Authenticated() {
				var (
					status int
					msg    string
				)
				caller, status, msg = m.authenticate(r)
				if status != 0 {
					http.Error(w, msg, status)
					return
				}
			}

			hasRole := false
			for _, role := range allowedRoles {
				if caller.Rol == role {
					hasRole = true
					break
				}
			}
			if !hasRole {
				http.Error(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// RequireWriter admits the roles allowed to mutate records
func (m *AuthMiddleware) RequireWriter(next http.Handler) http.Handler {
	return m.RequireRole(models.RoleAdmin, models.RoleFuncionario)(next)
}

func WithCaller(ctx context.Context, c models.Caller) context.Context {
	return context.WithValue(ctx, CallerKey, c)
}

// CallerFromContext returns the zero Caller for unauthenticated requests
func CallerFromContext(ctx context.Context) models.Caller {
	c, _ := ctx.Value(CallerKey).(models.Caller)
	return c
}
