package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"atenciones-backend/internal/auth"
	"atenciones-backend/internal/models"
	"atenciones-backend/internal/repositories"
)

type UserService struct {
	Repo       repositories.UserStore
	JWTManager *auth.JWTManager
}

func NewUserService(repo repositories.UserStore, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		Repo:       repo,
		JWTManager: jwtManager,
	}
}

// CreateUser stores u; PasswordHash carries the plain password and is hashed here
func (s *UserService) CreateUser(ctx context.Context, u *models.User) error {
	if !models.ValidRole(u.Rol) {
		return fmt.Errorf("%w: rol %q", ErrInvalidInput, u.Rol)
	}
	if u.PasswordHash != "" {
		hashedPassword, err := auth.HashPassword(u.PasswordHash)
		if err != nil {
			return err
		}
		u.PasswordHash = hashedPassword
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return fmt.Errorf("%w: email %s already registered", ErrConflict, u.Email)
		}
		return err
	}
	return nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

// ListUsers returns all users
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.Repo.List(ctx)
}

// Login authenticates a user and returns a JWT token
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}
