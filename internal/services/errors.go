package services

import (
	"errors"

	"atenciones-backend/internal/export"
	"atenciones-backend/internal/models"
	"atenciones-backend/internal/repositories"
)

var (
	// ErrNotFound: a referenced id does not resolve
	ErrNotFound = repositories.ErrNotFound
	// ErrConflict: duplicate cedula on producer create/update
	ErrConflict = errors.New("conflict")
	// ErrReferentialIntegrity: producer deletion blocked by existing visits
	ErrReferentialIntegrity = errors.New("referential integrity violation")
	// ErrUnauthenticated: a mutation arrived without a caller identity
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnsupportedFormat: the export format is declared but not implemented
	ErrUnsupportedFormat = export.ErrUnsupportedFormat
	// ErrInvalidInput: malformed or missing request values
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials: login with an unknown email or wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")
)

func requireCaller(caller models.Caller) error {
	if !caller.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}
