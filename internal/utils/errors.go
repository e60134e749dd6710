package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	ErrValidation = errors.New("validation_error")
	ErrNotFound   = errors.New("not_found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrDependency = errors.New("dependency_failure")

	ErrEmailExists   = errors.New("email_exists")
	ErrNoRowsUpdated = errors.New("no_rows_updated")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid_credentials")
)

// FieldError wraps ErrValidation with enough detail to identify the
// offending field. Controllers can do errors.Is(err, ErrValidation)
// and still surface Field/Reason to the client.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

func NewFieldError(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// HandleAppError centralizes responding to service-layer errors.
// The sentinel taxonomy maps onto HTTP statuses; anything unrecognized
// falls back to a 500.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
		return
	}

	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		RespondErrorWithCode(w, http.StatusBadRequest, ErrCodeValidation, fieldErr.Error(), fieldErr.Field, nil)
		return
	}

	switch {
	case errors.Is(err, ErrValidation):
		RespondErrorWithCode(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil, nil)
	case errors.Is(err, ErrNotFound):
		RespondErrorWithCode(w, http.StatusNotFound, ErrCodeNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrInvalidCredentials):
		RespondErrorWithCode(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, err.Error(), nil, nil)
	case errors.Is(err, ErrUnauthorized):
		RespondErrorWithCode(w, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error(), nil, nil)
	case errors.Is(err, ErrForbidden):
		RespondErrorWithCode(w, http.StatusForbidden, ErrCodeForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrConflict), errors.Is(err, ErrEmailExists):
		RespondErrorWithCode(w, http.StatusConflict, ErrCodeConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrDependency):
		RespondErrorWithCode(w, http.StatusBadGateway, ErrCodeDependencyFailure, err.Error(), nil, err)
	default:
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
