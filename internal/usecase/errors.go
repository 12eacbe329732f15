package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sports-prediction/pkg/utils"
)

var (
	// ErrInvalidCredentials covers both an unknown identifier and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidCode covers both an unknown code and an already used one.
	ErrInvalidCode      = errors.New("invalid activation code")
	ErrUnauthenticated  = errors.New("authentication required")
	ErrForbidden        = errors.New("account not activated")
	ErrNotFound         = errors.New("not found")
	ErrEmailTaken       = errors.New("email already in use")
	ErrUsernameTaken    = errors.New("username already in use")
	ErrAlreadyActivated = errors.New("account already activated")
	ErrStoreFailure     = errors.New("store failure")
)

// ValidationError carries per-field messages keyed by json field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func storeFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreFailure, err)
}

func withQueryTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
