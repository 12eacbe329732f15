package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"sports-prediction/internal/usecase"
	"sports-prediction/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Prediction *PredictionHandler
	Admin      *AdminHandler
	Health     *HealthHandler
}

func NewHandler(service *usecase.Service, checks map[string]Pinger, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(service.Auth, service.User, config, log),
		User:       NewUserHandler(service.Activation, log),
		Prediction: NewPredictionHandler(service.Prediction, log),
		Admin:      NewAdminHandler(service.Admin, service.Prediction, log),
		Health:     NewHealthHandler(checks, log),
	}
}

// decodeJSON decodes the request body into dst. An empty body is accepted
// when allowEmpty is set.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if allowEmpty && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// handleServiceError maps usecase errors onto the response envelope.
// Store failures never leak their cause to the client.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var vErr *usecase.ValidationError

	switch {
	case errors.As(err, &vErr):
		log.Warn(operation+" validation failed", zap.Any("errors", vErr.Fields))
		utils.ResponseBadRequest(w, "Validation failed", vErr.Fields)

	case errors.Is(err, usecase.ErrInvalidCredentials):
		utils.ResponseUnauthorized(w, "Invalid credentials")

	case errors.Is(err, usecase.ErrUnauthenticated):
		utils.ResponseUnauthorized(w, "Authentication required")

	case errors.Is(err, usecase.ErrInvalidCode):
		utils.ResponseBadRequest(w, "Invalid activation code", nil)

	case errors.Is(err, usecase.ErrEmailTaken):
		utils.ResponseBadRequest(w, "Email already in use", map[string]string{"email": "Email already in use"})

	case errors.Is(err, usecase.ErrUsernameTaken):
		utils.ResponseBadRequest(w, "Username already in use", map[string]string{"username": "Username already in use"})

	case errors.Is(err, usecase.ErrForbidden):
		utils.ResponseForbidden(w, "Account not activated")

	case errors.Is(err, usecase.ErrNotFound):
		utils.ResponseNotFound(w, "Not found")

	case errors.Is(err, usecase.ErrAlreadyActivated):
		utils.ResponseConflict(w, "Account already activated")

	case errors.Is(err, usecase.ErrCodeExists):
		utils.ResponseConflict(w, "Activation code already exists")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
