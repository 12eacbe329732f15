package adaptor

import (
	"net/http"

	"sports-prediction/internal/dto/request"
	"sports-prediction/internal/usecase"
	"sports-prediction/pkg/utils"

	"go.uber.org/zap"
)

type UserHandler struct {
	activation usecase.ActivationService
	log        *zap.Logger
}

func NewUserHandler(activation usecase.ActivationService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		activation: activation,
		log:        log,
	}
}

// Activate handles POST /api/user/activate
func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ActivateRequest
	if err := decodeJSON(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.activation.Redeem(r.Context(), userID, &req); err != nil {
		handleServiceError(w, h.log, err, "activate account")
		return
	}

	utils.ResponseSuccess(w, "Account activated successfully", nil)
}

// ActivationStatus handles GET /api/user/activation-status
func (h *UserHandler) ActivationStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	resp, err := h.activation.GetActivationStatus(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "check activation status")
		return
	}

	utils.ResponseSuccess(w, "Activation status retrieved", resp)
}
