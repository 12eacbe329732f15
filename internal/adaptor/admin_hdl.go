package adaptor

import (
	"net/http"
	"strconv"

	"sports-prediction/internal/dto/request"
	"sports-prediction/internal/usecase"
	"sports-prediction/pkg/utils"

	"go.uber.org/zap"
)

type AdminHandler struct {
	service     usecase.AdminService
	predictions usecase.PredictionService
	log         *zap.Logger
}

func NewAdminHandler(service usecase.AdminService, predictions usecase.PredictionService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service:     service,
		predictions: predictions,
		log:         log,
	}
}

// CreateActivationCode handles POST /api/admin/activation-codes
func (h *AdminHandler) CreateActivationCode(w http.ResponseWriter, r *http.Request) {
	var req request.CreateActivationCodeRequest
	if err := decodeJSON(r, &req, true); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.CreateActivationCode(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create activation code")
		return
	}

	utils.ResponseCreated(w, "Activation code created", resp)
}

// ListActivationCodes handles GET /api/admin/activation-codes?page=1&per_page=10
func (h *AdminHandler) ListActivationCodes(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	resp, err := h.service.ListActivationCodes(r.Context(), &request.PaginatedRequest{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		handleServiceError(w, h.log, err, "list activation codes")
		return
	}

	utils.ResponseSuccess(w, "Activation codes retrieved", resp)
}

// SeedPredictions handles POST /api/admin/predictions/seed
func (h *AdminHandler) SeedPredictions(w http.ResponseWriter, r *http.Request) {
	resp, err := h.predictions.Seed(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "seed predictions")
		return
	}

	utils.ResponseSuccess(w, "Database seeded successfully", resp)
}
