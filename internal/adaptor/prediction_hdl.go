package adaptor

import (
	"net/http"

	"sports-prediction/internal/usecase"
	"sports-prediction/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PredictionHandler struct {
	service usecase.PredictionService
	log     *zap.Logger
}

func NewPredictionHandler(service usecase.PredictionService, log *zap.Logger) *PredictionHandler {
	return &PredictionHandler{
		service: service,
		log:     log,
	}
}

// List handles GET /api/predictions
func (h *PredictionHandler) List(w http.ResponseWriter, r *http.Request) {
	predictions, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list predictions")
		return
	}

	utils.ResponseSuccess(w, "Predictions retrieved", predictions)
}

// Get handles GET /api/predictions/{id}
func (h *PredictionHandler) Get(w http.ResponseWriter, r *http.Request) {
	prediction, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get prediction")
		return
	}

	utils.ResponseSuccess(w, "Prediction retrieved", prediction)
}
