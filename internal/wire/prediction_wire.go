package wire

import (
	"sports-prediction/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// Predictions need a live session AND an activated account.
func wirePrediction(r chi.Router, predictionHandler *adaptor.PredictionHandler, g guards) {
	r.With(g.session, g.activated).Route("/predictions", func(r chi.Router) {
		r.Get("/", predictionHandler.List)
		r.Get("/{id}", predictionHandler.Get)
	})
}
