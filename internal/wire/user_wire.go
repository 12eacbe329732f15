package wire

import (
	"sports-prediction/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, g guards) {
	r.With(g.session).Route("/user", func(r chi.Router) {
		r.With(g.limit).Post("/activate", userHandler.Activate)
		r.Get("/activation-status", userHandler.ActivationStatus)
	})
}
