package wire

import (
	"sports-prediction/internal/adaptor"
	"sports-prediction/pkg/middleware"
	"sports-prediction/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireAdmin mounts operator routes only when ADMIN_API_KEY is configured.
func wireAdmin(r chi.Router, adminHandler *adaptor.AdminHandler, config *utils.Config, log *zap.Logger) {
	if config.Security.AdminAPIKey == "" {
		log.Info("ADMIN_API_KEY not set, admin routes disabled")
		return
	}

	r.With(middleware.AdminKey(config.Security.AdminAPIKey, log)).Route("/admin", func(r chi.Router) {
		r.Post("/activation-codes", adminHandler.CreateActivationCode)
		r.Get("/activation-codes", adminHandler.ListActivationCodes)
		r.Post("/predictions/seed", adminHandler.SeedPredictions)
	})
}
