package wire

import (
	"sports-prediction/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, g guards) {
	// ==================== PUBLIC ROUTES ====================
	r.With(g.limit).Post("/auth/register", authHandler.Register)
	r.With(g.limit).Post("/auth/login", authHandler.Login)
	r.Post("/auth/logout", authHandler.Logout)
	r.Get("/auth/check", authHandler.Check)

	// ==================== PROTECTED ROUTES ====================
	r.With(g.session).Get("/auth/me", authHandler.Me)
	r.With(g.session).Post("/auth/logout-all", authHandler.LogoutAll)
}
