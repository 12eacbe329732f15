package adaptor

import (
	"net/http"

	"sports-prediction/internal/dto/request"
	"sports-prediction/internal/usecase"
	"sports-prediction/pkg/middleware"
	"sports-prediction/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	users   usecase.UserService
	session utils.SessionConfig
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, users usecase.UserService, config *utils.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		users:   users,
		session: config.Session,
		log:     log,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeJSON(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "register")
		return
	}

	utils.ResponseCreated(w, "User registered successfully", resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeJSON(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	req.UserAgent = r.UserAgent()
	req.IPAddress = r.RemoteAddr

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    resp.Token,
		Path:     "/",
		Expires:  resp.ExpiresAt,
		MaxAge:   int(h.session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	utils.ResponseSuccess(w, "Login successful", resp)
}

// Logout handles POST /api/auth/logout. It succeeds without a session too.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r, h.session.CookieName); token != "" {
		if err := h.service.Logout(r.Context(), token); err != nil {
			handleServiceError(w, h.log, err, "logout")
			return
		}
	}

	h.clearCookie(w)
	utils.ResponseSuccess(w, "Logged out successfully", nil)
}

// LogoutAll handles POST /api/auth/logout-all
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.LogoutAll(r.Context(), userID); err != nil {
		handleServiceError(w, h.log, err, "logout all sessions")
		return
	}

	h.clearCookie(w)
	utils.ResponseSuccess(w, "All sessions logged out", nil)
}

// Check handles GET /api/auth/check. Anonymous callers get 200 with isAuthenticated=false.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r, h.session.CookieName)

	resp, err := h.service.CheckSession(r.Context(), token)
	if err != nil {
		handleServiceError(w, h.log, err, "check session")
		return
	}

	utils.ResponseSuccess(w, "Session checked", resp)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	resp, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved", resp)
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
