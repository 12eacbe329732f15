package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"sports-prediction/internal/usecase"
	"sports-prediction/pkg/utils"

	"go.uber.org/zap"
)

const AdminKeyHeader = "X-Admin-Key"

// Authenticator resolves a session token to the caller.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*utils.Identity, error)
}

// TokenFromRequest reads the session token from "Authorization: Bearer <token>"
// and falls back to the session cookie.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		scheme, token, found := strings.Cut(authHeader, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}

	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// AuthSession rejects requests without a live session and binds the caller's
// identity and token to the request context.
func AuthSession(auth Authenticator, cookieName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r, cookieName)
			if token == "" {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			identity, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, usecase.ErrUnauthenticated) {
					logger.Debug("Invalid or expired session", zap.String("path", r.URL.Path))
					utils.ResponseUnauthorized(w, "Invalid or expired session")
					return
				}
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			ctx := utils.SetIdentityContext(r.Context(), identity)
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireActivated must run after AuthSession. Callers whose account is not
// activated get 403.
func RequireActivated(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := utils.GetIdentityFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !identity.IsActivated {
				logger.Warn("Non-activated access attempt",
					zap.String("user_id", identity.UserID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Account not activated")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminKey guards operator endpoints with a static shared key.
func AdminKey(key string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given := r.Header.Get(AdminKeyHeader)
			if key == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
				logger.Warn("Admin check: rejected",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
