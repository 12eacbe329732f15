package middleware

import (
	"net/http"

	"sports-prediction/pkg/utils"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Recover converts a panic into a 500 envelope and logs the stack.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}

					logger.Error("PANIC recovered",
						zap.Any("error", rec),
						zap.String("request_id", chimiddleware.GetReqID(r.Context())),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.Stack("stack"),
					)

					utils.ResponseInternalError(w, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
