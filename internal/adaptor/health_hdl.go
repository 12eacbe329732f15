package adaptor

import (
	"context"
	"net/http"
	"time"

	"sports-prediction/pkg/utils"

	"go.uber.org/zap"
)

// Pinger checks one backing dependency.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Pinger
	log    *zap.Logger
}

func NewHealthHandler(checks map[string]Pinger, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		log:    log,
	}
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(h.checks))
	healthy := true
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			h.log.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}

	if !healthy {
		utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "Service unavailable", status, nil)
		return
	}
	utils.ResponseSuccess(w, "OK", status)
}
