package wire

import (
	"context"
	"net/http"

	"sports-prediction/internal/adaptor"
	"sports-prediction/internal/data/repository"
	"sports-prediction/internal/usecase"
	"sports-prediction/pkg/metrics"
	"sports-prediction/pkg/middleware"
	"sports-prediction/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// guards are the route-level middleware shared by the wire* functions.
type guards struct {
	session   func(http.Handler) http.Handler
	activated func(http.Handler) http.Handler
	limit     func(http.Handler) http.Handler
}

// Wiring menginisialisasi semua dependencies. ctx bounds background helpers
// such as the rate limiter sweeper.
func Wiring(
	ctx context.Context,
	repo *repository.Repository,
	checks map[string]adaptor.Pinger,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, checks, config, logger)

	router := setupRouter(ctx, handler, service, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	ctx context.Context,
	handler *adaptor.Handler,
	service *usecase.Service,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.AllowedOrigins))
	if config.App.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(config.App.RequestTimeout))
	}
	if config.App.MetricsEnabled {
		metrics.MustRegister()
		r.Use(middleware.Metrics)
		r.Handle("/metrics", promhttp.Handler())
	}

	g := guards{
		session:   middleware.AuthSession(service.Auth, config.Session.CookieName, logger),
		activated: middleware.RequireActivated(logger),
		limit:     passthrough,
	}
	if config.RateLimit.RPS > 0 {
		g.limit = middleware.NewRateLimiter(ctx, rate.Limit(config.RateLimit.RPS), config.RateLimit.Burst).Limit
	}

	r.Get("/health", handler.Health.Check)

	r.Route("/api", func(r chi.Router) {
		wireAuth(r, handler.Auth, g)
		wireUser(r, handler.User, g)
		wirePrediction(r, handler.Prediction, g)
		wireAdmin(r, handler.Admin, config, logger)
	})

	return r
}

func passthrough(next http.Handler) http.Handler { return next }
