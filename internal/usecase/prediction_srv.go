package usecase

import (
	"context"
	"time"

	"sports-prediction/internal/data/entity"
	"sports-prediction/internal/data/repository"
	"sports-prediction/internal/dto/response"
	"sports-prediction/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PredictionService interface {
	List(ctx context.Context) ([]response.PredictionResponse, error)
	Get(ctx context.Context, id string) (*response.PredictionResponse, error)
	// Seed replaces every prediction with the demo set.
	Seed(ctx context.Context) (*response.SeedResponse, error)
	// SeedIfEmpty seeds the demo set only when no prediction exists.
	SeedIfEmpty(ctx context.Context) (int, error)
}

type predictionService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewPredictionService(repo *repository.Repository, config *utils.Config, log *zap.Logger) PredictionService {
	return &predictionService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "prediction")),
		now:    time.Now,
	}
}

var demoPredictions = []entity.Prediction{
	{Match: "Manchester City vs Liverpool", League: "Premier League", Prediction: "Over 2.5", Multiplier: "1.8x", Time: "20:45", Status: entity.PredictionStatusLive},
	{Match: "Real Madrid vs Barcelona", League: "La Liga", Prediction: "BTTS", Multiplier: "1.95x", Time: "21:00", Status: entity.PredictionStatusUpcoming},
	{Match: "Lakers vs Warriors", League: "NBA", Prediction: "Warriors +3.5", Multiplier: "1.75x", Time: "03:30", Status: entity.PredictionStatusLive},
	{Match: "Djokovic vs Nadal", League: "ATP Finals", Prediction: "Nadal Win", Multiplier: "2.1x", Time: "16:00", Status: entity.PredictionStatusTomorrow},
	{Match: "Arsenal vs Tottenham", League: "Premier League", Prediction: "Arsenal Win", Multiplier: "1.9x", Time: "17:30", Status: entity.PredictionStatusTomorrow},
	{Match: "PSG vs Marseille", League: "Ligue 1", Prediction: "Over 3.5", Multiplier: "2.2x", Time: "20:00", Status: entity.PredictionStatusUpcoming},
	{Match: "Bucks vs Celtics", League: "NBA", Prediction: "Bucks -4.5", Multiplier: "1.85x", Time: "01:00", Status: entity.PredictionStatusTomorrow},
	{Match: "Bayern Munich vs Dortmund", League: "Bundesliga", Prediction: "Both Teams to Score", Multiplier: "1.7x", Time: "18:30", Status: entity.PredictionStatusUpcoming},
}

func (s *predictionService) List(ctx context.Context) ([]response.PredictionResponse, error) {
	ctx, cancel := withQueryTimeout(ctx, s.config.Database.QueryTimeout)
	defer cancel()

	predictions, err := s.repo.Prediction.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list predictions", zap.Error(err))
		return nil, storeFailure("list predictions", err)
	}

	resp := make([]response.PredictionResponse, len(predictions))
	for i, p := range predictions {
		resp[i] = response.PredictionToResponse(p)
	}
	return resp, nil
}

func (s *predictionService) Get(ctx context.Context, id string) (*response.PredictionResponse, error) {
	predictionID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	ctx, cancel := withQueryTimeout(ctx, s.config.Database.QueryTimeout)
	defer cancel()

	prediction, err := s.repo.Prediction.FindByID(ctx, predictionID)
	if err != nil {
		s.log.Error("Failed to find prediction", zap.Error(err), zap.String("prediction_id", id))
		return nil, storeFailure("find prediction", err)
	}
	if prediction == nil {
		return nil, ErrNotFound
	}

	resp := response.PredictionToResponse(prediction)
	return &resp, nil
}

func (s *predictionService) Seed(ctx context.Context) (*response.SeedResponse, error) {
	ctx, cancel := withQueryTimeout(ctx, s.config.Database.QueryTimeout)
	defer cancel()

	err := s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Prediction.DeleteAll(ctx); err != nil {
			return err
		}
		return s.insertDemo(ctx, tx)
	})
	if err != nil {
		s.log.Error("Failed to seed predictions", zap.Error(err))
		return nil, storeFailure("seed predictions", err)
	}

	s.log.Info("Predictions seeded", zap.Int("count", len(demoPredictions)))
	return &response.SeedResponse{Predictions: len(demoPredictions)}, nil
}

func (s *predictionService) SeedIfEmpty(ctx context.Context) (int, error) {
	ctx, cancel := withQueryTimeout(ctx, s.config.Database.QueryTimeout)
	defer cancel()

	seeded := 0
	err := s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		total, err := tx.Prediction.CountAll(ctx)
		if err != nil || total > 0 {
			return err
		}
		seeded = len(demoPredictions)
		return s.insertDemo(ctx, tx)
	})
	if err != nil {
		s.log.Error("Failed to seed predictions", zap.Error(err))
		return 0, storeFailure("seed predictions", err)
	}
	return seeded, nil
}

// insertDemo staggers created_at so that newest-first listing keeps the demo order.
func (s *predictionService) insertDemo(ctx context.Context, tx *repository.Repository) error {
	now := s.now()
	for i, demo := range demoPredictions {
		p := demo
		p.ID = uuid.New()
		p.CreatedAt = now.Add(-time.Duration(i) * time.Millisecond)
		if err := tx.Prediction.Create(ctx, &p); err != nil {
			return err
		}
	}
	return nil
}
