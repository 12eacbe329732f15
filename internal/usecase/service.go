package usecase

import (
	"sports-prediction/internal/data/repository"
	"sports-prediction/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth       AuthService
	User       UserService
	Activation ActivationService
	Prediction PredictionService
	Admin      AdminService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	predictions := NewPredictionService(repo, config, log)

	return &Service{
		Auth:       NewAuthService(repo, config, log),
		User:       NewUserService(repo.User, config, log),
		Activation: NewActivationService(repo, config, log),
		Prediction: predictions,
		Admin:      NewAdminService(repo, predictions, config, log),
	}
}
