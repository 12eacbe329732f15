package usecase

import (
	"context"

	"sports-prediction/internal/data/repository"
	"sports-prediction/internal/dto/response"
	"sports-prediction/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	config   *utils.Config
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, config *utils.Config, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		config:   config,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	ctx, cancel := withQueryTimeout(ctx, us.config.Database.QueryTimeout)
	defer cancel()

	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, storeFailure("find user by id", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}
