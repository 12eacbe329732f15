package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"sports-prediction/internal/data/repository"
	"sports-prediction/internal/dto/request"
	"sports-prediction/internal/dto/response"
	"sports-prediction/pkg/metrics"
	"sports-prediction/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ActivationService interface {
	// Redeem consumes an unused code for userID and activates the user in one
	// transaction. Unknown and already used codes both yield ErrInvalidCode.
	Redeem(ctx context.Context, userID uuid.UUID, req *request.ActivateRequest) error
	GetActivationStatus(ctx context.Context, userID uuid.UUID) (*response.ActivationStatusResponse, error)
}

type activationService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewActivationService(repo *repository.Repository, config *utils.Config, log *zap.Logger) ActivationService {
	return &activationService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "activation")),
		now:    time.Now,
	}
}

func (s *activationService) Redeem(ctx context.Context, userID uuid.UUID, req *request.ActivateRequest) error {
	req.Code = strings.TrimSpace(req.Code)
	if err := validate(req); err != nil {
		metrics.IncRedemption(metrics.ResultInvalid)
		return err
	}

	log := s.log.With(
		zap.String("user_id", userID.String()),
		zap.String("code", utils.MaskCode(req.Code)),
	)

	ctx, cancel := withQueryTimeout(ctx, s.config.Database.QueryTimeout)
	defer cancel()

	// 1. Caller must exist and not be activated yet
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		log.Error("Failed to load user", zap.Error(err))
		metrics.IncRedemption(metrics.ResultError)
		return storeFailure("find user by id", err)
	}
	if user == nil {
		metrics.IncRedemption(metrics.ResultInvalid)
		return ErrNotFound
	}
	if user.IsActivated {
		log.Warn("Redeem rejected, user already activated")
		metrics.IncRedemption(metrics.ResultAlreadyActivated)
		return ErrAlreadyActivated
	}

	// 2. Code lookup; this read only short-circuits, the CAS below decides
	code, err := s.repo.ActivationCode.FindByCode(ctx, req.Code)
	if err != nil {
		log.Error("Failed to find activation code", zap.Error(err))
		metrics.IncRedemption(metrics.ResultError)
		return storeFailure("find activation code", err)
	}
	if code == nil || code.IsUsed {
		log.Warn("Redeem rejected, invalid code")
		metrics.IncRedemption(metrics.ResultInvalid)
		return ErrInvalidCode
	}

	// 3. Consume code and flip the flag in one transaction
	usedAt := s.now()
	err = s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.ActivationCode.MarkUsed(ctx, code.ID, userID, usedAt); err != nil {
			if errors.Is(err, repository.ErrNotUpdated) {
				return ErrInvalidCode
			}
			return storeFailure("mark code used", err)
		}

		if err := tx.User.UpdateActivationFlag(ctx, userID, true); err != nil {
			if errors.Is(err, repository.ErrNotUpdated) {
				return ErrAlreadyActivated
			}
			return storeFailure("update activation flag", err)
		}
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidCode):
		log.Warn("Redeem lost race, code already consumed")
		metrics.IncRedemption(metrics.ResultInvalid)
		return err
	case errors.Is(err, ErrAlreadyActivated):
		log.Warn("Redeem lost race, user activated concurrently")
		metrics.IncRedemption(metrics.ResultAlreadyActivated)
		return err
	default:
		log.Error("Redeem transaction failed", zap.Error(err))
		metrics.IncRedemption(metrics.ResultError)
		if errors.Is(err, ErrStoreFailure) {
			return err
		}
		return storeFailure("redeem", err)
	}

	log.Info("Activation code redeemed", zap.String("code_id", code.ID.String()))
	metrics.IncRedemption(metrics.ResultSuccess)
	return nil
}

func (s *activationService) GetActivationStatus(ctx context.Context, userID uuid.UUID) (*response.ActivationStatusResponse, error) {
	ctx, cancel := withQueryTimeout(ctx, s.config.Database.QueryTimeout)
	defer cancel()

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, storeFailure("find user by id", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	return &response.ActivationStatusResponse{IsActivated: user.IsActivated}, nil
}
