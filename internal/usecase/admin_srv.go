package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"sports-prediction/internal/data/entity"
	"sports-prediction/internal/data/repository"
	"sports-prediction/internal/dto/request"
	"sports-prediction/internal/dto/response"
	"sports-prediction/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCodeExists is returned when an explicitly requested code is already stored.
var ErrCodeExists = errors.New("activation code already exists")

const maxCodeAttempts = 3

// DemoActivationCodes are inserted by SeedDemoData.
var DemoActivationCodes = []string{"SPORTPRO123", "WINNER456", "PREDICT789"}

type AdminService interface {
	CreateActivationCode(ctx context.Context, req *request.CreateActivationCodeRequest) (*response.ActivationCodeResponse, error)
	ListActivationCodes(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ActivationCodeResponse], error)
	// SeedDemoData inserts the demo codes that are missing and seeds
	// predictions when there are none.
	SeedDemoData(ctx context.Context) error
}

type adminService struct {
	repo        *repository.Repository
	predictions PredictionService
	config      *utils.Config
	log         *zap.Logger
	now         func() time.Time
	generate    func() (string, error)
}

func NewAdminService(
	repo *repository.Repository,
	predictions PredictionService,
	config *utils.Config,
	log *zap.Logger,
) AdminService {
	return &adminService{
		repo:        repo,
		predictions: predictions,
		config:      config,
		log:         log.With(zap.String("service", "admin")),
		now:         time.Now,
		generate:    utils.GenerateActivationCode,
	}
}

func (s *adminService) CreateActivationCode(ctx context.Context, req *request.CreateActivationCodeRequest) (*response.ActivationCodeResponse, error) {
	req.Code = strings.TrimSpace(req.Code)
	if err := validate(req); err != nil {
		return nil, err
	}

	ctx, cancel := withQueryTimeout(ctx, s.config.Database.QueryTimeout)
	defer cancel()

	if req.Code != "" {
		code, err := s.insertCode(ctx, req.Code)
		if errors.Is(err, repository.ErrDuplicateCode) {
			return nil, ErrCodeExists
		}
		if err != nil {
			s.log.Error("Failed to insert activation code", zap.Error(err))
			return nil, storeFailure("create activation code", err)
		}
		resp := response.ActivationCodeToResponse(code)
		return &resp, nil
	}

	// generated codes can collide with the unique index; retry a few times
	var lastErr error
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		raw, err := s.generate()
		if err != nil {
			s.log.Error("Failed to generate activation code", zap.Error(err))
			return nil, err
		}

		code, err := s.insertCode(ctx, raw)
		if err == nil {
			resp := response.ActivationCodeToResponse(code)
			return &resp, nil
		}
		if !errors.Is(err, repository.ErrDuplicateCode) {
			s.log.Error("Failed to insert activation code", zap.Error(err))
			return nil, storeFailure("create activation code", err)
		}

		s.log.Warn("Generated activation code collided", zap.Int("attempt", attempt))
		lastErr = err
	}

	return nil, storeFailure("create activation code", lastErr)
}

func (s *adminService) ListActivationCodes(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ActivationCodeResponse], error) {
	// Set defaults
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 {
		req.PerPage = 10
	}
	if req.PerPage > 100 {
		req.PerPage = 100
	}

	ctx, cancel := withQueryTimeout(ctx, s.config.Database.QueryTimeout)
	defer cancel()

	codes, err := s.repo.ActivationCode.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list activation codes", zap.Error(err))
		return nil, storeFailure("list activation codes", err)
	}

	total, err := s.repo.ActivationCode.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count activation codes", zap.Error(err))
		return nil, storeFailure("count activation codes", err)
	}

	data := make([]response.ActivationCodeResponse, len(codes))
	for i, code := range codes {
		data[i] = response.ActivationCodeToResponse(code)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *adminService) SeedDemoData(ctx context.Context) error {
	codeCtx, cancel := withQueryTimeout(ctx, s.config.Database.QueryTimeout)
	defer cancel()

	inserted := 0
	for _, raw := range DemoActivationCodes {
		_, err := s.insertCode(codeCtx, raw)
		if errors.Is(err, repository.ErrDuplicateCode) {
			continue
		}
		if err != nil {
			s.log.Error("Failed to seed activation code", zap.Error(err))
			return storeFailure("seed activation codes", err)
		}
		inserted++
	}

	seeded, err := s.predictions.SeedIfEmpty(ctx)
	if err != nil {
		return err
	}

	s.log.Info("Demo data seeded",
		zap.Int("activation_codes", inserted),
		zap.Int("predictions", seeded))
	return nil
}

func (s *adminService) insertCode(ctx context.Context, raw string) (*entity.ActivationCode, error) {
	code := &entity.ActivationCode{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.now(),
		},
		Code: raw,
	}
	if err := s.repo.ActivationCode.Create(ctx, code); err != nil {
		return nil, err
	}

	s.log.Info("Activation code created",
		zap.String("code_id", code.ID.String()),
		zap.String("code", utils.MaskCode(code.Code)))
	return code, nil
}
