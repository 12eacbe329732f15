package usecase

import (
	"context"
	"testing"
	"time"

	"sports-prediction/internal/data/entity"
	"sports-prediction/internal/data/repository"
	"sports-prediction/internal/data/repository/memory"
	"sports-prediction/internal/dto/request"
	"sports-prediction/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *utils.Config {
	return &utils.Config{
		Database: utils.DatabaseConfig{QueryTimeout: time.Second},
		Session:  utils.SessionConfig{Store: utils.SessionStorePostgres, TTL: 24 * time.Hour},
		Security: utils.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

type fixture struct {
	svc   *Service
	repo  *repository.Repository
	store *memory.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, store := memory.NewRepository()
	return &fixture{
		svc:   NewService(repo, testConfig(), zap.NewNop()),
		repo:  repo,
		store: store,
	}
}

func (f *fixture) register(t *testing.T, email, username, password string) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Auth.Register(context.Background(), &request.RegisterRequest{
		Email:           email,
		Username:        username,
		Password:        password,
		ConfirmPassword: password,
		PhoneNumber:     "+628123456789",
	})
	require.NoError(t, err)

	id, err := uuid.Parse(resp.UserID)
	require.NoError(t, err)
	return id
}

func (f *fixture) seedCode(t *testing.T, code string) uuid.UUID {
	t.Helper()
	c := &entity.ActivationCode{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Code:       code,
	}
	require.NoError(t, f.repo.ActivationCode.Create(context.Background(), c))
	return c.ID
}
