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
	"sports-prediction/pkg/metrics"
	"sports-prediction/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	// LogoutAll revokes every session of userID, including the caller's.
	LogoutAll(ctx context.Context, userID uuid.UUID) error
	// Authenticate resolves a session token to the caller. It returns
	// ErrUnauthenticated for missing, malformed, revoked or expired tokens.
	Authenticate(ctx context.Context, token string) (*utils.Identity, error)
	CheckSession(ctx context.Context, token string) (*response.SessionCheckResponse, error)
	CleanExpiredSessions(ctx context.Context) (int64, error)
	StartSessionJanitor(ctx context.Context, interval time.Duration)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error) {
	// 1. Normalize & validate
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)

	if err := validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		metrics.IncRegistration(metrics.ResultInvalid)
		return nil, err
	}

	ctx, cancel := withQueryTimeout(ctx, s.config.Database.QueryTimeout)
	defer cancel()

	// 2. Email & username must be free (case-insensitive)
	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err))
		metrics.IncRegistration(metrics.ResultError)
		return nil, storeFailure("find user by email", err)
	}
	if existing != nil {
		s.log.Warn("Register rejected, email in use", zap.String("email", req.Email))
		metrics.IncRegistration(metrics.ResultConflict)
		return nil, ErrEmailTaken
	}

	existing, err = s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to check username", zap.Error(err))
		metrics.IncRegistration(metrics.ResultError)
		return nil, storeFailure("find user by username", err)
	}
	if existing != nil {
		s.log.Warn("Register rejected, username in use", zap.String("username", req.Username))
		metrics.IncRegistration(metrics.ResultConflict)
		return nil, ErrUsernameTaken
	}

	// 3. Hash password
	hashedPassword, err := utils.HashPassword(req.Password, s.config.Security.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		metrics.IncRegistration(metrics.ResultInvalid)
		return nil, &ValidationError{Fields: map[string]string{"password": "Maximum size is 72 bytes"}}
	}
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		metrics.IncRegistration(metrics.ResultError)
		return nil, err
	}

	// 4. Save user; the unique indexes catch registrations racing past step 2
	now := s.now()
	user := &entity.User{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		PhoneNumber:  req.PhoneNumber,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			metrics.IncRegistration(metrics.ResultConflict)
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateUsername):
			metrics.IncRegistration(metrics.ResultConflict)
			return nil, ErrUsernameTaken
		}
		s.log.Error("Failed to create user", zap.Error(err))
		metrics.IncRegistration(metrics.ResultError)
		return nil, storeFailure("create user", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))
	metrics.IncRegistration(metrics.ResultSuccess)

	return &response.RegisterResponse{UserID: user.ID.String()}, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validasi
	req.EmailOrUsername = strings.TrimSpace(req.EmailOrUsername)
	if err := validate(req); err != nil {
		s.log.Warn("Login validation failed", zap.Error(err))
		metrics.IncLogin(metrics.ResultInvalid)
		return nil, err
	}

	ctx, cancel := withQueryTimeout(ctx, s.config.Database.QueryTimeout)
	defer cancel()

	// 2. Email first, then username; first hit wins
	user, err := s.repo.User.FindByEmail(ctx, req.EmailOrUsername)
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err))
		metrics.IncLogin(metrics.ResultError)
		return nil, storeFailure("find user by email", err)
	}

	if user == nil {
		user, err = s.repo.User.FindByUsername(ctx, req.EmailOrUsername)
		if err != nil {
			s.log.Error("Failed to find user by username", zap.Error(err))
			metrics.IncLogin(metrics.ResultError)
			return nil, storeFailure("find user by username", err)
		}
	}

	// 3. Unknown identifier and wrong password look the same to the caller
	if user == nil {
		s.log.Warn("User not found for login", zap.String("identifier", req.EmailOrUsername))
		metrics.IncLogin(metrics.ResultInvalid)
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		metrics.IncLogin(metrics.ResultInvalid)
		return nil, ErrInvalidCredentials
	}

	// 4. Create session
	session, err := s.createSession(ctx, user.ID, req.UserAgent, req.IPAddress)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		metrics.IncLogin(metrics.ResultError)
		return nil, storeFailure("create session", err)
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))
	metrics.IncLogin(metrics.ResultSuccess)

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

// Logout is idempotent: unknown, malformed or already revoked tokens are not an error.
func (s *authService) Logout(ctx context.Context, token string) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		s.log.Debug("Logout with malformed token")
		return nil
	}

	ctx, cancel := withQueryTimeout(ctx, s.config.Database.QueryTimeout)
	defer cancel()

	if err := s.repo.Session.Revoke(ctx, tokenUUID); err != nil {
		if errors.Is(err, repository.ErrNotUpdated) {
			return nil
		}
		s.log.Error("Failed to revoke session", zap.Error(err))
		return storeFailure("revoke session", err)
	}

	s.log.Info("User logged out")
	return nil
}

func (s *authService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := withQueryTimeout(ctx, s.config.Database.QueryTimeout)
	defer cancel()

	if err := s.repo.Session.RevokeAllUserSessions(ctx, userID); err != nil {
		s.log.Error("Failed to revoke user sessions", zap.Error(err), zap.String("user_id", userID.String()))
		return storeFailure("revoke user sessions", err)
	}

	s.log.Info("All sessions revoked", zap.String("user_id", userID.String()))
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*utils.Identity, error) {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	ctx, cancel := withQueryTimeout(ctx, s.config.Database.QueryTimeout)
	defer cancel()

	session, err := s.repo.Session.FindValidSession(ctx, tokenUUID)
	if err != nil {
		s.log.Error("Failed to validate session", zap.Error(err))
		return nil, storeFailure("find session", err)
	}
	if session == nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.repo.User.FindByID(ctx, session.UserID)
	if err != nil {
		s.log.Error("Failed to load session user", zap.Error(err), zap.String("user_id", session.UserID.String()))
		return nil, storeFailure("find user by id", err)
	}
	if user == nil {
		s.log.Warn("Session points to missing user", zap.String("user_id", session.UserID.String()))
		return nil, ErrUnauthenticated
	}

	return &utils.Identity{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		IsActivated: user.IsActivated,
	}, nil
}

func (s *authService) CheckSession(ctx context.Context, token string) (*response.SessionCheckResponse, error) {
	identity, err := s.Authenticate(ctx, token)
	if errors.Is(err, ErrUnauthenticated) {
		return &response.SessionCheckResponse{IsAuthenticated: false}, nil
	}
	if err != nil {
		return nil, err
	}

	return &response.SessionCheckResponse{
		IsAuthenticated: true,
		User: &response.UserSummary{
			ID:          identity.UserID.String(),
			Username:    identity.Username,
			Email:       identity.Email,
			IsActivated: identity.IsActivated,
		},
	}, nil
}

func (s *authService) CleanExpiredSessions(ctx context.Context) (int64, error) {
	removed, err := s.repo.Session.CleanExpiredSessions(ctx)
	if err != nil {
		s.log.Error("Failed to clean expired sessions", zap.Error(err))
		return 0, storeFailure("clean sessions", err)
	}
	metrics.AddSessionsCleaned(removed)
	if removed > 0 {
		s.log.Info("Expired sessions cleaned", zap.Int64("removed", removed))
	}
	return removed, nil
}

// StartSessionJanitor cleans expired sessions every interval until ctx is done.
func (s *authService) StartSessionJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cleanCtx, cancel := withQueryTimeout(ctx, s.config.Database.QueryTimeout)
				_, _ = s.CleanExpiredSessions(cleanCtx)
				cancel()
			}
		}
	}()
}

// ==================== HELPER METHODS ====================

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, userAgent, ip string) (*entity.Session, error) {
	now := s.now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     uuid.New(),
		UserAgent: optional(userAgent),
		IPAddress: optional(ip),
		ExpiresAt: now.Add(s.config.Session.TTL),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
