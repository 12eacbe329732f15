package repository

import (
	"context"
	"errors"
	"fmt"

	"sports-prediction/internal/data/entity"
	"sports-prediction/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	// FindValidSession returns (nil, nil) for unknown, revoked or expired tokens.
	FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error)
	// Revoke returns ErrNotUpdated when there is no live session for token.
	Revoke(ctx context.Context, token uuid.UUID) error
	RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

type sessionRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSessionRepository(db database.Querier, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, token, user_agent, ip_address,
		                     expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Token,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create session",
			zap.Error(err),
			zap.String("user_id", session.UserID.String()),
		)
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *sessionRepository) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	query := `
		SELECT id, user_id, token, user_agent, ip_address,
		       expires_at, revoked_at, created_at
		FROM sessions
		WHERE token = $1
		  AND revoked_at IS NULL
		  AND expires_at > NOW()
	`

	var session entity.Session
	err := r.db.QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.RevokedAt,
		&session.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid session", zap.Error(err))
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &session, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, token uuid.UUID) error {
	query := `
		UPDATE sessions
		SET revoked_at = NOW()
		WHERE token = $1 AND revoked_at IS NULL AND expires_at > NOW()
	`

	result, err := r.db.Exec(ctx, query, token)
	if err != nil {
		r.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotUpdated
	}

	return nil
}

func (r *sessionRepository) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE sessions
		SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL
	`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to revoke all user sessions",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	return nil
}

// CleanExpiredSessions deletes every session that can no longer authenticate.
func (r *sessionRepository) CleanExpiredSessions(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE expires_at <= NOW() OR revoked_at IS NOT NULL
	`

	result, err := r.db.Exec(ctx, query)
	if err != nil {
		r.log.Error("Failed to clean expired sessions", zap.Error(err))
		return 0, fmt.Errorf("failed to clean sessions: %w", err)
	}

	return result.RowsAffected(), nil
}
