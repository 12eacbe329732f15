package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sports-prediction/internal/data/entity"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
)

type redisSessionRepository struct {
	cli *redis.Client
	log *zap.Logger
	now func() time.Time
}

// NewRedisSessionRepository stores each session under its token with a TTL
// matching the session expiry, so Redis drops expired sessions by itself.
func NewRedisSessionRepository(cli *redis.Client, log *zap.Logger) SessionRepository {
	return &redisSessionRepository{
		cli: cli,
		log: log.With(zap.String("repository", "session_redis")),
		now: time.Now,
	}
}

func sessionKey(token uuid.UUID) string {
	return sessionKeyPrefix + token.String()
}

func userSessionsKey(userID uuid.UUID) string {
	return userSessionKeyPrefix + userID.String()
}

func (r *redisSessionRepository) Create(ctx context.Context, session *entity.Session) error {
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("session for user %s already expired", session.UserID.String())
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	indexKey := userSessionsKey(session.UserID)
	_, err = r.cli.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.Token), payload, ttl)
		pipe.SAdd(ctx, indexKey, session.Token.String())
		// the index outlives every session it references
		pipe.ExpireAt(ctx, indexKey, session.ExpiresAt)
		return nil
	})
	if err != nil {
		r.log.Error("Failed to create session",
			zap.Error(err),
			zap.String("user_id", session.UserID.String()),
		)
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *redisSessionRepository) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	raw, err := r.cli.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid session", zap.Error(err))
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	var session entity.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		r.log.Error("Corrupt session payload", zap.Error(err))
		return nil, fmt.Errorf("decode session: %w", err)
	}

	if !session.IsLive(r.now()) {
		return nil, nil
	}

	return &session, nil
}

func (r *redisSessionRepository) Revoke(ctx context.Context, token uuid.UUID) error {
	deleted, err := r.cli.Del(ctx, sessionKey(token)).Result()
	if err != nil {
		r.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	if deleted == 0 {
		return ErrNotUpdated
	}

	return nil
}

func (r *redisSessionRepository) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	indexKey := userSessionsKey(userID)

	tokens, err := r.cli.SMembers(ctx, indexKey).Result()
	if err != nil {
		r.log.Error("Failed to list user sessions",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, sessionKeyPrefix+t)
	}
	keys = append(keys, indexKey)

	if err := r.cli.Del(ctx, keys...).Err(); err != nil {
		r.log.Error("Failed to revoke all user sessions",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	return nil
}

// CleanExpiredSessions is a no-op: Redis expires keys on its own.
func (r *redisSessionRepository) CleanExpiredSessions(_ context.Context) (int64, error) {
	return 0, nil
}
