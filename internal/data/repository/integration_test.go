//go:build integration

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"sports-prediction/internal/data/entity"
	"sports-prediction/internal/data/repository"
	"sports-prediction/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUser(email, username string) *entity.User {
	now := time.Now()
	return &entity.User{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		PhoneNumber:  "+628123456789",
	}
}

func newCode(code string) *entity.ActivationCode {
	return &entity.ActivationCode{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Code:       code,
	}
}

func newSession(userID uuid.UUID, expiresAt time.Time) *entity.Session {
	return &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:     userID,
		Token:      uuid.New(),
		ExpiresAt:  expiresAt,
	}
}

func TestPostgresRepositories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRepository(db, zap.NewNop())
	ctx := context.Background()

	t.Run("schema is at the latest migration", func(t *testing.T) {
		var version int64
		var dirty bool
		require.NoError(t, db.QueryRow(ctx, `SELECT version, dirty FROM schema_migrations`).Scan(&version, &dirty))
		assert.EqualValues(t, 1, version)
		assert.False(t, dirty)
	})

	t.Run("user lookups are case insensitive", func(t *testing.T) {
		testutil.TruncateAll(t, db)
		u := newUser("Alice@Example.com", "Alice")
		require.NoError(t, repo.User.Create(ctx, u))

		byEmail, err := repo.User.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, u.ID, byEmail.ID)

		byName, err := repo.User.FindByUsername(ctx, "ALICE")
		require.NoError(t, err)
		require.NotNil(t, byName)
		assert.Equal(t, u.ID, byName.ID)

		missing, err := repo.User.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("duplicate identity maps to typed errors", func(t *testing.T) {
		testutil.TruncateAll(t, db)
		require.NoError(t, repo.User.Create(ctx, newUser("bob@example.com", "bob")))

		err := repo.User.Create(ctx, newUser("BOB@example.com", "robert"))
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

		err = repo.User.Create(ctx, newUser("other@example.com", "Bob"))
		assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
	})

	t.Run("activation flag flips once", func(t *testing.T) {
		testutil.TruncateAll(t, db)
		u := newUser("carol@example.com", "carol")
		require.NoError(t, repo.User.Create(ctx, u))

		require.NoError(t, repo.User.UpdateActivationFlag(ctx, u.ID, true))
		assert.ErrorIs(t, repo.User.UpdateActivationFlag(ctx, u.ID, true), repository.ErrNotUpdated)

		got, err := repo.User.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, got.IsActivated)
	})

	t.Run("code is marked used exactly once", func(t *testing.T) {
		testutil.TruncateAll(t, db)
		u := newUser("dave@example.com", "dave")
		require.NoError(t, repo.User.Create(ctx, u))
		c := newCode("SPORTPRO123")
		require.NoError(t, repo.ActivationCode.Create(ctx, c))

		assert.ErrorIs(t, repo.ActivationCode.Create(ctx, newCode("SPORTPRO123")), repository.ErrDuplicateCode)

		require.NoError(t, repo.ActivationCode.MarkUsed(ctx, c.ID, u.ID, time.Now()))
		assert.ErrorIs(t, repo.ActivationCode.MarkUsed(ctx, c.ID, u.ID, time.Now()), repository.ErrNotUpdated)

		got, err := repo.ActivationCode.FindByCode(ctx, "SPORTPRO123")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.IsUsed)
		require.NotNil(t, got.UsedByID)
		assert.Equal(t, u.ID, *got.UsedByID)

		total, err := repo.ActivationCode.CountAll(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("failed transaction rolls back every write", func(t *testing.T) {
		testutil.TruncateAll(t, db)
		u := newUser("erin@example.com", "erin")
		require.NoError(t, repo.User.Create(ctx, u))
		c := newCode("ROLLBACK01")
		require.NoError(t, repo.ActivationCode.Create(ctx, c))

		boom := errors.New("boom")
		err := repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
			require.NoError(t, tx.ActivationCode.MarkUsed(ctx, c.ID, u.ID, time.Now()))
			require.NoError(t, tx.User.UpdateActivationFlag(ctx, u.ID, true))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		code, err := repo.ActivationCode.FindByCode(ctx, "ROLLBACK01")
		require.NoError(t, err)
		assert.False(t, code.IsUsed)
		assert.Nil(t, code.UsedByID)

		user, err := repo.User.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.False(t, user.IsActivated)
	})

	t.Run("sessions expire and revoke", func(t *testing.T) {
		testutil.TruncateAll(t, db)
		u := newUser("frank@example.com", "frank")
		require.NoError(t, repo.User.Create(ctx, u))

		live := newSession(u.ID, time.Now().Add(time.Hour))
		other := newSession(u.ID, time.Now().Add(time.Hour))
		expired := newSession(u.ID, time.Now().Add(-time.Minute))
		for _, s := range []*entity.Session{live, other, expired} {
			require.NoError(t, repo.Session.Create(ctx, s))
		}

		got, err := repo.Session.FindValidSession(ctx, live.Token)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, u.ID, got.UserID)

		gone, err := repo.Session.FindValidSession(ctx, expired.Token)
		require.NoError(t, err)
		assert.Nil(t, gone)

		require.NoError(t, repo.Session.Revoke(ctx, live.Token))
		assert.ErrorIs(t, repo.Session.Revoke(ctx, live.Token), repository.ErrNotUpdated)

		require.NoError(t, repo.Session.RevokeAllUserSessions(ctx, u.ID))
		gone, err = repo.Session.FindValidSession(ctx, other.Token)
		require.NoError(t, err)
		assert.Nil(t, gone)

		cleaned, err := repo.Session.CleanExpiredSessions(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, cleaned)
	})

	t.Run("predictions list newest first", func(t *testing.T) {
		testutil.TruncateAll(t, db)
		base := time.Now().Add(-time.Hour)
		for i, match := range []string{"Arsenal vs Chelsea", "Lakers vs Celtics", "Real Madrid vs Barcelona"} {
			require.NoError(t, repo.Prediction.Create(ctx, &entity.Prediction{
				BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: base.Add(time.Duration(i) * time.Minute)},
				Match:      match,
				League:     "Friendly",
				Prediction: "Home Win",
				Multiplier: "1.85x",
				Time:       "Today, 20:00",
				Status:     entity.PredictionStatusUpcoming,
			}))
		}

		all, err := repo.Prediction.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "Real Madrid vs Barcelona", all[0].Match)
		assert.Equal(t, "Arsenal vs Chelsea", all[2].Match)

		one, err := repo.Prediction.FindByID(ctx, all[1].ID)
		require.NoError(t, err)
		require.NotNil(t, one)
		assert.Equal(t, "Lakers vs Celtics", one.Match)

		require.NoError(t, repo.Prediction.DeleteAll(ctx))
		count, err := repo.Prediction.CountAll(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestRedisSessionRepository(t *testing.T) {
	cli := testutil.SetupTestRedis(t)
	sessions := repository.NewRedisSessionRepository(cli, zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	first := newSession(userID, time.Now().Add(time.Hour))
	second := newSession(userID, time.Now().Add(time.Hour))
	require.NoError(t, sessions.Create(ctx, first))
	require.NoError(t, sessions.Create(ctx, second))

	assert.Error(t, sessions.Create(ctx, newSession(userID, time.Now().Add(-time.Second))))

	got, err := sessions.FindValidSession(ctx, first.Token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, userID, got.UserID)

	ttl, err := cli.TTL(ctx, "session:"+first.Token.String()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	require.NoError(t, sessions.Revoke(ctx, first.Token))
	assert.ErrorIs(t, sessions.Revoke(ctx, first.Token), repository.ErrNotUpdated)

	got, err = sessions.FindValidSession(ctx, first.Token)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, sessions.RevokeAllUserSessions(ctx, userID))
	got, err = sessions.FindValidSession(ctx, second.Token)
	require.NoError(t, err)
	assert.Nil(t, got)

	cleaned, err := sessions.CleanExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Zero(t, cleaned)
}
