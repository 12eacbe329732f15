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

// UserRepository is the credential store. Email and username lookups are
// case-insensitive.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	// UpdateActivationFlag returns ErrNotUpdated when the user is missing or
	// already has the requested flag value.
	UpdateActivationFlag(ctx context.Context, id uuid.UUID, activated bool) error
}

type userRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewUserRepository(db database.Querier, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, username, email, password, phone_number, is_activated, created_at, updated_at`

// Create inserts a new user record into the database
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.PhoneNumber,
		user.IsActivated,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if constraint, ok := constraintName(err); ok {
		switch constraint {
		case "users_email_lower_key":
			return ErrDuplicateEmail
		case "users_username_lower_key":
			return ErrDuplicateUsername
		}
	}
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	user, err := scanUser(ur.db.QueryRow(ctx, query, email))
	if err != nil {
		ur.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER($1)`

	user, err := scanUser(ur.db.QueryRow(ctx, query, username))
	if err != nil {
		ur.log.Error("Failed to find user by username",
			zap.Error(err),
			zap.String("username", username),
		)
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}

	return user, nil
}

func (ur *userRepository) UpdateActivationFlag(ctx context.Context, id uuid.UUID, activated bool) error {
	query := `
		UPDATE users
		SET is_activated = $2, updated_at = NOW()
		WHERE id = $1 AND is_activated <> $2
	`

	result, err := ur.db.Exec(ctx, query, id, activated)
	if err != nil {
		ur.log.Error("Failed to update activation flag",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.Bool("activated", activated),
		)
		return fmt.Errorf("update activation flag for user %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotUpdated
	}

	return nil
}

// scanUser returns (nil, nil) when the row does not exist.
func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.PhoneNumber,
		&user.IsActivated,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
