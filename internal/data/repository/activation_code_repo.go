package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sports-prediction/internal/data/entity"
	"sports-prediction/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ActivationCodeRepository is the activation code store.
type ActivationCodeRepository interface {
	Create(ctx context.Context, code *entity.ActivationCode) error
	// FindByCode matches the code string exactly and returns used codes too.
	FindByCode(ctx context.Context, code string) (*entity.ActivationCode, error)
	// MarkUsed flips an unused code to used by userID. It is a compare-and-swap:
	// for any code at most one call ever succeeds, every other call returns
	// ErrNotUpdated.
	MarkUsed(ctx context.Context, codeID, userID uuid.UUID, usedAt time.Time) error
	FindAll(ctx context.Context, limit, offset int) ([]*entity.ActivationCode, error)
	CountAll(ctx context.Context) (int64, error)
}

type activationCodeRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewActivationCodeRepository(db database.Querier, log *zap.Logger) ActivationCodeRepository {
	return &activationCodeRepository{
		db:  db,
		log: log.With(zap.String("repository", "activation_code")),
	}
}

const activationCodeColumns = `id, code, is_used, used_by_id, used_at, created_at`

func (r *activationCodeRepository) Create(ctx context.Context, code *entity.ActivationCode) error {
	query := `
		INSERT INTO activation_codes (` + activationCodeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		code.ID,
		code.Code,
		code.IsUsed,
		code.UsedByID,
		code.UsedAt,
		code.CreatedAt,
	)

	if _, ok := constraintName(err); ok {
		return ErrDuplicateCode
	}
	if err != nil {
		r.log.Error("Failed to create activation code",
			zap.Error(err),
			zap.String("code_id", code.ID.String()),
		)
		return fmt.Errorf("create activation code %s: %w", code.ID.String(), err)
	}

	return nil
}

func (r *activationCodeRepository) FindByCode(ctx context.Context, code string) (*entity.ActivationCode, error) {
	query := `SELECT ` + activationCodeColumns + ` FROM activation_codes WHERE code = $1`

	var ac entity.ActivationCode
	err := r.db.QueryRow(ctx, query, code).Scan(
		&ac.ID,
		&ac.Code,
		&ac.IsUsed,
		&ac.UsedByID,
		&ac.UsedAt,
		&ac.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find activation code", zap.Error(err))
		return nil, fmt.Errorf("find activation code: %w", err)
	}

	return &ac, nil
}

func (r *activationCodeRepository) MarkUsed(ctx context.Context, codeID, userID uuid.UUID, usedAt time.Time) error {
	query := `
		UPDATE activation_codes
		SET is_used = TRUE, used_by_id = $2, used_at = $3
		WHERE id = $1 AND is_used = FALSE
	`

	result, err := r.db.Exec(ctx, query, codeID, userID, usedAt)
	if err != nil {
		r.log.Error("Failed to mark activation code as used",
			zap.Error(err),
			zap.String("code_id", codeID.String()),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("mark activation code %s as used: %w", codeID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotUpdated
	}

	return nil
}

func (r *activationCodeRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.ActivationCode, error) {
	query := `
		SELECT ` + activationCodeColumns + `
		FROM activation_codes
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list activation codes",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all activation codes limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var codes []*entity.ActivationCode
	for rows.Next() {
		var ac entity.ActivationCode
		if err := rows.Scan(
			&ac.ID,
			&ac.Code,
			&ac.IsUsed,
			&ac.UsedByID,
			&ac.UsedAt,
			&ac.CreatedAt,
		); err != nil {
			r.log.Error("Failed to scan activation code row", zap.Error(err))
			return nil, fmt.Errorf("scan activation code row: %w", err)
		}
		codes = append(codes, &ac)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate activation code rows: %w", err)
	}

	return codes, nil
}

func (r *activationCodeRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM activation_codes`).Scan(&count); err != nil {
		r.log.Error("Database error counting activation codes", zap.Error(err))
		return 0, fmt.Errorf("count activation codes: %w", err)
	}
	return count, nil
}
