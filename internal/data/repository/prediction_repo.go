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

type PredictionRepository interface {
	Create(ctx context.Context, prediction *entity.Prediction) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Prediction, error)
	// FindAll returns predictions newest first.
	FindAll(ctx context.Context) ([]*entity.Prediction, error)
	CountAll(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

type predictionRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPredictionRepository(db database.Querier, log *zap.Logger) PredictionRepository {
	return &predictionRepository{
		db:  db,
		log: log.With(zap.String("repository", "prediction")),
	}
}

const predictionColumns = `id, match, league, prediction, multiplier, time, status, created_at`

func (r *predictionRepository) Create(ctx context.Context, p *entity.Prediction) error {
	query := `
		INSERT INTO predictions (` + predictionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.Match,
		p.League,
		p.Prediction,
		p.Multiplier,
		p.Time,
		p.Status,
		p.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create prediction",
			zap.Error(err),
			zap.String("match", p.Match),
		)
		return fmt.Errorf("create prediction %s: %w", p.Match, err)
	}

	return nil
}

func (r *predictionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE id = $1`

	var p entity.Prediction
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Match,
		&p.League,
		&p.Prediction,
		&p.Multiplier,
		&p.Time,
		&p.Status,
		&p.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find prediction",
			zap.Error(err),
			zap.String("prediction_id", id.String()),
		)
		return nil, fmt.Errorf("find prediction %s: %w", id.String(), err)
	}

	return &p, nil
}

func (r *predictionRepository) FindAll(ctx context.Context) ([]*entity.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list predictions", zap.Error(err))
		return nil, fmt.Errorf("find all predictions: %w", err)
	}
	defer rows.Close()

	predictions := make([]*entity.Prediction, 0)
	for rows.Next() {
		var p entity.Prediction
		if err := rows.Scan(
			&p.ID,
			&p.Match,
			&p.League,
			&p.Prediction,
			&p.Multiplier,
			&p.Time,
			&p.Status,
			&p.CreatedAt,
		); err != nil {
			r.log.Error("Failed to scan prediction row", zap.Error(err))
			return nil, fmt.Errorf("scan prediction row: %w", err)
		}
		predictions = append(predictions, &p)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate prediction rows: %w", err)
	}

	return predictions, nil
}

func (r *predictionRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&count); err != nil {
		r.log.Error("Database error counting predictions", zap.Error(err))
		return 0, fmt.Errorf("count predictions: %w", err)
	}
	return count, nil
}

func (r *predictionRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM predictions`); err != nil {
		r.log.Error("Failed to delete predictions", zap.Error(err))
		return fmt.Errorf("delete predictions: %w", err)
	}
	return nil
}
