package repository

import (
	"context"
	"errors"
	"fmt"

	"sports-prediction/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	// ErrNotUpdated means a conditional UPDATE matched no row: the row is
	// missing or already in the target state.
	ErrNotUpdated = errors.New("no rows updated")

	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateCode     = errors.New("duplicate activation code")
)

const uniqueViolation = "23505"

// Transactor runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *Repository) error) error
}

type Repository struct {
	User           UserRepository
	Session        SessionRepository
	ActivationCode ActivationCodeRepository
	Prediction     PredictionRepository
	Tx             Transactor
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newQuerierRepository(db, log)
	repo.Session = NewSessionRepository(db, log)
	repo.Tx = &pgTransactor{db: db, log: log, parent: repo}
	return repo
}

func newQuerierRepository(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:           NewUserRepository(q, log),
		ActivationCode: NewActivationCodeRepository(q, log),
		Prediction:     NewPredictionRepository(q, log),
	}
}

type pgTransactor struct {
	db     database.PgxIface
	log    *zap.Logger
	parent *Repository
}

func (t *pgTransactor) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		t.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}
	// no-op after a successful commit
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	txRepo := newQuerierRepository(tx, t.log)
	// sessions may live outside postgres and never join the transaction
	txRepo.Session = t.parent.Session
	txRepo.Tx = nestedTx{repo: txRepo}

	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		t.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// nestedTx reuses the enclosing transaction.
type nestedTx struct {
	repo *Repository
}

func (n nestedTx) WithTx(_ context.Context, fn func(tx *Repository) error) error {
	return fn(n.repo)
}

func constraintName(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
