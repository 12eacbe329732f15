// Package memory is an in-memory implementation of every repository, used as
// a test double. WithTx holds the store lock for the whole callback and
// restores a snapshot when the callback fails, so it keeps the same
// all-or-nothing contract as the PostgreSQL transaction runner.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"sports-prediction/internal/data/entity"
	"sports-prediction/internal/data/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu          sync.Mutex
	users       map[uuid.UUID]entity.User
	codes       map[uuid.UUID]entity.ActivationCode
	sessions    map[uuid.UUID]entity.Session
	predictions map[uuid.UUID]entity.Prediction
	failures    map[string]error

	// Now is the clock used for session liveness checks.
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:       make(map[uuid.UUID]entity.User),
		codes:       make(map[uuid.UUID]entity.ActivationCode),
		sessions:    make(map[uuid.UUID]entity.Session),
		predictions: make(map[uuid.UUID]entity.Prediction),
		failures:    make(map[string]error),
		Now:         time.Now,
	}
}

// NewRepository returns a Repository backed by a fresh Store.
func NewRepository() (*repository.Repository, *Store) {
	s := NewStore()
	return s.repository(false), s
}

// FailOn makes every later call of op (for example "User.UpdateActivationFlag")
// return err until ClearFailures is called.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.failures)
}

func (s *Store) repository(inTx bool) *repository.Repository {
	h := handle{s: s, inTx: inTx}
	repo := &repository.Repository{
		User:           &userRepo{h},
		Session:        &sessionRepo{h},
		ActivationCode: &codeRepo{h},
		Prediction:     &predictionRepo{h},
	}
	if inTx {
		repo.Tx = nestedTx{repo: repo}
	} else {
		repo.Tx = &transactor{s: s}
	}
	return repo
}

type snapshot struct {
	users       map[uuid.UUID]entity.User
	codes       map[uuid.UUID]entity.ActivationCode
	sessions    map[uuid.UUID]entity.Session
	predictions map[uuid.UUID]entity.Prediction
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		users:       maps.Clone(s.users),
		codes:       maps.Clone(s.codes),
		sessions:    maps.Clone(s.sessions),
		predictions: maps.Clone(s.predictions),
	}
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.codes = snap.codes
	s.sessions = snap.sessions
	s.predictions = snap.predictions
}

type transactor struct {
	s *Store
}

func (t *transactor) WithTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := t.s.snapshot()
	if err := fn(t.s.repository(true)); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

type nestedTx struct {
	repo *repository.Repository
}

func (n nestedTx) WithTx(_ context.Context, fn func(tx *repository.Repository) error) error {
	return fn(n.repo)
}

// handle takes the store lock for a single call unless it is bound to a
// transaction that already holds it.
type handle struct {
	s    *Store
	inTx bool
}

func (h handle) lock() func() {
	if h.inTx {
		return func() {}
	}
	h.s.mu.Lock()
	return h.s.mu.Unlock
}

func (h handle) fail(op string) error {
	return h.s.failures[op]
}
