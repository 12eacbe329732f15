package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"sports-prediction/internal/data/entity"
	"sports-prediction/internal/data/repository"

	"github.com/google/uuid"
)

type userRepo struct{ handle }

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	defer r.lock()()
	if err := r.fail("User.Create"); err != nil {
		return err
	}
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
		if strings.EqualFold(u.Username, user.Username) {
			return repository.ErrDuplicateUsername
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	defer r.lock()()
	if err := r.fail("User.FindByID"); err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.lock()()
	if err := r.fail("User.FindByEmail"); err != nil {
		return nil, err
	}
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	defer r.lock()()
	if err := r.fail("User.FindByUsername"); err != nil {
		return nil, err
	}
	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) UpdateActivationFlag(_ context.Context, id uuid.UUID, activated bool) error {
	defer r.lock()()
	if err := r.fail("User.UpdateActivationFlag"); err != nil {
		return err
	}
	u, ok := r.s.users[id]
	if !ok || u.IsActivated == activated {
		return repository.ErrNotUpdated
	}
	u.IsActivated = activated
	u.UpdatedAt = r.s.Now()
	r.s.users[id] = u
	return nil
}

type codeRepo struct{ handle }

func (r *codeRepo) Create(_ context.Context, code *entity.ActivationCode) error {
	defer r.lock()()
	if err := r.fail("ActivationCode.Create"); err != nil {
		return err
	}
	for _, c := range r.s.codes {
		if c.Code == code.Code {
			return repository.ErrDuplicateCode
		}
	}
	r.s.codes[code.ID] = *code
	return nil
}

func (r *codeRepo) FindByCode(_ context.Context, code string) (*entity.ActivationCode, error) {
	defer r.lock()()
	if err := r.fail("ActivationCode.FindByCode"); err != nil {
		return nil, err
	}
	for _, c := range r.s.codes {
		if c.Code == code {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *codeRepo) MarkUsed(_ context.Context, codeID, userID uuid.UUID, usedAt time.Time) error {
	defer r.lock()()
	if err := r.fail("ActivationCode.MarkUsed"); err != nil {
		return err
	}
	c, ok := r.s.codes[codeID]
	if !ok || c.IsUsed {
		return repository.ErrNotUpdated
	}
	c.IsUsed = true
	c.UsedByID = &userID
	c.UsedAt = &usedAt
	r.s.codes[codeID] = c
	return nil
}

func (r *codeRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.ActivationCode, error) {
	defer r.lock()()
	if err := r.fail("ActivationCode.FindAll"); err != nil {
		return nil, err
	}
	all := make([]*entity.ActivationCode, 0, len(r.s.codes))
	for _, c := range r.s.codes {
		all = append(all, &c)
	}
	slices.SortFunc(all, func(a, b *entity.ActivationCode) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return page(all, limit, offset), nil
}

func (r *codeRepo) CountAll(_ context.Context) (int64, error) {
	defer r.lock()()
	if err := r.fail("ActivationCode.CountAll"); err != nil {
		return 0, err
	}
	return int64(len(r.s.codes)), nil
}

type sessionRepo struct{ handle }

func (r *sessionRepo) Create(_ context.Context, session *entity.Session) error {
	defer r.lock()()
	if err := r.fail("Session.Create"); err != nil {
		return err
	}
	r.s.sessions[session.Token] = *session
	return nil
}

func (r *sessionRepo) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	defer r.lock()()
	if err := r.fail("Session.FindValidSession"); err != nil {
		return nil, err
	}
	sess, ok := r.s.sessions[token]
	if !ok || !sess.IsLive(r.s.Now()) {
		return nil, nil
	}
	return &sess, nil
}

func (r *sessionRepo) Revoke(_ context.Context, token uuid.UUID) error {
	defer r.lock()()
	if err := r.fail("Session.Revoke"); err != nil {
		return err
	}
	sess, ok := r.s.sessions[token]
	now := r.s.Now()
	if !ok || !sess.IsLive(now) {
		return repository.ErrNotUpdated
	}
	sess.RevokedAt = &now
	r.s.sessions[token] = sess
	return nil
}

func (r *sessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	defer r.lock()()
	if err := r.fail("Session.RevokeAllUserSessions"); err != nil {
		return err
	}
	now := r.s.Now()
	for token, sess := range r.s.sessions {
		if sess.UserID == userID && sess.RevokedAt == nil {
			sess.RevokedAt = &now
			r.s.sessions[token] = sess
		}
	}
	return nil
}

func (r *sessionRepo) CleanExpiredSessions(_ context.Context) (int64, error) {
	defer r.lock()()
	if err := r.fail("Session.CleanExpiredSessions"); err != nil {
		return 0, err
	}
	now := r.s.Now()
	var removed int64
	for token, sess := range r.s.sessions {
		if !sess.IsLive(now) {
			delete(r.s.sessions, token)
			removed++
		}
	}
	return removed, nil
}

type predictionRepo struct{ handle }

func (r *predictionRepo) Create(_ context.Context, p *entity.Prediction) error {
	defer r.lock()()
	if err := r.fail("Prediction.Create"); err != nil {
		return err
	}
	r.s.predictions[p.ID] = *p
	return nil
}

func (r *predictionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Prediction, error) {
	defer r.lock()()
	if err := r.fail("Prediction.FindByID"); err != nil {
		return nil, err
	}
	p, ok := r.s.predictions[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *predictionRepo) FindAll(_ context.Context) ([]*entity.Prediction, error) {
	defer r.lock()()
	if err := r.fail("Prediction.FindAll"); err != nil {
		return nil, err
	}
	all := make([]*entity.Prediction, 0, len(r.s.predictions))
	for _, p := range r.s.predictions {
		all = append(all, &p)
	}
	slices.SortFunc(all, func(a, b *entity.Prediction) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return all, nil
}

func (r *predictionRepo) CountAll(_ context.Context) (int64, error) {
	defer r.lock()()
	if err := r.fail("Prediction.CountAll"); err != nil {
		return 0, err
	}
	return int64(len(r.s.predictions)), nil
}

func (r *predictionRepo) DeleteAll(_ context.Context) error {
	defer r.lock()()
	if err := r.fail("Prediction.DeleteAll"); err != nil {
		return err
	}
	clear(r.s.predictions)
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
