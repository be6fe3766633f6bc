package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

// テスト用のインメモリsessionsテーブル
type memSessionRepo struct {
	mu   sync.Mutex
	rows map[string]model.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{rows: map[string]model.Session{}}
}

func (r *memSessionRepo) Create(ctx context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[s.ID]; ok {
		return repository.ErrDuplicate
	}
	r.rows[s.ID] = *s
	return nil
}

func (r *memSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *memSessionRepo) Revoke(ctx context.Context, id string, revokedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok || s.RevokedAt != nil {
		return repository.ErrNotFound
	}
	s.RevokedAt = &revokedAt
	r.rows[id] = s
	return nil
}

func (r *memSessionRepo) DeleteExpiredByUserID(ctx context.Context, userID int64, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.rows {
		if s.UserID == userID && !now.Before(s.ExpiresAt) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

func (r *memSessionRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type memUserRepo struct {
	byEmail map[string]model.User
}

func (r *memUserRepo) Create(ctx context.Context, u *model.User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return repository.ErrDuplicate
	}
	u.ID = int64(len(r.byEmail) + 1)
	r.byEmail[u.Email] = *u
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	for _, u := range r.byEmail {
		if u.ID == userID {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type seqIDGen struct {
	n int
}

func (g *seqIDGen) NewID() string {
	g.n++
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", g.n)
}

var (
	_ repository.SessionRepository = (*memSessionRepo)(nil)
	_ repository.UserRepository    = (*memUserRepo)(nil)
	_ Clock                        = (*fakeClock)(nil)
	_ IDGenerator                  = (*seqIDGen)(nil)
)
