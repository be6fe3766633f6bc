package server_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// =====================
// インメモリDB（server全体の結合テスト用）
// =====================

type memStore struct {
	mu         sync.Mutex
	seq        map[string]int64
	products   map[int64]model.Product
	deleted    map[int64]model.Product
	orders     map[int64]model.Order
	orderItems []model.OrderItem
	users      map[string]model.User
	sessions   map[string]model.Session
}

func newMemStore() *memStore {
	return &memStore{
		seq:      map[string]int64{},
		products: map[int64]model.Product{},
		deleted:  map[int64]model.Product{},
		orders:   map[int64]model.Order{},
		users:    map[string]model.User{},
		sessions: map[string]model.Session{},
	}
}

// テーブルごとの連番（SERIAL相当）
func (s *memStore) id(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// ---- products ----

type memProducts struct{ s *memStore }

func (r memProducts) List(ctx context.Context) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memProducts) FindByID(ctx context.Context, id int64) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r memProducts) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.products)), nil
}

func (r memProducts) Create(ctx context.Context, p model.Product) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.id("products")
	r.s.products[p.ID] = p
	return p, nil
}

func (r memProducts) Update(ctx context.Context, p model.Product) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return model.Product{}, repo.ErrNotFound
	}
	r.s.products[p.ID] = p
	return p, nil
}

func (r memProducts) SoftDelete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return repo.ErrNotFound
	}
	delete(r.s.products, id)
	r.s.deleted[id] = p
	return nil
}

// ---- orders ----

type memOrders struct{ s *memStore }

func (r memOrders) CreateWithItems(ctx context.Context, o model.Order, items []model.OrderItem) (model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.ID = r.s.id("orders")
	o.CreatedAt = time.Now()
	r.s.orders[o.ID] = o
	for _, it := range items {
		it.ID = r.s.id("order_items")
		it.OrderID = o.ID
		r.s.orderItems = append(r.s.orderItems, it)
	}
	return o, nil
}

func (r memOrders) ListWithItems(ctx context.Context) ([]model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		for _, it := range r.s.orderItems {
			if it.OrderID != o.ID {
				continue
			}
			// 論理削除済みの商品も返す
			if p, ok := r.s.products[it.ProductID]; ok {
				it.Product = &p
			} else if p, ok := r.s.deleted[it.ProductID]; ok {
				it.Product = &p
			}
			o.Items = append(o.Items, it)
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memOrders) FindByID(ctx context.Context, id int64) (model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (r memOrders) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	r.s.orders[id] = o
	return nil
}

func (r memOrders) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.orders)), nil
}

// ---- tx ----

// rollbackは注文と明細の件数を元に戻すだけの簡易版
type memTx struct{ s *memStore }

func (m memTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.s.mu.Lock()
	orders := make(map[int64]model.Order, len(m.s.orders))
	for k, v := range m.s.orders {
		orders[k] = v
	}
	nItems := len(m.s.orderItems)
	m.s.mu.Unlock()

	if err := fn(memTxRepos{s: m.s}); err != nil {
		m.s.mu.Lock()
		m.s.orders = orders
		m.s.orderItems = m.s.orderItems[:nItems]
		m.s.mu.Unlock()
		return err
	}
	return nil
}

type memTxRepos struct{ s *memStore }

func (r memTxRepos) Orders() repo.OrderRepository     { return memOrders{s: r.s} }
func (r memTxRepos) Products() repo.ProductRepository { return memProducts{s: r.s} }

// ---- users / sessions ----

type memUsers struct{ s *memStore }

func (r memUsers) Create(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.Email]; ok {
		return repo.ErrDuplicate
	}
	u.ID = r.s.id("users")
	r.s.users[u.Email] = *u
	return nil
}

func (r memUsers) FindByID(ctx context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r memUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

type memSessions struct{ s *memStore }

func (r memSessions) Create(ctx context.Context, sess *model.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[sess.ID] = *sess
	return nil
}

func (r memSessions) FindByID(ctx context.Context, id string) (*model.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &sess, nil
}

func (r memSessions) Revoke(ctx context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[id]
	if !ok || sess.RevokedAt != nil {
		return repo.ErrNotFound
	}
	sess.RevokedAt = &at
	r.s.sessions[id] = sess
	return nil
}

func (r memSessions) DeleteExpiredByUserID(ctx context.Context, userID int64, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, sess := range r.s.sessions {
		if sess.UserID == userID && !now.Before(sess.ExpiresAt) {
			delete(r.s.sessions, id)
			n++
		}
	}
	return n, nil
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", g.n)
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

var (
	_ repo.ProductRepository  = memProducts{}
	_ repo.OrderRepository    = memOrders{}
	_ repo.TransactionManager = memTx{}
	_ repo.UserRepository     = memUsers{}
	_ repo.SessionRepository  = memSessions{}
)
