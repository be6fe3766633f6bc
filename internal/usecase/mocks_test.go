package usecase_test

import (
	"context"
	"io"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders   repo.OrderRepository
	products repo.ProductRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository     { return r.orders }
func (r *TxReposMock) Products() repo.ProductRepository { return r.products }

// =====================
// Repository mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	updated, _ := args.Get(0).(model.Product)
	return updated, args.Error(1)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) CreateWithItems(ctx context.Context, order model.Order, items []model.OrderItem) (model.Order, error) {
	args := m.Called(ctx, order, items)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListWithItems(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// =====================
// その他
// =====================

type OrderValidatorMock struct{ mock.Mock }

func (m *OrderValidatorMock) ValidateCreateOrder(in usecase.CreateOrderInput) error {
	args := m.Called(in)
	return args.Error(0)
}

type HookMock struct{ mock.Mock }

func (m *HookMock) Name() string { return "mock-hook" }

func (m *HookMock) OnOrderCreated(ctx context.Context, order model.Order, lines []model.CartLine) error {
	args := m.Called(ctx, order, lines)
	return args.Error(0)
}

type LogReaderMock struct{ mock.Mock }

func (m *LogReaderMock) Open() (io.ReadCloser, error) {
	args := m.Called()
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

var (
	_ repo.ProductRepository   = (*ProductRepoMock)(nil)
	_ repo.OrderRepository     = (*OrderRepoMock)(nil)
	_ repo.TransactionManager  = (*TxManagerMock)(nil)
	_ usecase.OrderCreatedHook = (*HookMock)(nil)
	_ usecase.OrderValidator   = (*OrderValidatorMock)(nil)
	_ usecase.OrdersLogReader  = (*LogReaderMock)(nil)
)
