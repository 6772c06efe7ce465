// Package mocks はrepositoryのtestify実装（テスト専用）
package mocks

import (
	"context"
	"time"

	"threadshop/internal/domain/model"
	repo "threadshop/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// User
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserRepoMock) Exists(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	args := m.Called(ctx, userID, hash)
	return args.Error(0)
}

func (m *UserRepoMock) Delete(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// =====================
// Product
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

func (m *ProductRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByIDsForUpdate(ctx context.Context, ids []int64) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) UpsertByName(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

// =====================
// Cart
// =====================

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) ListLines(ctx context.Context, userID int64) ([]model.CartLine, error) {
	args := m.Called(ctx, userID)
	lines, _ := args.Get(0).([]model.CartLine)
	return lines, args.Error(1)
}

func (m *CartRepoMock) ListLinesForUpdate(ctx context.Context, userID int64) ([]model.CartLine, error) {
	args := m.Called(ctx, userID)
	lines, _ := args.Get(0).([]model.CartLine)
	return lines, args.Error(1)
}

func (m *CartRepoMock) FindItem(ctx context.Context, userID, productID int64) (model.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Error(1)
}

func (m *CartRepoMock) SetQuantity(ctx context.Context, userID, productID, qty int64) error {
	args := m.Called(ctx, userID, productID, qty)
	return args.Error(0)
}

func (m *CartRepoMock) AddQuantity(ctx context.Context, userID, productID, qty int64) error {
	args := m.Called(ctx, userID, productID, qty)
	return args.Error(0)
}

func (m *CartRepoMock) DeleteItem(ctx context.Context, userID, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

// =====================
// Order / OrderProduct
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) ListAll(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	id, _ := args.Get(0).(int64)
	return id, args.Error(1)
}

type OrderProductRepoMock struct{ mock.Mock }

func (m *OrderProductRepoMock) CreateBulk(ctx context.Context, orderID int64, lines []model.OrderProduct) error {
	args := m.Called(ctx, orderID, lines)
	return args.Error(0)
}

func (m *OrderProductRepoMock) ListLinesByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	args := m.Called(ctx, orderID)
	lines, _ := args.Get(0).([]model.OrderLine)
	return lines, args.Error(1)
}

// =====================
// Inventory
// =====================

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	args := m.Called(ctx, adj)
	return args.Error(0)
}

// =====================
// Session
// =====================

type SessionRepoMock struct{ mock.Mock }

func (m *SessionRepoMock) Create(ctx context.Context, s model.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SessionRepoMock) FindByID(ctx context.Context, id string) (model.Session, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Session)
	return s, args.Error(1)
}

func (m *SessionRepoMock) Revoke(ctx context.Context, id string, revokedAt time.Time) error {
	args := m.Called(ctx, id, revokedAt)
	return args.Error(0)
}

func (m *SessionRepoMock) RevokeAllByUserID(ctx context.Context, userID int64, exceptID string, revokedAt time.Time) error {
	args := m.Called(ctx, userID, exceptID, revokedAt)
	return args.Error(0)
}

func (m *SessionRepoMock) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SessionRepoMock) DeleteAllByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// =====================
// AuditLog
// =====================

type AuditLogRepoMock struct{ mock.Mock }

func (m *AuditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditLogRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// Tx
// =====================

// TxReposはTx内で使うmockをまとめたもの
type TxRepos struct {
	UserRepo         *UserRepoMock
	OrderRepo        *OrderRepoMock
	OrderProductRepo *OrderProductRepoMock
	CartRepo         *CartRepoMock
	InventoryRepo    *InventoryRepoMock
	ProductRepo      *ProductRepoMock
	SessionRepo      *SessionRepoMock
	AuditLogRepo     *AuditLogRepoMock
}

func NewTxRepos() *TxRepos {
	return &TxRepos{
		UserRepo:         new(UserRepoMock),
		OrderRepo:        new(OrderRepoMock),
		OrderProductRepo: new(OrderProductRepoMock),
		CartRepo:         new(CartRepoMock),
		InventoryRepo:    new(InventoryRepoMock),
		ProductRepo:      new(ProductRepoMock),
		SessionRepo:      new(SessionRepoMock),
		AuditLogRepo:     new(AuditLogRepoMock),
	}
}

func (r *TxRepos) Users() repo.UserRepository                 { return r.UserRepo }
func (r *TxRepos) Orders() repo.OrderRepository               { return r.OrderRepo }
func (r *TxRepos) OrderProducts() repo.OrderProductRepository { return r.OrderProductRepo }
func (r *TxRepos) Carts() repo.CartRepository                 { return r.CartRepo }
func (r *TxRepos) Inventory() repo.InventoryRepository        { return r.InventoryRepo }
func (r *TxRepos) Products() repo.ProductRepository           { return r.ProductRepo }
func (r *TxRepos) Sessions() repo.SessionRepository           { return r.SessionRepo }
func (r *TxRepos) AuditLogs() repo.AuditLogRepository         { return r.AuditLogRepo }

// fnをそのまま呼ぶ。Calls/Committedで結果を確認する
type TxManagerMock struct {
	Repos     *TxRepos
	Calls     int
	Committed int
}

func NewTxManagerMock(r *TxRepos) *TxManagerMock {
	return &TxManagerMock{Repos: r}
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Calls++
	if err := fn(m.Repos); err != nil {
		return err
	}
	m.Committed++
	return nil
}

func (r *TxRepos) AssertExpectations(t mock.TestingT) {
	r.UserRepo.AssertExpectations(t)
	r.OrderRepo.AssertExpectations(t)
	r.OrderProductRepo.AssertExpectations(t)
	r.CartRepo.AssertExpectations(t)
	r.InventoryRepo.AssertExpectations(t)
	r.ProductRepo.AssertExpectations(t)
	r.SessionRepo.AssertExpectations(t)
	r.AuditLogRepo.AssertExpectations(t)
}
