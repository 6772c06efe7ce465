package usecase_test

import (
	"context"
	"testing"
	"time"

	"threadshop/internal/access"
	"threadshop/internal/domain/model"
	repo "threadshop/internal/repository"
	"threadshop/internal/repository/mocks"
	"threadshop/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var checkoutNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type orderFixture struct {
	r        *mocks.TxRepos
	tx       *mocks.TxManagerMock
	users    *mocks.UserRepoMock
	orders   *mocks.OrderRepoMock
	lines    *mocks.OrderProductRepoMock
	recorder *recorderMock
	hook     *test.Hook
	uc       *usecase.OrderUsecase
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		r:        mocks.NewTxRepos(),
		users:    new(mocks.UserRepoMock),
		orders:   new(mocks.OrderRepoMock),
		lines:    new(mocks.OrderProductRepoMock),
		recorder: &recorderMock{},
	}
	f.tx = mocks.NewTxManagerMock(f.r)
	log, hook := test.NewNullLogger()
	f.hook = hook
	f.uc = usecase.NewOrderUsecase(f.tx, f.users, f.orders, f.lines, fixedClock{checkoutNow}, f.recorder, prefixSigner{}, log)
	return f
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// A(在庫5)を2個、B(在庫1)を2個 -> Bが足りないので何も書かない
func TestOrderUsecase_Checkout_InsufficientStockWritesNothing(t *testing.T) {
	f := newOrderFixture()
	owner := access.Principal{UserID: 1, SessionID: "s1"}

	f.r.UserRepo.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	f.r.CartRepo.On("ListLinesForUpdate", mock.Anything, int64(1)).Return([]model.CartLine{
		{ProductID: 10, Quantity: 2},
		{ProductID: 11, Quantity: 2},
	}, nil)
	f.r.ProductRepo.On("FindByIDsForUpdate", mock.Anything, []int64{10, 11}).Return([]model.Product{
		{ID: 10, Cost: money("5.00"), StockCount: 5},
		{ID: 11, Cost: money("7.00"), StockCount: 1},
	}, nil)

	_, err := f.uc.Checkout(context.Background(), owner, 1, usecase.CheckoutInput{})

	assertKind(t, err, usecase.KindInsufficientStock)
	e, _ := usecase.AsError(err)
	assert.Contains(t, e.Message, "Not enough stock to complete order")
	assert.Contains(t, e.Message, "11")

	assert.Equal(t, 0, f.tx.Committed)
	f.r.OrderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.r.OrderProductRepo.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
	f.r.InventoryRepo.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
	f.r.CartRepo.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
	assert.Equal(t, []string{usecase.CheckoutInsufficientStock}, f.recorder.outcomes)
}

func TestOrderUsecase_Checkout_Success(t *testing.T) {
	f := newOrderFixture()
	owner := access.Principal{UserID: 1, SessionID: "s1"}

	f.r.UserRepo.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	f.r.CartRepo.On("ListLinesForUpdate", mock.Anything, int64(1)).Return([]model.CartLine{
		{ProductID: 10, Quantity: 2},
		{ProductID: 12, Quantity: 1},
	}, nil)
	f.r.ProductRepo.On("FindByIDsForUpdate", mock.Anything, []int64{10, 12}).Return([]model.Product{
		{ID: 10, Cost: money("5.25"), StockCount: 5},
		{ID: 12, Cost: money("19.99"), StockCount: 1},
	}, nil)
	f.r.OrderRepo.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 1 && o.Date.Equal(checkoutNow) && o.TotalCost.Equal(money("30.49"))
	})).Return(int64(77), nil)
	f.r.OrderProductRepo.On("CreateBulk", mock.Anything, int64(77), []model.OrderProduct{
		{ProductID: 10, Quantity: 2, UnitCost: money("5.25")},
		{ProductID: 12, Quantity: 1, UnitCost: money("19.99")},
	}).Return(nil)
	f.r.InventoryRepo.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(2)).Return(true, nil)
	f.r.InventoryRepo.On("DecreaseStockIfEnough", mock.Anything, int64(12), int64(1)).Return(true, nil)
	f.r.InventoryRepo.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
		return a.OrderID != nil && *a.OrderID == 77 && a.ActorUserID == 1 && a.Delta < 0 && a.Reason == "checkout"
	})).Return(nil).Twice()
	f.r.CartRepo.On("Clear", mock.Anything, int64(1)).Return(int64(2), nil)

	out, err := f.uc.Checkout(context.Background(), owner, 1, usecase.CheckoutInput{})
	require.NoError(t, err)

	assert.Equal(t, int64(77), out.ID)
	assert.True(t, out.TotalCost.Equal(money("30.49")))
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 1, f.tx.Committed)
	assert.Equal(t, []string{usecase.CheckoutSucceeded}, f.recorder.outcomes)
	//本人の注文は監査ログを残さない
	f.r.AuditLogRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.r.AssertExpectations(t)
}

func TestOrderUsecase_Checkout_EmptyCart(t *testing.T) {
	f := newOrderFixture()
	f.r.UserRepo.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	f.r.CartRepo.On("ListLinesForUpdate", mock.Anything, int64(1)).Return([]model.CartLine{}, nil)

	_, err := f.uc.Checkout(context.Background(), access.Principal{UserID: 1}, 1, usecase.CheckoutInput{})

	assertKind(t, err, usecase.KindValidation)
	assert.Equal(t, []string{usecase.CheckoutEmptyCart}, f.recorder.outcomes)
}

// 条件付きUPDATEが0件ならrollback
func TestOrderUsecase_Checkout_ConditionalDecrementFails(t *testing.T) {
	f := newOrderFixture()
	f.r.UserRepo.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	f.r.CartRepo.On("ListLinesForUpdate", mock.Anything, int64(1)).Return([]model.CartLine{{ProductID: 10, Quantity: 2}}, nil)
	f.r.ProductRepo.On("FindByIDsForUpdate", mock.Anything, []int64{10}).
		Return([]model.Product{{ID: 10, Cost: money("5.00"), StockCount: 2}}, nil)
	f.r.OrderRepo.On("Create", mock.Anything, mock.Anything).Return(int64(5), nil)
	f.r.OrderProductRepo.On("CreateBulk", mock.Anything, int64(5), mock.Anything).Return(nil)
	f.r.InventoryRepo.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(2)).Return(false, nil)

	_, err := f.uc.Checkout(context.Background(), access.Principal{UserID: 1}, 1, usecase.CheckoutInput{})

	assertKind(t, err, usecase.KindInsufficientStock)
	assert.Equal(t, 0, f.tx.Committed)
	f.r.CartRepo.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

// ロック後に消せた行数が明細数と違えばrollback
func TestOrderUsecase_Checkout_ClearCountMismatchRollsBack(t *testing.T) {
	f := newOrderFixture()
	f.r.UserRepo.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	f.r.CartRepo.On("ListLinesForUpdate", mock.Anything, int64(1)).Return([]model.CartLine{
		{ProductID: 10, Quantity: 1},
		{ProductID: 11, Quantity: 1},
	}, nil)
	f.r.ProductRepo.On("FindByIDsForUpdate", mock.Anything, []int64{10, 11}).Return([]model.Product{
		{ID: 10, Cost: money("5.00"), StockCount: 3},
		{ID: 11, Cost: money("2.00"), StockCount: 3},
	}, nil)
	f.r.OrderRepo.On("Create", mock.Anything, mock.Anything).Return(int64(6), nil)
	f.r.OrderProductRepo.On("CreateBulk", mock.Anything, int64(6), mock.Anything).Return(nil)
	f.r.InventoryRepo.On("DecreaseStockIfEnough", mock.Anything, mock.Anything, int64(1)).Return(true, nil)
	f.r.InventoryRepo.On("CreateAdjustment", mock.Anything, mock.Anything).Return(nil)
	f.r.CartRepo.On("Clear", mock.Anything, int64(1)).Return(int64(0), nil)

	_, err := f.uc.Checkout(context.Background(), access.Principal{UserID: 1}, 1, usecase.CheckoutInput{})

	assertKind(t, err, usecase.KindValidation)
	assert.Equal(t, 0, f.tx.Committed)
	assert.Equal(t, []string{usecase.CheckoutCartChanged}, f.recorder.outcomes)
	f.r.CartRepo.AssertNotCalled(t, "ListLines", mock.Anything, mock.Anything)
}

func TestOrderUsecase_Checkout_AdminOnBehalfWritesAuditAndLogsTotalMismatch(t *testing.T) {
	f := newOrderFixture()
	admin := access.Principal{UserID: 9, IsAdmin: true, SessionID: "admin-session"}

	f.r.UserRepo.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	f.r.CartRepo.On("ListLinesForUpdate", mock.Anything, int64(1)).Return([]model.CartLine{{ProductID: 10, Quantity: 1}}, nil)
	f.r.ProductRepo.On("FindByIDsForUpdate", mock.Anything, []int64{10}).
		Return([]model.Product{{ID: 10, Cost: money("5.00"), StockCount: 3}}, nil)
	f.r.OrderRepo.On("Create", mock.Anything, mock.Anything).Return(int64(8), nil)
	f.r.OrderProductRepo.On("CreateBulk", mock.Anything, int64(8), mock.Anything).Return(nil)
	f.r.InventoryRepo.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(1)).Return(true, nil)
	f.r.InventoryRepo.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
		return a.ActorUserID == 9
	})).Return(nil)
	f.r.CartRepo.On("Clear", mock.Anything, int64(1)).Return(int64(1), nil)
	f.r.AuditLogRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorUserID == 9 && l.TargetUserID == 1 && l.Action == model.AuditActionCheckout && l.ResourceID == 8
	})).Return(nil)

	clientTotal := money("1.00")
	out, err := f.uc.Checkout(context.Background(), admin, 1, usecase.CheckoutInput{TotalCost: &clientTotal})
	require.NoError(t, err)

	//クライアントの合計は使わない
	assert.True(t, out.TotalCost.Equal(money("5.00")))
	require.NotNil(t, f.hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, f.hook.LastEntry().Level)
	assert.Equal(t, "1", f.hook.LastEntry().Data["client_total"])
	f.r.AssertExpectations(t)
}

func TestOrderUsecase_ListByUser_UnknownUser(t *testing.T) {
	f := newOrderFixture()
	f.users.On("Exists", mock.Anything, int64(5)).Return(false, nil)

	_, err := f.uc.ListByUser(context.Background(), 5)

	assertKind(t, err, usecase.KindNotFound)
	e, _ := usecase.AsError(err)
	assert.Equal(t, "Invalid order request", e.Message)
}

func TestOrderUsecase_GetOrderProducts(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, int64(8)).Return(model.Order{ID: 8, UserID: 1}, nil)
	f.lines.On("ListLinesByOrderID", mock.Anything, int64(8)).Return([]model.OrderLine{
		{OrderID: 8, ProductID: 10, Name: "Tee", Image: "tee.jpg", Cost: money("5.00"), Quantity: 1},
	}, nil)

	out, err := f.uc.GetOrderProducts(context.Background(), 1, 8)
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, int64(8), out[0].ID)
	assert.Equal(t, int64(10), out[0].ProductID)
	assert.Equal(t, "https://img/tee.jpg", out[0].Image)
}

// 他人の注文は見えない
func TestOrderUsecase_GetOrderProducts_OtherUsersOrder(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("FindByID", mock.Anything, int64(8)).Return(model.Order{ID: 8, UserID: 2}, nil)
	f.orders.On("FindByID", mock.Anything, int64(9)).Return(model.Order{}, repo.ErrNotFound)

	_, err := f.uc.GetOrderProducts(context.Background(), 1, 8)
	assertKind(t, err, usecase.KindNotFound)

	_, err = f.uc.GetOrderProducts(context.Background(), 1, 9)
	assertKind(t, err, usecase.KindNotFound)
	f.lines.AssertNotCalled(t, "ListLinesByOrderID", mock.Anything, mock.Anything)
}
