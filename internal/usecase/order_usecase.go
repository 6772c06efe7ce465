package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"threadshop/internal/access"
	"threadshop/internal/domain/model"
	repo "threadshop/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	invalidOrderRequest = "Invalid order request"
	notEnoughStock      = "Not enough stock to complete order"
	cartChangedMessage  = "Cart changed during checkout"
)

// チェックアウト結果のラベル（metrics用）
const (
	CheckoutSucceeded         = "success"
	CheckoutEmptyCart         = "empty_cart"
	CheckoutCartChanged       = "cart_changed"
	CheckoutInsufficientStock = "insufficient_stock"
	CheckoutRejected          = "rejected"
	CheckoutFailed            = "error"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

type CheckoutRecorder interface {
	RecordCheckout(outcome string)
}

type OrderUsecase struct {
	tx               repo.TransactionManager
	userRepo         repo.UserRepository
	orderRepo        repo.OrderRepository
	orderProductRepo repo.OrderProductRepository
	clock            Clock
	recorder         CheckoutRecorder
	images           *imageURLs
	log              logrus.FieldLogger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	userRepo repo.UserRepository,
	orderRepo repo.OrderRepository,
	orderProductRepo repo.OrderProductRepository,
	clock Clock,
	recorder CheckoutRecorder,
	signer ImageSigner,
	log logrus.FieldLogger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:               tx,
		userRepo:         userRepo,
		orderRepo:        orderRepo,
		orderProductRepo: orderProductRepo,
		clock:            clock,
		recorder:         recorder,
		images:           &imageURLs{signer: signer, log: log},
		log:              log,
	}
}

// クライアントが送るdate/total_costは互換のため受け取るだけ
type CheckoutInput struct {
	Date      *string
	TotalCost *decimal.Decimal
}

type OrderLineOutput struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"cost"`
}

type OrderOutput struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id"`
	Date      time.Time         `json:"date"`
	TotalCost decimal.Decimal   `json:"total_cost"`
	Items     []OrderLineOutput `json:"items,omitempty"`
}

// idは注文ID
type OrderProductOutput struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Cost      decimal.Decimal `json:"cost"`
	Quantity  int64           `json:"quantity"`
}

// カート -> 注文 をすべて1トランザクションで行う
// 在庫不足が1行でもあれば何も書かない
func (u *OrderUsecase) Checkout(ctx context.Context, actor access.Principal, userID int64, in CheckoutInput) (OrderOutput, error) {
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ok, err := r.Users().Exists(ctx, userID)
		if err != nil {
			return internal(err)
		}
		if !ok {
			return NewError(KindNotFound, invalidCartRequest)
		}

		//カート行をロック（同じカートの二重注文を防ぐ）
		lines, err := r.Carts().ListLinesForUpdate(ctx, userID)
		if err != nil {
			return internal(err)
		}
		if len(lines) == 0 {
			return NewError(KindValidation, "Cart is empty")
		}

		//行ロック（ListLinesはproduct_id順）
		ids := make([]int64, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.ProductID)
		}
		products, err := r.Products().FindByIDsForUpdate(ctx, ids)
		if err != nil {
			return internal(err)
		}
		byID := make(map[int64]model.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		//全行の在庫を先に確認
		short := []int64{}
		total := decimal.Zero
		orderLines := make([]model.OrderProduct, 0, len(lines))
		for _, l := range lines {
			p, found := byID[l.ProductID]
			if !found || p.StockCount < l.Quantity {
				short = append(short, l.ProductID)
				continue
			}
			total = total.Add(p.Cost.Mul(decimal.NewFromInt(l.Quantity)))
			orderLines = append(orderLines, model.OrderProduct{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitCost:  p.Cost,
			})
		}
		if len(short) > 0 {
			return insufficientStock(short)
		}

		// 注文作成
		now := u.clock.Now()
		order := model.Order{
			UserID:    userID,
			Date:      now,
			TotalCost: total,
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return internal(err)
		}
		order.ID = orderID

		//注文明細一括作成
		if err := r.OrderProducts().CreateBulk(ctx, orderID, orderLines); err != nil {
			return internal(err)
		}

		//在庫減算（足りないなら false -> rollback）
		for _, ol := range orderLines {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, ol.ProductID, ol.Quantity)
			if err != nil {
				return internal(err)
			}
			if !ok {
				return insufficientStock([]int64{ol.ProductID})
			}
			if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
				ProductID:   ol.ProductID,
				OrderID:     &orderID,
				ActorUserID: actor.UserID,
				Delta:       -ol.Quantity,
				Reason:      model.AdjustmentReasonCheckout,
			}); err != nil {
				return internal(err)
			}
		}

		cleared, err := r.Carts().Clear(ctx, userID)
		if err != nil {
			return internal(err)
		}
		if cleared != int64(len(lines)) {
			return NewError(KindValidation, cartChangedMessage)
		}

		//管理者が代理で注文した場合
		if actor.ActsOnBehalfOf(userID) {
			detail, _ := json.Marshal(map[string]interface{}{"total_cost": total.StringFixed(2)})
			if err := r.AuditLogs().Create(ctx, model.AuditLog{
				ActorUserID:  actor.UserID,
				Action:       model.AuditActionCheckout,
				ResourceType: model.AuditResourceOrder,
				ResourceID:   orderID,
				TargetUserID: userID,
				DetailJSON:   string(detail),
				CreatedAt:    now,
			}); err != nil {
				return internal(err)
			}
		}

		out = toOrderOutput(order)
		for _, ol := range orderLines {
			out.Items = append(out.Items, OrderLineOutput{ProductID: ol.ProductID, Quantity: ol.Quantity, UnitCost: ol.UnitCost})
		}
		return nil
	})

	u.recorder.RecordCheckout(checkoutOutcome(err))
	if err != nil {
		return OrderOutput{}, err
	}

	if in.TotalCost != nil && !in.TotalCost.Equal(out.TotalCost) {
		u.log.WithFields(logrus.Fields{
			"user_id":       userID,
			"order_id":      out.ID,
			"client_total":  in.TotalCost.String(),
			"charged_total": out.TotalCost.String(),
		}).Warn("client total_cost differs from computed total")
	}
	return out, nil
}

// 管理者用の注文一覧
func (u *OrderUsecase) ListAll(ctx context.Context) ([]OrderOutput, error) {
	orders, err := u.orderRepo.ListAll(ctx)
	if err != nil {
		return []OrderOutput{}, internal(err)
	}
	return toOrderOutputs(orders), nil
}

func (u *OrderUsecase) ListByUser(ctx context.Context, userID int64) ([]OrderOutput, error) {
	ok, err := u.userRepo.Exists(ctx, userID)
	if err != nil {
		return []OrderOutput{}, internal(err)
	}
	if !ok {
		return []OrderOutput{}, NewError(KindNotFound, invalidOrderRequest)
	}

	orders, err := u.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return []OrderOutput{}, internal(err)
	}
	return toOrderOutputs(orders), nil
}

// 注文明細（他人の注文は「存在しない扱い」）
func (u *OrderUsecase) GetOrderProducts(ctx context.Context, userID, orderID int64) ([]OrderProductOutput, error) {
	if orderID <= 0 {
		return []OrderProductOutput{}, NewError(KindNotFound, invalidOrderRequest)
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return []OrderProductOutput{}, NewError(KindNotFound, invalidOrderRequest)
	}
	if err != nil {
		return []OrderProductOutput{}, internal(err)
	}
	if o.UserID != userID {
		return []OrderProductOutput{}, NewError(KindNotFound, invalidOrderRequest)
	}

	lines, err := u.orderProductRepo.ListLinesByOrderID(ctx, orderID)
	if err != nil {
		return []OrderProductOutput{}, internal(err)
	}

	out := make([]OrderProductOutput, 0, len(lines))
	for _, l := range lines {
		out = append(out, OrderProductOutput{
			ID:        l.OrderID,
			ProductID: l.ProductID,
			Name:      l.Name,
			Image:     u.images.url(ctx, l.Image),
			Cost:      l.Cost,
			Quantity:  l.Quantity,
		})
	}
	return out, nil
}

func insufficientStock(productIDs []int64) error {
	ids := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		ids = append(ids, fmt.Sprint(id))
	}
	return NewError(KindInsufficientStock, fmt.Sprintf("%s (product ids: %s)", notEnoughStock, strings.Join(ids, ", ")))
}

func checkoutOutcome(err error) string {
	if err == nil {
		return CheckoutSucceeded
	}
	ue, ok := AsError(err)
	if !ok {
		return CheckoutFailed
	}
	switch ue.Kind {
	case KindInsufficientStock:
		return CheckoutInsufficientStock
	case KindValidation:
		if ue.Message == cartChangedMessage {
			return CheckoutCartChanged
		}
		return CheckoutEmptyCart
	default:
		return CheckoutRejected
	}
}

func toOrderOutput(o model.Order) OrderOutput {
	return OrderOutput{
		ID:        o.ID,
		UserID:    o.UserID,
		Date:      o.Date,
		TotalCost: o.TotalCost,
	}
}

func toOrderOutputs(orders []model.Order) []OrderOutput {
	out := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderOutput(o))
	}
	return out
}
