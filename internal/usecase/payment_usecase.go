package usecase

import (
	"context"

	"threadshop/internal/domain/model"
	repo "threadshop/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// 決済代行（Stripe）
type PaymentGateway interface {
	// amountは最小通貨単位
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (clientSecret string, err error)
}

// idがあればカタログの価格を使う
type PaymentItemInput struct {
	ID       *int64          `json:"id"`
	Cost     decimal.Decimal `json:"cost"`
	Quantity int64           `json:"quantity"`
}

type PaymentUsecase struct {
	productRepo    repo.ProductRepository
	gateway        PaymentGateway
	currency       string
	publishableKey string
	log            logrus.FieldLogger
}

func NewPaymentUsecase(
	productRepo repo.ProductRepository,
	gateway PaymentGateway,
	currency string,
	publishableKey string,
	log logrus.FieldLogger,
) *PaymentUsecase {
	return &PaymentUsecase{
		productRepo:    productRepo,
		gateway:        gateway,
		currency:       currency,
		publishableKey: publishableKey,
		log:            log,
	}
}

// 合計金額からPaymentIntentを作りclient secretを返す
func (u *PaymentUsecase) CreatePaymentIntent(ctx context.Context, items []PaymentItemInput) (string, error) {
	if len(items) == 0 {
		return "", NewError(KindValidation, "No items to pay for")
	}

	ids := []int64{}
	for _, it := range items {
		if it.Quantity <= 0 {
			return "", NewError(KindValidation, "Invalid quantity")
		}
		if it.ID != nil {
			ids = append(ids, *it.ID)
			continue
		}
		if it.Cost.IsNegative() {
			return "", NewError(KindValidation, "Invalid cost")
		}
	}

	prices := map[int64]decimal.Decimal{}
	if len(ids) > 0 {
		products, err := u.productRepo.FindByIDs(ctx, ids)
		if err != nil {
			return "", internal(err)
		}
		for _, p := range products {
			prices[p.ID] = p.Cost
		}
	}

	total := decimal.Zero
	for _, it := range items {
		cost := it.Cost
		if it.ID != nil {
			p, ok := prices[*it.ID]
			if !ok {
				return "", NewError(KindValidation, "Invalid product ID")
			}
			cost = p
		}
		total = total.Add(cost.Mul(decimal.NewFromInt(it.Quantity)))
	}

	if !model.FitsMinorUnits(total) {
		return "", NewError(KindValidation, "Amount too large")
	}

	secret, err := u.gateway.CreatePaymentIntent(ctx, model.MinorUnits(total), u.currency)
	if err != nil {
		u.log.WithError(err).WithField("amount", total.StringFixed(2)).Warn("create payment intent failed")
		return "", NewError(KindValidation, err.Error())
	}
	return secret, nil
}

func (u *PaymentUsecase) PublishableKey() string {
	return u.publishableKey
}
