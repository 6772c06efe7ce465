package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// 決済手段はカードのみ
const methodCard = "card"

// StripeGateway はPaymentIntentを作ってclient secretを返す
type StripeGateway struct {
	newIntent func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

func NewStripeGateway(secretKey string) *StripeGateway {
	sc := client.New(secretKey, nil)
	return &StripeGateway{newIntent: sc.PaymentIntents.New}
}

// amountは最小通貨単位（gbpならペンス）
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{methodCard}),
	}
	params.Context = ctx

	pi, err := g.newIntent(params)
	if err != nil {
		//Stripeのエラーはメッセージをそのまま返す
		var se *stripe.Error
		if errors.As(err, &se) && se.Msg != "" {
			return "", errors.New(se.Msg)
		}
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}
