package usecase_test

import (
	"context"
	"testing"
	"time"

	"threadshop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type signerMock struct{ mock.Mock }

func (m *signerMock) SignedURL(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

// "https://img/<key>" を返す
type prefixSigner struct{}

func (prefixSigner) SignedURL(_ context.Context, key string) (string, bool, error) {
	return "https://img/" + key, true, nil
}

type recorderMock struct {
	outcomes []string
}

func (r *recorderMock) RecordCheckout(outcome string) {
	r.outcomes = append(r.outcomes, outcome)
}

type hasherMock struct{ mock.Mock }

func (m *hasherMock) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

type gatewayMock struct{ mock.Mock }

func (m *gatewayMock) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	args := m.Called(ctx, amount, currency)
	return args.String(0), args.Error(1)
}

func assertKind(t *testing.T, err error, kind usecase.ErrorKind) {
	t.Helper()
	if assert.Error(t, err) {
		ue, ok := usecase.AsError(err)
		if assert.True(t, ok, "expected usecase.Error, got %v", err) {
			assert.Equal(t, kind, ue.Kind)
		}
	}
}
