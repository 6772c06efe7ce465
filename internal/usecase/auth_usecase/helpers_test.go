package auth_test

import (
	"time"

	"github.com/stretchr/testify/mock"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fixedID string

func (id fixedID) NewID() string { return string(id) }

type verifierMock struct{ mock.Mock }

func (m *verifierMock) Verify(plain string, hashed string) bool {
	args := m.Called(plain, hashed)
	return args.Bool(0)
}

type hasherMock struct{ mock.Mock }

func (m *hasherMock) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

const testSecret = "test-session-secret-0123456789"
