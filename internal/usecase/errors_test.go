package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsError_Wrapped(t *testing.T) {
	err := fmt.Errorf("checkout: %w", NewError(KindInsufficientStock, "Not enough stock to complete order"))

	ue, ok := AsError(err)
	assert.True(t, ok)
	assert.Equal(t, KindInsufficientStock, ue.Kind)
	assert.True(t, IsKind(err, KindInsufficientStock))
}

func TestInternal_KeepsUsecaseErrorsAndWrapsOthers(t *testing.T) {
	ue := NewError(KindNotFound, "Invalid user ID")
	assert.Same(t, ue, internal(ue))

	cause := errors.New("connection reset")
	err := internal(cause)
	assert.ErrorIs(t, err, cause)
	_, ok := AsError(err)
	assert.False(t, ok)

	assert.NoError(t, internal(nil))
}
