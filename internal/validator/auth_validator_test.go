package validator

import (
	"strings"
	"testing"

	"threadshop/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestAuthValidator_ValidateRegister(t *testing.T) {
	v := NewAuthValidator()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"ok", "alice", "password1", false},
		{"short username", "al", "password1", true},
		{"long username", strings.Repeat("a", 51), "password1", true},
		{"username with space", "ali ce", "password1", true},
		{"short password", "alice", "1234567", true},
		{"password too long", "alice", strings.Repeat("p", 73), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateRegister(tt.username, tt.password)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, usecase.IsKind(err, usecase.KindValidation))
		})
	}
}

func TestAuthValidator_ValidateLogin_Required(t *testing.T) {
	v := NewAuthValidator()

	assert.Error(t, v.ValidateLogin(" ", "x"))
	assert.Error(t, v.ValidateLogin("alice", ""))
	assert.NoError(t, v.ValidateLogin("alice", "x"))
}
