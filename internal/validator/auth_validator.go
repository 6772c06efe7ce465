package validator

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"threadshop/internal/usecase"
)

const (
	usernameMin = 3
	usernameMax = 50
	passwordMin = 8
	// bcryptは72バイトより後ろを無視する
	passwordMax = 72
)

type AuthValidator struct{}

func NewAuthValidator() *AuthValidator {
	return &AuthValidator{}
}

// 会員登録の入力を検証
func (v *AuthValidator) ValidateRegister(username string, password string) error {
	if err := v.ValidateUsername(username); err != nil {
		return err
	}
	return v.ValidatePassword(password)
}

// ログインの入力を検証
func (v *AuthValidator) ValidateLogin(username string, password string) error {
	// 必須チェック
	if strings.TrimSpace(username) == "" || password == "" {
		return usecase.NewError(usecase.KindValidation, "Username and password are required")
	}
	return nil
}

// 3〜50文字、空白なし
func (v *AuthValidator) ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < usernameMin || n > usernameMax {
		return usecase.NewError(usecase.KindValidation, "Username must be between 3 and 50 characters")
	}
	if strings.IndexFunc(username, unicode.IsSpace) >= 0 {
		return usecase.NewError(usecase.KindValidation, "Username must not contain spaces")
	}
	return nil
}

// パスワード最低文字数 8
func (v *AuthValidator) ValidatePassword(password string) error {
	if len(password) < passwordMin {
		return usecase.NewError(usecase.KindValidation, "Password must be at least 8 characters")
	}
	if len(password) > passwordMax {
		return usecase.NewError(usecase.KindValidation, "Password must be at most 72 bytes")
	}
	return nil
}
