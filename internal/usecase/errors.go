package usecase

import (
	"errors"
	"fmt"
)

// エラーの種類（HTTPステータスへの対応はhandler側）
type ErrorKind string

const (
	KindValidation           ErrorKind = "validation"
	KindAuthenticationFailed ErrorKind = "authentication_failed"
	KindAuthorizationFailed  ErrorKind = "authorization_failed"
	KindNotFound             ErrorKind = "not_found"
	KindConflict             ErrorKind = "conflict"
	KindInsufficientStock    ErrorKind = "insufficient_stock"
)

// Errorはクライアントに返してよいメッセージを持つ
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind ErrorKind, message string) error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

func AsError(err error) (*Error, bool) {
	var ue *Error
	ok := errors.As(err, &ue)
	return ue, ok
}

// 種類が一致するか
func IsKind(err error, kind ErrorKind) bool {
	ue, ok := AsError(err)
	return ok && ue.Kind == kind
}

// 想定外のエラー。原因はログ用に包んでおく
type internalError struct {
	cause error
}

func (e *internalError) Error() string { return "internal: " + e.cause.Error() }
func (e *internalError) Unwrap() error { return e.cause }

func internal(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsError(err); ok {
		return err
	}
	return &internalError{cause: err}
}
