package handler

import (
	"errors"
	"net/http"
	"strconv"

	"threadshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// エラーも確認メッセージも {"message": "..."}
type MessageResponse struct {
	Message string `json:"message"`
}

func statusFor(kind usecase.ErrorKind) int {
	switch kind {
	case usecase.KindValidation, usecase.KindConflict, usecase.KindInsufficientStock:
		return http.StatusBadRequest
	case usecase.KindAuthenticationFailed:
		return http.StatusUnauthorized
	case usecase.KindAuthorizationFailed:
		return http.StatusForbidden
	case usecase.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// usecaseのエラーをHTTPに変換。
// 想定外のエラーはHTTPErrorにしてErrorHandler（とアクセスログ）に任せる
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if ue, ok := usecase.AsError(err); ok {
		return c.JSON(statusFor(ue.Kind), MessageResponse{Message: ue.Message})
	}

	//500
	return &echo.HTTPError{Code: http.StatusInternalServerError, Message: "internal error", Internal: err}
}

// echoのデフォルトの代わり。本文を {"message"} にそろえる
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(code)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, MessageResponse{Message: msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, MessageResponse{Message: msg})
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
