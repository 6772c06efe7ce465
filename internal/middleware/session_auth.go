package middleware

import (
	"context"
	"net/http"

	"threadshop/internal/access"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	SessionCookieName = "sid"

	CtxPrincipalKey    = "principal"      // *access.Principal
	CtxTargetUserIDKey = "target_user_id" // int64
)

// 署名済みcookieからセッションを復元する
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*access.Principal, error)
}

// sid cookieを読んでPrincipalをcontextに入れる。
// cookieが無い・無効なら匿名のまま通す（拒否はGuardの仕事）
func LoadSession(auth Authenticator, log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			p, err := auth.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil {
				log.WithError(err).WithField("request_id", RequestID(c)).Error("load session failed")
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}
			if p != nil {
				c.Set(CtxPrincipalKey, p)
			}
			return next(c)
		}
	}
}

// ログイン中ならPrincipal、匿名ならnil
func PrincipalFrom(c echo.Context) *access.Principal {
	p, _ := c.Get(CtxPrincipalKey).(*access.Principal)
	return p
}

// Guardが検証済みの :user_id
func TargetUserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(CtxTargetUserIDKey).(int64)
	return id, ok
}

func RequestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

type errorResponse struct {
	Message string `json:"message"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Message: msg}
}
