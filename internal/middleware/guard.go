package middleware

import (
	"net/http"
	"strconv"

	"threadshop/internal/access"

	"github.com/labstack/echo/v4"
)

// ルートごとの認可。guardは毎リクエスト評価する
func Guard(guards ...access.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := access.Request{Principal: PrincipalFrom(c)}

			//:user_idがあるルートだけ対象ユーザーを決める
			if raw := c.Param("user_id"); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || id <= 0 {
					return c.JSON(http.StatusBadRequest, errorJSON("Invalid user ID"))
				}
				req.TargetUserID = &id
				c.Set(CtxTargetUserIDKey, id)
			}

			d := access.Evaluate(req, guards...)
			if d.Allowed {
				return next(c)
			}
			if d.Kind == access.KindAuthentication {
				return c.JSON(http.StatusUnauthorized, errorJSON(d.Reason))
			}
			return c.JSON(http.StatusForbidden, errorJSON(d.Reason))
		}
	}
}
