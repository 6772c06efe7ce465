package handler

import (
	"net/http"
	"time"

	"threadshop/internal/middleware"

	"github.com/labstack/echo/v4"
)

// セッションcookie（sid）の書き込み
type SessionCookies struct {
	TTL    time.Duration
	Secure bool
}

func (s SessionCookies) set(c echo.Context, token string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
		MaxAge:   int(s.TTL.Seconds()),
	})
}

func (s SessionCookies) clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}
