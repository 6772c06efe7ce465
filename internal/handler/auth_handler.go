package handler

import (
	"net/http"

	"threadshop/internal/middleware"
	auth "threadshop/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
	logoutUC   *auth.LogoutUsecase
	cookies    SessionCookies
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	logoutUC *auth.LogoutUsecase,
	cookies SessionCookies,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		logoutUC:   logoutUC,
		cookies:    cookies,
	}
}

// /register のリクエストボディ。
type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// /login のリクエストボディ。
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Username string `json:"username"`
	UserID   int64  `json:"userID"`
}

// limiterは /register と /login だけにかける
func (h *AuthHandler) RegisterRoutes(e *echo.Echo, limiter echo.MiddlewareFunc) {
	e.POST("/register", h.register, limiter)
	e.POST("/login", h.login, limiter)
	e.POST("/logout", h.logout)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	_, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "Account created successfully"})
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Username:  req.Username,
		Password:  req.Password,
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return writeError(c, err)
	}

	h.cookies.set(c, out.SessionToken, out.ExpiresAt)
	return c.JSON(http.StatusOK, loginResponse{Username: out.Username, UserID: out.UserID})
}

// セッションが無くても200
func (h *AuthHandler) logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.logoutUC.Execute(c.Request().Context(), cookie.Value); err != nil {
			return writeError(c, err)
		}
	}

	h.cookies.clear(c)
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged Out"})
}
