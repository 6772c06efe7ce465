package handler

import (
	"net/http"
	"strconv"

	"threadshop/internal/access"
	"threadshop/internal/middleware"
	"threadshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// アカウント管理（本人か管理者）
type UserHandler struct {
	uc      *usecase.UserUsecase
	cookies SessionCookies
}

func NewUserHandler(uc *usecase.UserUsecase, cookies SessionCookies) *UserHandler {
	return &UserHandler{uc: uc, cookies: cookies}
}

type changePasswordRequest struct {
	Password string `json:"password"`
}

func (h *UserHandler) RegisterRoutes(e *echo.Echo) {
	// /users 一覧と監査ログは管理者だけ
	e.GET("/users", h.list, middleware.Guard(access.AdminOnly))
	e.GET("/audit-logs", h.auditLogs, middleware.Guard(access.AdminOnly))

	g := e.Group("/users/:user_id", middleware.Guard(access.OwnerOrAdmin))
	g.GET("", h.get)
	g.PUT("", h.changePassword)
	g.DELETE("", h.delete)
}

func (h *UserHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) get(c echo.Context) error {
	userID, _ := middleware.TargetUserID(c)

	out, err := h.uc.Get(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) changePassword(c echo.Context) error {
	userID, _ := middleware.TargetUserID(c)

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	actor := middleware.PrincipalFrom(c)
	if err := h.uc.ChangePassword(c.Request().Context(), *actor, userID, req.Password); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Password updated successfully"})
}

// 自分を消したときはcookieも消す
func (h *UserHandler) delete(c echo.Context) error {
	userID, _ := middleware.TargetUserID(c)
	actor := middleware.PrincipalFrom(c)

	if err := h.uc.Delete(c.Request().Context(), *actor, userID); err != nil {
		return writeError(c, err)
	}
	if !actor.ActsOnBehalfOf(userID) {
		h.cookies.clear(c)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) auditLogs(c echo.Context) error {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return badRequest(c, "Invalid limit")
	}
	offset, ok := queryInt(c, "offset")
	if !ok {
		return badRequest(c, "Invalid offset")
	}

	out, err := h.uc.ListAuditLogs(c.Request().Context(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 未指定は0
func queryInt(c echo.Context, name string) (int, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, true
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}
