package handler

import (
	"net/http"

	"threadshop/internal/access"
	"threadshop/internal/middleware"
	"threadshop/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// dateとtotal_costは受け取るだけ（サーバー側で決める）
type checkoutRequest struct {
	Date      *string          `json:"date"`
	TotalCost *decimal.Decimal `json:"total_cost"`
}

type checkoutResponse struct {
	Message string              `json:"message"`
	Order   usecase.OrderOutput `json:"order"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/cart/:user_id/checkout", h.checkout, middleware.Guard(access.OwnerOrAdmin))

	e.GET("/orders", h.listAll, middleware.Guard(access.AdminOnly))
	g := e.Group("/orders/:user_id", middleware.Guard(access.OwnerOrAdmin))
	g.GET("", h.listByUser)
	g.GET("/:order_id", h.detail)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	userID, _ := middleware.TargetUserID(c)

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	out, err := h.uc.Checkout(c.Request().Context(), *middleware.PrincipalFrom(c), userID, usecase.CheckoutInput{
		Date:      req.Date,
		TotalCost: req.TotalCost,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, checkoutResponse{Message: "Order successfully submitted", Order: out})
}

func (h *OrderHandler) listAll(c echo.Context) error {
	out, err := h.uc.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listByUser(c echo.Context) error {
	userID, _ := middleware.TargetUserID(c)

	out, err := h.uc.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, _ := middleware.TargetUserID(c)

	orderID, ok := parseID(c.Param("order_id"))
	if !ok {
		return c.JSON(http.StatusNotFound, MessageResponse{Message: "Invalid order request"})
	}

	out, err := h.uc.GetOrderProducts(c.Request().Context(), userID, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
