package handler

import (
	"net/http"

	"threadshop/internal/access"
	"threadshop/internal/middleware"
	"threadshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cart/:user_id のHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type cartItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

// ログイン前のローカルカート（idは商品ID）
type replaceCartRequest struct {
	Items []struct {
		ID       int64 `json:"id"`
		Quantity int64 `json:"quantity"`
	} `json:"items"`
}

// /cart/:user_id, /cart/:user_id/:product_id を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/cart/:user_id", middleware.Guard(access.OwnerOrAdmin))

	g.GET("", h.getCart)
	g.POST("", h.setItem)
	g.POST("/increment", h.incrementItem)
	g.PUT("", h.replaceCart)
	g.DELETE("", h.clearCart)
	g.PUT("/:product_id", h.updateItem)
	g.DELETE("/:product_id", h.deleteItem)
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, _ := middleware.TargetUserID(c)

	out, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 数量は上書き
func (h *CartHandler) setItem(c echo.Context) error {
	userID, _ := middleware.TargetUserID(c)

	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	out, err := h.uc.SetItem(c.Request().Context(), userID, usecase.CartLineInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// 数量は加算
func (h *CartHandler) incrementItem(c echo.Context) error {
	userID, _ := middleware.TargetUserID(c)

	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	out, err := h.uc.IncrementItem(c.Request().Context(), userID, usecase.CartLineInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CartHandler) replaceCart(c echo.Context) error {
	userID, _ := middleware.TargetUserID(c)

	var req replaceCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	items := make([]usecase.CartLineInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.CartLineInput{ProductID: it.ID, Quantity: it.Quantity})
	}

	out, err := h.uc.ReplaceItems(c.Request().Context(), userID, items)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	userID, _ := middleware.TargetUserID(c)

	productID, ok := parseID(c.Param("product_id"))
	if !ok {
		return badRequest(c, "Invalid product ID")
	}

	var req updateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	out, err := h.uc.UpdateItem(c.Request().Context(), userID, usecase.CartLineInput{
		ProductID: productID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	userID, _ := middleware.TargetUserID(c)

	productID, ok := parseID(c.Param("product_id"))
	if !ok {
		return badRequest(c, "Invalid product ID")
	}

	if err := h.uc.RemoveItem(c.Request().Context(), userID, productID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) clearCart(c echo.Context) error {
	userID, _ := middleware.TargetUserID(c)

	if err := h.uc.ClearCart(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
