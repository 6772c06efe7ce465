package handler

import (
	"net/http"

	"threadshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Stripe PaymentIntent
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type paymentIntentRequest struct {
	Items []usecase.PaymentItemInput `json:"items"`
}

type paymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type stripeConfigResponse struct {
	PublishableKey string `json:"publishableKey"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/create-payment-intent", h.createPaymentIntent)
	e.GET("/stripe-config", h.stripeConfig)
}

func (h *PaymentHandler) createPaymentIntent(c echo.Context) error {
	var req paymentIntentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	secret, err := h.uc.CreatePaymentIntent(c.Request().Context(), req.Items)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, paymentIntentResponse{ClientSecret: secret})
}

func (h *PaymentHandler) stripeConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, stripeConfigResponse{PublishableKey: h.uc.PublishableKey()})
}
