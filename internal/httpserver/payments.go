package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_client/internal/gateway"
	"github.com/Skotchmaster/shop_client/internal/logging"
	"github.com/Skotchmaster/shop_client/internal/session"
)

type PaymentHandler struct {
	Session *session.Store
	Gateway *gateway.Client
}

func (h *PaymentHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payments.create")

	if h.Session.CurrentUser() == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}

	var req struct {
		OrderID int64   `json:"order_id" validate:"required"`
		Amount  float64 `json:"amount" validate:"required,gt=0"`
		Method  string  `json:"method" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("create_payment_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	payment, err := h.Gateway.CreatePayment(ctx, gateway.CreatePaymentRequest{
		OrderID: req.OrderID,
		Amount:  req.Amount,
		Method:  req.Method,
	})
	if err != nil {
		return gatewayError(c, l, "create_payment_error", err)
	}

	l.Info("payment created", "payment_id", payment.ID)
	return c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payments.list")

	user := h.Session.CurrentUser()
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}

	payments, err := h.Gateway.UserPayments(ctx, user.ID)
	if err != nil {
		return gatewayError(c, l, "list_payments_error", err)
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) ForOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payments.for_order")

	if h.Session.CurrentUser() == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}

	orderID, err := paramID(c, "orderID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	payment, err := h.Gateway.OrderPayment(ctx, orderID)
	if err != nil {
		return gatewayError(c, l, "order_payment_error", err)
	}
	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) Refund(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payments.refund")

	if h.Session.CurrentUser() == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}

	paymentID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}

	payment, err := h.Gateway.RequestRefund(ctx, paymentID)
	if err != nil {
		return gatewayError(c, l, "refund_error", err)
	}

	l.Info("refund requested", "payment_id", paymentID)
	return c.JSON(http.StatusOK, payment)
}
