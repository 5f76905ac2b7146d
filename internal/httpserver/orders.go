package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_client/internal/events"
	"github.com/Skotchmaster/shop_client/internal/gateway"
	"github.com/Skotchmaster/shop_client/internal/logging"
	"github.com/Skotchmaster/shop_client/internal/session"
)

type OrderHandler struct {
	Session  *session.Store
	Gateway  *gateway.Client
	Producer *events.Producer
}

func (h *OrderHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.create")

	user := h.Session.CurrentUser()
	if user == nil {
		l.Warn("create_order_error", "status", 401)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}

	var req struct {
		CartID          int64  `json:"cart_id" validate:"required"`
		ShippingAddress string `json:"shipping_address" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.Gateway.CreateOrder(ctx, gateway.CreateOrderRequest{
		UserID:          user.ID,
		CartID:          req.CartID,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		return gatewayError(c, l, "create_order_error", err)
	}

	event := map[string]any{
		"type":     "order_created",
		"order_id": order.ID,
		"user_id":  user.ID,
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(pubCtx, fmt.Sprint(order.ID), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}

	l.Info("order created", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.list")

	user := h.Session.CurrentUser()
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}

	orders, err := h.Gateway.UserOrders(ctx, user.ID)
	if err != nil {
		return gatewayError(c, l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.get")

	if h.Session.CurrentUser() == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}

	orderID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	order, err := h.Gateway.Order(ctx, orderID)
	if err != nil {
		return gatewayError(c, l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.cancel")

	if h.Session.CurrentUser() == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}

	orderID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	order, err := h.Gateway.CancelOrder(ctx, orderID)
	if err != nil {
		return gatewayError(c, l, "cancel_order_error", err)
	}

	l.Info("order cancelled", "order_id", orderID)
	return c.JSON(http.StatusOK, order)
}
