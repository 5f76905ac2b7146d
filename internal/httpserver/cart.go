package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_client/internal/cart"
	"github.com/Skotchmaster/shop_client/internal/events"
	"github.com/Skotchmaster/shop_client/internal/logging"
	"github.com/Skotchmaster/shop_client/internal/models"
)

type CartHandler struct {
	Cart     *cart.Store
	Producer *events.Producer
}

type cartResponse struct {
	Cart       *models.Cart `json:"cart"`
	ItemsCount int          `json:"items_count"`
	Total      float64      `json:"total"`
	Open       bool         `json:"open"`
	Error      string       `json:"error,omitempty"`
}

func (h *CartHandler) snapshot() cartResponse {
	return cartResponse{
		Cart:       h.Cart.Current(),
		ItemsCount: h.Cart.ItemsCount(),
		Total:      h.Cart.Total(),
		Open:       h.Cart.IsOpen(),
		Error:      h.Cart.Err(),
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	h.Cart.Fetch(c.Request().Context())
	return c.JSON(http.StatusOK, h.snapshot())
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ProductID == 0 {
		l.Warn("add_to_cart_error", "status", 400)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id required"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.Cart.Add(ctx, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrQuantity) {
			l.Warn("add_to_cart_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return gatewayError(c, l, "add_to_cart_error", err)
	}
	if item == nil {
		// anonymous add, the store warned and skipped the backend
		l.Warn("add_to_cart_error", "status", 401)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please login to add items to cart"})
	}

	h.publish(ctx, c, "cart_item_added", item.ID)

	l.Info("item added successfully to cart", "item_id", item.ID)
	return c.JSON(http.StatusCreated, h.snapshot())
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	itemID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	if err := h.Cart.UpdateItem(ctx, itemID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, cart.ErrQuantity):
			l.Warn("update_cart_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, cart.ErrNotAuthenticated):
			l.Warn("update_cart_error", "status", 401)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
		default:
			return gatewayError(c, l, "update_cart_error", err)
		}
	}

	h.publish(ctx, c, "cart_item_updated", itemID)

	l.Info("cart updated", "item_id", itemID)
	return c.JSON(http.StatusOK, h.snapshot())
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	itemID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}

	if err := h.Cart.RemoveItem(ctx, itemID); err != nil {
		if errors.Is(err, cart.ErrNotAuthenticated) {
			l.Warn("remove_cart_error", "status", 401)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
		}
		return gatewayError(c, l, "remove_cart_error", err)
	}

	h.publish(ctx, c, "cart_item_removed", itemID)

	l.Info("item removed from cart", "item_id", itemID)
	return c.JSON(http.StatusOK, h.snapshot())
}

func (h *CartHandler) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	if err := h.Cart.Clear(ctx); err != nil {
		if errors.Is(err, cart.ErrNotAuthenticated) {
			l.Warn("clear_cart_error", "status", 401)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
		}
		return gatewayError(c, l, "clear_cart_error", err)
	}

	h.publish(ctx, c, "cart_cleared", 0)

	l.Info("cart successfully cleared")
	return c.JSON(http.StatusOK, h.snapshot())
}

func (h *CartHandler) Open(c echo.Context) error {
	h.Cart.Open()
	return c.JSON(http.StatusOK, h.snapshot())
}

func (h *CartHandler) Close(c echo.Context) error {
	h.Cart.Close()
	return c.JSON(http.StatusOK, h.snapshot())
}

func (h *CartHandler) publish(ctx context.Context, c echo.Context, eventType string, itemID int64) {
	event := map[string]any{
		"type":    eventType,
		"item_id": itemID,
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.Producer.PublishEvent(pubCtx, fmt.Sprint(itemID), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
