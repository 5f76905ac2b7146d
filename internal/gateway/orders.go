package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/shop_client/internal/models"
)

type CreateOrderRequest struct {
	UserID          int64  `json:"user_id"`
	CartID          int64  `json:"cart_id"`
	ShippingAddress string `json:"shipping_address"`
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	var out models.Order
	if err := c.do(ctx, http.MethodPost, "/orders/api/orders/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UserOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	var out []models.Order
	path := fmt.Sprintf("/orders/api/orders/user_orders/?user_id=%d", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Order(ctx context.Context, orderID int64) (*models.Order, error) {
	var out models.Order
	path := fmt.Sprintf("/orders/api/orders/%d/", orderID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	var out models.Order
	path := fmt.Sprintf("/orders/api/orders/%d/cancel/", orderID)
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
