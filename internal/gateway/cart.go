package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/shop_client/internal/models"
)

type AddCartItemRequest struct {
	Cart      int64 `json:"cart"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (c *Client) UserCart(ctx context.Context, userID int64) (*models.Cart, error) {
	var out models.Cart
	path := fmt.Sprintf("/cart/api/carts/user/?user_id=%d", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddCartItem(ctx context.Context, req AddCartItemRequest) (*models.CartItem, error) {
	var out models.CartItem
	if err := c.do(ctx, http.MethodPost, "/cart/api/cart-items/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*models.CartItem, error) {
	var out models.CartItem
	path := fmt.Sprintf("/cart/api/cart-items/%d/", itemID)
	body := map[string]int{"quantity": quantity}
	if err := c.do(ctx, http.MethodPut, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	path := fmt.Sprintf("/cart/api/cart-items/%d/", itemID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) ClearCart(ctx context.Context, cartID int64) error {
	path := fmt.Sprintf("/cart/api/cart-items/clear_cart/?cart_id=%d", cartID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
