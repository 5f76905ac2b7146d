package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/shop_client/internal/models"
)

type CreatePaymentRequest struct {
	OrderID int64   `json:"order_id"`
	Amount  float64 `json:"amount"`
	Method  string  `json:"method"`
}

func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*models.Payment, error) {
	var out models.Payment
	if err := c.do(ctx, http.MethodPost, "/payments/api/payments/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OrderPayment(ctx context.Context, orderID int64) (*models.Payment, error) {
	var out models.Payment
	path := fmt.Sprintf("/payments/api/payments/order_payment/?order_id=%d", orderID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UserPayments(ctx context.Context, userID int64) ([]models.Payment, error) {
	var out []models.Payment
	path := fmt.Sprintf("/payments/api/payments/user_payments/?user_id=%d", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RequestRefund(ctx context.Context, paymentID int64) (*models.Payment, error) {
	var out models.Payment
	path := fmt.Sprintf("/payments/api/payments/%d/refund/", paymentID)
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
