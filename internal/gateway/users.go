package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/shop_client/internal/models"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// ProfileUpdate is a partial update, omitted fields keep their value
// on the backend.
type ProfileUpdate struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

type AuthResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/users/api/users/register/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/users/api/users/login/", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/users/api/users/me/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*models.User, error) {
	var out models.User
	path := fmt.Sprintf("/users/api/users/%d/", userID)
	if err := c.do(ctx, http.MethodPut, path, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
