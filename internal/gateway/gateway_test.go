package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_client/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestLogin_SendsCredentialsAndDecodesResponse(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/users/api/users/login/", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "alice", body["username"])
		require.Equal(t, "secret", body["password"])

		json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]any{"id": 7, "username": "alice"},
			"token": "t1",
		})
	})

	resp, err := c.Login(context.Background(), Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.User.ID)
	assert.Equal(t, "t1", resp.Token)
}

func TestDo_AttachesBearerTokenWhenPresent(t *testing.T) {
	t.Parallel()

	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(models.User{ID: 7})
	})
	c.UseTokenSource(func() string { return "t1" })

	_, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer t1", gotAuth)
}

func TestDo_NoAuthHeaderWhenAnonymous(t *testing.T) {
	t.Parallel()

	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(models.User{ID: 7})
	})
	c.UseTokenSource(func() string { return "" })

	_, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestErrorBody_BecomesAPIError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
	})

	_, err := c.Login(context.Background(), Credentials{Username: "alice", Password: "bad"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid credentials", apiErr.Message)
}

func TestErrorWithoutBody_FallsBackToStatus(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.CurrentUser(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "request failed with status 500", apiErr.Message)
}

func TestMessage_PrefersBackendMessage(t *testing.T) {
	t.Parallel()

	err := &APIError{Status: 409, Message: "user already exists"}
	assert.Equal(t, "user already exists", Message(err, "Registration failed"))
	assert.Equal(t, "Registration failed", Message(context.DeadlineExceeded, "Registration failed"))
}

func TestUserCart_BuildsQuery(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cart/api/carts/user/", r.URL.Path)
		require.Equal(t, "7", r.URL.Query().Get("user_id"))
		json.NewEncoder(w).Encode(models.Cart{ID: 11, Total: 30})
	})

	cart, err := c.UserCart(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(11), cart.ID)
	assert.Equal(t, 30.0, cart.Total)
}

func TestAddCartItem_PostsExpectedBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/cart/api/cart-items/", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.EqualValues(t, 11, body["cart"])
		require.EqualValues(t, 42, body["product_id"])
		require.EqualValues(t, 2, body["quantity"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.CartItem{ID: 5, Quantity: 2})
	})

	item, err := c.AddCartItem(context.Background(), AddCartItemRequest{Cart: 11, ProductID: 42, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.ID)
}

func TestRemoveCartItem_NoContentResponse(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/cart/api/cart-items/5/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.RemoveCartItem(context.Background(), 5))
}

func TestClearCart_BuildsQuery(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cart/api/cart-items/clear_cart/", r.URL.Path)
		require.Equal(t, "11", r.URL.Query().Get("cart_id"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.ClearCart(context.Background(), 11))
}

func TestProducts_QueryParams(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products/api/products/", r.URL.Path)
		require.Equal(t, "mug", r.URL.Query().Get("search"))
		require.Equal(t, "3", r.URL.Query().Get("category_id"))
		json.NewEncoder(w).Encode([]models.Product{{ID: 42, Name: "mug"}})
	})

	products, err := c.Products(context.Background(), ProductQuery{Search: "mug", CategoryID: 3})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "mug", products[0].Name)
}

func TestCancelOrder_Path(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders/api/orders/3/cancel/", r.URL.Path)
		json.NewEncoder(w).Encode(models.Order{ID: 3, Status: "cancelled"})
	})

	order, err := c.CancelOrder(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", order.Status)
}
