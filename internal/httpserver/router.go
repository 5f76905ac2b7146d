package httpserver

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_client/internal/cart"
	"github.com/Skotchmaster/shop_client/internal/events"
	"github.com/Skotchmaster/shop_client/internal/gateway"
	"github.com/Skotchmaster/shop_client/internal/session"
)

type Deps struct {
	Session  *session.Store
	Cart     *cart.Store
	Gateway  *gateway.Client
	Producer *events.Producer
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func Register(e *echo.Echo, d *Deps) {
	e.Validator = NewValidator()

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	sessionHandler := &SessionHandler{Session: d.Session, Producer: d.Producer}
	cartHandler := &CartHandler{Cart: d.Cart, Producer: d.Producer}
	catalogHandler := &CatalogHandler{Gateway: d.Gateway}
	orderHandler := &OrderHandler{Session: d.Session, Gateway: d.Gateway, Producer: d.Producer}
	paymentHandler := &PaymentHandler{Session: d.Session, Gateway: d.Gateway}

	v1 := e.Group("/api/v1")

	v1.POST("/session/login", sessionHandler.Login)
	v1.POST("/session/register", sessionHandler.Register)
	v1.DELETE("/session", sessionHandler.Logout)
	v1.GET("/session", sessionHandler.Current)
	v1.PUT("/profile", sessionHandler.UpdateProfile)

	cartGroup := v1.Group("/cart")

	cartGroup.GET("", cartHandler.GetCart)
	cartGroup.POST("/items", cartHandler.AddItem)
	cartGroup.PUT("/items/:id", cartHandler.UpdateItem)
	cartGroup.DELETE("/items/:id", cartHandler.RemoveItem)
	cartGroup.DELETE("/items", cartHandler.Clear)
	cartGroup.POST("/open", cartHandler.Open)
	cartGroup.POST("/close", cartHandler.Close)

	products := v1.Group("/products")

	products.GET("", catalogHandler.Products)
	products.GET("/categories", catalogHandler.Categories)
	products.GET("/by_category", catalogHandler.ProductsByCategory)
	products.GET("/:id", catalogHandler.Product)

	orders := v1.Group("/orders")

	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/:id/cancel", orderHandler.Cancel)

	payments := v1.Group("/payments")

	payments.POST("", paymentHandler.Create)
	payments.GET("", paymentHandler.List)
	payments.GET("/order/:orderID", paymentHandler.ForOrder)
	payments.POST("/:id/refund", paymentHandler.Refund)
}
