package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_client/internal/gateway"
	"github.com/Skotchmaster/shop_client/internal/logging"
)

// CatalogHandler passes product reads straight through to the backend,
// the client keeps no catalog state.
type CatalogHandler struct {
	Gateway *gateway.Client
}

func (h *CatalogHandler) Products(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.products")

	query := gateway.ProductQuery{Search: c.QueryParam("search")}
	if v := c.QueryParam("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category_id"})
		}
		query.CategoryID = id
	}
	if v := c.QueryParam("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid page"})
		}
		query.Page = page
	}

	products, err := h.Gateway.Products(ctx, query)
	if err != nil {
		return gatewayError(c, l, "products_error", err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) Product(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.product")

	productID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	product, err := h.Gateway.Product(ctx, productID)
	if err != nil {
		return gatewayError(c, l, "product_error", err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) Categories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.categories")

	categories, err := h.Gateway.Categories(ctx)
	if err != nil {
		return gatewayError(c, l, "categories_error", err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) ProductsByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.by_category")

	categoryID, err := strconv.ParseInt(c.QueryParam("category_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category_id"})
	}

	products, err := h.Gateway.ProductsByCategory(ctx, categoryID)
	if err != nil {
		return gatewayError(c, l, "by_category_error", err)
	}
	return c.JSON(http.StatusOK, products)
}
