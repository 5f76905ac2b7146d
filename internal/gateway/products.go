package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Skotchmaster/shop_client/internal/models"
)

type ProductQuery struct {
	Search     string
	CategoryID int64
	Page       int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CategoryID != 0 {
		v.Set("category_id", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

func (c *Client) Products(ctx context.Context, query ProductQuery) ([]models.Product, error) {
	var out []models.Product
	path := "/products/api/products/"
	if qs := query.values().Encode(); qs != "" {
		path += "?" + qs
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Product(ctx context.Context, productID int64) (*models.Product, error) {
	var out models.Product
	path := fmt.Sprintf("/products/api/products/%d/", productID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.do(ctx, http.MethodGet, "/products/api/products/categories/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ProductsByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	var out []models.Product
	path := fmt.Sprintf("/products/api/products/by_category/?category_id=%d", categoryID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
