package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"perdecim-client/internal/model"
)

// ListProducts returns one page of the catalog, filtered by q.
func (c *Client) ListProducts(ctx context.Context, q model.ProductQuery) (*model.ProductPage, error) {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.CategoryID != "" {
		values.Set("category", q.CategoryID)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}

	path := "/products"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page model.ProductPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return &page, nil
}

// GetProduct returns a single product with its variants.
func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &product); err != nil {
		return nil, fmt.Errorf("fetching product: %w", err)
	}
	return &product, nil
}

// ListCategories returns the catalog categories.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var resp struct {
		Categories []model.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return resp.Categories, nil
}
