package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"perdecim-client/internal/model"
)

// ValidateCoupon checks a discount code against the current cart.
// Invalid codes come back as validation errors carrying the server's
// message verbatim.
func (c *Client) ValidateCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := c.do(ctx, http.MethodPost, "/coupons/validate",
		model.ValidateCouponRequest{Code: code}, &coupon)
	if err != nil {
		return nil, fmt.Errorf("validating coupon: %w", err)
	}
	return &coupon, nil
}

// ListAddresses returns the saved delivery addresses for the address
// selection step of checkout.
func (c *Client) ListAddresses(ctx context.Context) ([]model.Address, error) {
	var resp struct {
		Addresses []model.Address `json:"addresses"`
	}
	if err := c.do(ctx, http.MethodGet, "/addresses", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing addresses: %w", err)
	}
	return resp.Addresses, nil
}

// CreateAddress saves a new delivery address and returns it with the
// server-assigned id.
func (c *Client) CreateAddress(ctx context.Context, a model.Address) (*model.Address, error) {
	var created model.Address
	if err := c.do(ctx, http.MethodPost, "/addresses", a, &created); err != nil {
		return nil, fmt.Errorf("creating address: %w", err)
	}
	return &created, nil
}

// CreateOrder places an order from the current server cart. The server
// empties the cart as part of order creation; callers should re-fetch.
func (c *Client) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}
	return &order, nil
}

// ListOrders returns the authenticated user's order history.
func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	var resp struct {
		Orders []model.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return resp.Orders, nil
}

// GetOrder returns a single order.
func (c *Client) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, &order); err != nil {
		return nil, fmt.Errorf("fetching order: %w", err)
	}
	return &order, nil
}
