// Package api is the single HTTP boundary to the storefront REST API.
// It owns header attachment (bearer token, guest session id), the one-shot
// token refresh-and-retry, and the mapping of HTTP failures onto the
// model error taxonomy. Everything above it (stores, CLI, gateway) talks
// to the Storefront interface.
package api

import (
	"context"

	"perdecim-client/internal/model"
)

// Storefront abstracts the storefront API operations consumed by the state
// stores and the tooling surfaces. *Client is the production implementation;
// Mock serves tests.
type Storefront interface {
	// GetCart returns the canonical server cart. Persists any
	// server-issued guest session id before returning.
	GetCart(ctx context.Context) (*model.Cart, error)

	// AddToCart adds a line to the server cart. Quantity semantics are
	// the server's; the client forwards what the UI asked for.
	AddToCart(ctx context.Context, req model.AddToCartRequest) error

	// UpdateCartItem sets the quantity of an existing line.
	UpdateCartItem(ctx context.Context, itemID string, quantity int) error

	// RemoveFromCart deletes a line.
	RemoveFromCart(ctx context.Context, itemID string) error

	// ClearCart empties the server cart.
	ClearCart(ctx context.Context) error

	// MergeCart folds the guest cart into the authenticated user's cart.
	// No body: the server reads the bearer token and X-Session-Id header.
	// Carries an Idempotency-Key so repeats are explicitly safe.
	MergeCart(ctx context.Context) error

	// Login authenticates with email and password. The result either
	// carries tokens or asks for a 2FA verification round.
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error)

	// Register creates an account and logs it in.
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResult, error)

	// Verify2FA completes a pending two-factor login.
	Verify2FA(ctx context.Context, req model.Verify2FARequest) (*model.AuthResult, error)

	// Me returns the authenticated user.
	Me(ctx context.Context) (*model.User, error)

	// Catalog browsing.
	ListProducts(ctx context.Context, q model.ProductQuery) (*model.ProductPage, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)

	// Checkout flow.
	ValidateCoupon(ctx context.Context, code string) (*model.Coupon, error)
	ListAddresses(ctx context.Context) ([]model.Address, error)
	CreateAddress(ctx context.Context, a model.Address) (*model.Address, error)
	CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
}
