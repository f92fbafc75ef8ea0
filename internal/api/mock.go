package api

import (
	"context"

	"perdecim-client/internal/model"
)

// Mock implements Storefront for testing.
// Each method can be configured via function fields.
type Mock struct {
	GetCartFunc        func(ctx context.Context) (*model.Cart, error)
	AddToCartFunc      func(ctx context.Context, req model.AddToCartRequest) error
	UpdateCartItemFunc func(ctx context.Context, itemID string, quantity int) error
	RemoveFromCartFunc func(ctx context.Context, itemID string) error
	ClearCartFunc      func(ctx context.Context) error
	MergeCartFunc      func(ctx context.Context) error

	LoginFunc     func(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error)
	RegisterFunc  func(ctx context.Context, req model.RegisterRequest) (*model.AuthResult, error)
	Verify2FAFunc func(ctx context.Context, req model.Verify2FARequest) (*model.AuthResult, error)
	MeFunc        func(ctx context.Context) (*model.User, error)

	ListProductsFunc   func(ctx context.Context, q model.ProductQuery) (*model.ProductPage, error)
	GetProductFunc     func(ctx context.Context, id string) (*model.Product, error)
	ListCategoriesFunc func(ctx context.Context) ([]model.Category, error)

	ValidateCouponFunc func(ctx context.Context, code string) (*model.Coupon, error)
	ListAddressesFunc  func(ctx context.Context) ([]model.Address, error)
	CreateAddressFunc  func(ctx context.Context, a model.Address) (*model.Address, error)
	CreateOrderFunc    func(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error)
	ListOrdersFunc     func(ctx context.Context) ([]model.Order, error)
	GetOrderFunc       func(ctx context.Context, id string) (*model.Order, error)
}

// GetCart calls the configured GetCartFunc or returns an empty cart.
func (m *Mock) GetCart(ctx context.Context) (*model.Cart, error) {
	if m.GetCartFunc != nil {
		return m.GetCartFunc(ctx)
	}
	return &model.Cart{Currency: "USD"}, nil
}

// AddToCart calls the configured AddToCartFunc or succeeds.
func (m *Mock) AddToCart(ctx context.Context, req model.AddToCartRequest) error {
	if m.AddToCartFunc != nil {
		return m.AddToCartFunc(ctx, req)
	}
	return nil
}

// UpdateCartItem calls the configured UpdateCartItemFunc or succeeds.
func (m *Mock) UpdateCartItem(ctx context.Context, itemID string, quantity int) error {
	if m.UpdateCartItemFunc != nil {
		return m.UpdateCartItemFunc(ctx, itemID, quantity)
	}
	return nil
}

// RemoveFromCart calls the configured RemoveFromCartFunc or succeeds.
func (m *Mock) RemoveFromCart(ctx context.Context, itemID string) error {
	if m.RemoveFromCartFunc != nil {
		return m.RemoveFromCartFunc(ctx, itemID)
	}
	return nil
}

// ClearCart calls the configured ClearCartFunc or succeeds.
func (m *Mock) ClearCart(ctx context.Context) error {
	if m.ClearCartFunc != nil {
		return m.ClearCartFunc(ctx)
	}
	return nil
}

// MergeCart calls the configured MergeCartFunc or succeeds.
func (m *Mock) MergeCart(ctx context.Context) error {
	if m.MergeCartFunc != nil {
		return m.MergeCartFunc(ctx)
	}
	return nil
}

// Login calls the configured LoginFunc or returns an error.
func (m *Mock) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return nil, model.NewUnauthorizedError("invalid credentials")
}

// Register calls the configured RegisterFunc or returns an error.
func (m *Mock) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return nil, model.NewInternalError(nil)
}

// Verify2FA calls the configured Verify2FAFunc or returns an error.
func (m *Mock) Verify2FA(ctx context.Context, req model.Verify2FARequest) (*model.AuthResult, error) {
	if m.Verify2FAFunc != nil {
		return m.Verify2FAFunc(ctx, req)
	}
	return nil, model.NewUnauthorizedError("invalid code")
}

// Me calls the configured MeFunc or returns an error.
func (m *Mock) Me(ctx context.Context) (*model.User, error) {
	if m.MeFunc != nil {
		return m.MeFunc(ctx)
	}
	return nil, model.NewUnauthorizedError("not signed in")
}

// ListProducts calls the configured ListProductsFunc or returns an empty page.
func (m *Mock) ListProducts(ctx context.Context, q model.ProductQuery) (*model.ProductPage, error) {
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx, q)
	}
	return &model.ProductPage{Page: 1}, nil
}

// GetProduct calls the configured GetProductFunc or returns an error.
func (m *Mock) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, id)
	}
	return nil, model.NewNotFoundError("product")
}

// ListCategories calls the configured ListCategoriesFunc or returns nothing.
func (m *Mock) ListCategories(ctx context.Context) ([]model.Category, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx)
	}
	return nil, nil
}

// ValidateCoupon calls the configured ValidateCouponFunc or returns an error.
func (m *Mock) ValidateCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	if m.ValidateCouponFunc != nil {
		return m.ValidateCouponFunc(ctx, code)
	}
	return nil, model.NewInvalidRequestError("invalid coupon code")
}

// ListAddresses calls the configured ListAddressesFunc or returns nothing.
func (m *Mock) ListAddresses(ctx context.Context) ([]model.Address, error) {
	if m.ListAddressesFunc != nil {
		return m.ListAddressesFunc(ctx)
	}
	return nil, nil
}

// CreateAddress calls the configured CreateAddressFunc or returns an error.
func (m *Mock) CreateAddress(ctx context.Context, a model.Address) (*model.Address, error) {
	if m.CreateAddressFunc != nil {
		return m.CreateAddressFunc(ctx, a)
	}
	return nil, model.NewInternalError(nil)
}

// CreateOrder calls the configured CreateOrderFunc or returns an error.
func (m *Mock) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, req)
	}
	return nil, model.NewInternalError(nil)
}

// ListOrders calls the configured ListOrdersFunc or returns nothing.
func (m *Mock) ListOrders(ctx context.Context) ([]model.Order, error) {
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx)
	}
	return nil, nil
}

// GetOrder calls the configured GetOrderFunc or returns an error.
func (m *Mock) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, id)
	}
	return nil, model.NewNotFoundError("order")
}

// Verify Mock implements Storefront interface at compile time.
var _ Storefront = (*Mock)(nil)
