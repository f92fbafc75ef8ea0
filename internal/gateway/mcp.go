// MCP tool definitions for the gateway using the official MCP Go SDK.
// Each tool wraps one storefront operation; cart mutations return the
// refreshed cart so the agent always sees server-computed totals.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"perdecim-client/internal/model"
)

// === Tool Input Types ===

// AddToCartInput is the input schema for the add_to_cart tool.
type AddToCartInput struct {
	ProductID string `json:"productId" jsonschema:"product id,required"`
	VariantID string `json:"variantId,omitempty" jsonschema:"variant id for products with variants"`
	Quantity  int    `json:"quantity" jsonschema:"quantity to add,required"`
}

// UpdateCartItemInput is the input schema for the update_cart_item tool.
type UpdateCartItemInput struct {
	ItemID   string `json:"itemId" jsonschema:"cart line id,required"`
	Quantity int    `json:"quantity" jsonschema:"new quantity,required"`
}

// RemoveCartItemInput is the input schema for the remove_cart_item tool.
type RemoveCartItemInput struct {
	ItemID string `json:"itemId" jsonschema:"cart line id,required"`
}

// EmptyInput is the input schema for tools that take no arguments.
type EmptyInput struct{}

// SearchProductsInput is the input schema for the search_products tool.
type SearchProductsInput struct {
	Search   string `json:"search,omitempty" jsonschema:"free-text search query"`
	Category string `json:"category,omitempty" jsonschema:"category id filter"`
	Page     int    `json:"page,omitempty" jsonschema:"result page, 1-based"`
}

// CreateOrderInput is the input schema for the create_order tool.
type CreateOrderInput struct {
	AddressID     string `json:"addressId" jsonschema:"delivery address id,required"`
	CouponCode    string `json:"couponCode,omitempty" jsonschema:"discount code to apply"`
	PaymentMethod string `json:"paymentMethod" jsonschema:"payment method,required"`
}

// NewMCPServer creates an MCP server with the storefront tools registered.
func (g *Gateway) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "shopgate",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "Storefront shopping operations. Use these tools to browse " +
				"products, manage the cart, and place orders. Cart totals always come " +
				"from the server; re-read the cart after mutations.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_cart",
		Description: "Get the current cart with line items, subtotal, and item count.",
	}, g.mcpGetCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_to_cart",
		Description: "Add a product to the cart. Returns the refreshed cart.",
	}, g.mcpAddToCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_cart_item",
		Description: "Set the quantity of a cart line. Use remove_cart_item to delete a line.",
	}, g.mcpUpdateCartItem)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_cart_item",
		Description: "Remove a line from the cart.",
	}, g.mcpRemoveCartItem)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "clear_cart",
		Description: "Empty the cart.",
	}, g.mcpClearCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge_cart",
		Description: "Fold the guest cart into the signed-in account's cart. Safe to repeat.",
	}, g.mcpMergeCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_products",
		Description: "Search the product catalog with optional text query, category filter, and page.",
	}, g.mcpSearchProducts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_order",
		Description: "Place an order from the current cart with a delivery address and payment method.",
	}, g.mcpCreateOrder)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (g *Gateway) NewMCPHandler() http.Handler {
	server := g.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

func (g *Gateway) mcpGetCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmptyInput,
) (*mcp.CallToolResult, *model.Cart, error) {
	cart, err := g.store.GetCart(ctx)
	if err != nil {
		return nil, nil, g.mcpError(err)
	}
	return nil, normalizeCart(cart), nil
}

func (g *Gateway) mcpAddToCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AddToCartInput,
) (*mcp.CallToolResult, *model.Cart, error) {
	if input.ProductID == "" {
		return nil, nil, fmt.Errorf("productId is required")
	}
	if input.Quantity <= 0 {
		return nil, nil, fmt.Errorf("quantity must be positive")
	}

	addReq := model.AddToCartRequest{
		ProductID: input.ProductID,
		VariantID: input.VariantID,
		Quantity:  input.Quantity,
	}
	if err := g.store.AddToCart(ctx, addReq); err != nil {
		return nil, nil, g.mcpError(err)
	}
	return g.refreshedCart(ctx)
}

func (g *Gateway) mcpUpdateCartItem(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input UpdateCartItemInput,
) (*mcp.CallToolResult, *model.Cart, error) {
	if input.ItemID == "" {
		return nil, nil, fmt.Errorf("itemId is required")
	}
	if input.Quantity <= 0 {
		return nil, nil, fmt.Errorf("quantity must be positive; use remove_cart_item to delete")
	}

	if err := g.store.UpdateCartItem(ctx, input.ItemID, input.Quantity); err != nil {
		return nil, nil, g.mcpError(err)
	}
	return g.refreshedCart(ctx)
}

func (g *Gateway) mcpRemoveCartItem(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input RemoveCartItemInput,
) (*mcp.CallToolResult, *model.Cart, error) {
	if input.ItemID == "" {
		return nil, nil, fmt.Errorf("itemId is required")
	}

	if err := g.store.RemoveFromCart(ctx, input.ItemID); err != nil {
		return nil, nil, g.mcpError(err)
	}
	return g.refreshedCart(ctx)
}

func (g *Gateway) mcpClearCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmptyInput,
) (*mcp.CallToolResult, *model.Cart, error) {
	if err := g.store.ClearCart(ctx); err != nil {
		return nil, nil, g.mcpError(err)
	}
	// End state is known: the empty cart.
	return nil, &model.Cart{Items: []model.CartItem{}}, nil
}

func (g *Gateway) mcpMergeCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input EmptyInput,
) (*mcp.CallToolResult, *model.Cart, error) {
	if err := g.store.MergeCart(ctx); err != nil {
		return nil, nil, g.mcpError(err)
	}
	return g.refreshedCart(ctx)
}

func (g *Gateway) mcpSearchProducts(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SearchProductsInput,
) (*mcp.CallToolResult, *model.ProductPage, error) {
	page, err := g.store.ListProducts(ctx, model.ProductQuery{
		Search:     input.Search,
		CategoryID: input.Category,
		Page:       input.Page,
	})
	if err != nil {
		return nil, nil, g.mcpError(err)
	}
	if page.Products == nil {
		page.Products = []model.Product{}
	}
	return nil, page, nil
}

func (g *Gateway) mcpCreateOrder(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CreateOrderInput,
) (*mcp.CallToolResult, *model.Order, error) {
	if input.AddressID == "" {
		return nil, nil, fmt.Errorf("addressId is required")
	}
	if input.PaymentMethod == "" {
		return nil, nil, fmt.Errorf("paymentMethod is required")
	}

	order, err := g.store.CreateOrder(ctx, model.CreateOrderRequest{
		AddressID:     input.AddressID,
		CouponCode:    input.CouponCode,
		PaymentMethod: input.PaymentMethod,
	})
	if err != nil {
		return nil, nil, g.mcpError(err)
	}
	if order.Items == nil {
		order.Items = []model.OrderItem{}
	}
	return nil, order, nil
}

// refreshedCart re-reads the cart after a mutation so the tool result
// carries the server's state.
func (g *Gateway) refreshedCart(ctx context.Context) (*mcp.CallToolResult, *model.Cart, error) {
	cart, err := g.store.GetCart(ctx)
	if err != nil {
		return nil, nil, g.mcpError(err)
	}
	return nil, normalizeCart(cart), nil
}

// normalizeCart replaces a nil item slice with an empty one. The SDK checks
// tool output against a schema derived from the Go types, where items is an
// array; a nil slice serializes as null and fails that check.
func normalizeCart(cart *model.Cart) *model.Cart {
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	return cart
}

// mcpError converts storefront errors to MCP-friendly errors.
func (g *Gateway) mcpError(err error) error {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	// Don't leak internal error details
	g.logger.Error("mcp internal error", "error", err.Error())
	return fmt.Errorf("internal error")
}
