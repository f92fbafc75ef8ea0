package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"perdecim-client/internal/model"
)

// GetCart fetches the canonical server cart.
// A server-issued guest session id in the response is persisted before the
// cart is returned, so follow-up calls carry X-Session-Id.
func (c *Client) GetCart(ctx context.Context) (*model.Cart, error) {
	var cart model.Cart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &cart); err != nil {
		return nil, err
	}
	c.persistSessionID(cart.SessionID)
	return &cart, nil
}

// addToCartResponse is the POST /cart/add envelope. The interesting part is
// the session id issued for first-time guest carts; line items come from
// the follow-up GetCart, never from here.
type addToCartResponse struct {
	SessionID string `json:"sessionId,omitempty"`
}

// AddToCart adds a line to the server cart.
func (c *Client) AddToCart(ctx context.Context, req model.AddToCartRequest) error {
	var resp addToCartResponse
	if err := c.do(ctx, http.MethodPost, "/cart/add", req, &resp); err != nil {
		return fmt.Errorf("adding to cart: %w", err)
	}
	c.persistSessionID(resp.SessionID)
	return nil
}

// UpdateCartItem sets the quantity of an existing cart line.
// A quantity of zero or below is the UI's cue to call RemoveFromCart
// instead; this binding forwards whatever it is given.
func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) error {
	path := "/cart/items/" + itemID
	body := model.UpdateCartItemRequest{Quantity: quantity}
	if err := c.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("updating cart item: %w", err)
	}
	return nil
}

// RemoveFromCart deletes a cart line.
func (c *Client) RemoveFromCart(ctx context.Context, itemID string) error {
	if err := c.do(ctx, http.MethodDelete, "/cart/items/"+itemID, nil, nil); err != nil {
		return fmt.Errorf("removing cart item: %w", err)
	}
	return nil
}

// ClearCart empties the server cart.
func (c *Client) ClearCart(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/cart/clear", nil, nil); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}

// MergeCart folds the guest cart (X-Session-Id) into the authenticated
// user's cart. No body. The Idempotency-Key makes the merge contract
// explicit: the server must treat a repeated key as already done.
func (c *Client) MergeCart(ctx context.Context) error {
	headers := map[string]string{"Idempotency-Key": uuid.NewString()}
	if err := c.doWithHeaders(ctx, http.MethodPost, "/cart/merge", headers, nil, nil); err != nil {
		return fmt.Errorf("merging cart: %w", err)
	}
	return nil
}

// persistSessionID stores a server-issued guest session id. Failures are
// logged, not propagated: the cart call itself succeeded and the worst
// case is the server issuing a fresh session next time.
func (c *Client) persistSessionID(id string) {
	if id == "" {
		return
	}
	if err := c.creds.SaveSessionID(id); err != nil {
		c.logger.Error("persisting guest session id", "error", err)
	}
}
