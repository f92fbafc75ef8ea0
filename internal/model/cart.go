// Package model defines the storefront API data model shared by the client
// bindings, the state stores, and the tooling surfaces. All money amounts
// are minor units (kuruş/cents) as emitted by the API.
package model

// CartItem is one line of the server cart as mirrored locally.
// UnitPrice is the price captured when the item was added; LineTotal is
// server-computed (price × quantity) and never recomputed client-side.
type CartItem struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	VariantID string `json:"variantId,omitempty"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	LineTotal int64  `json:"lineTotal"`
}

// Cart is the server cart snapshot returned by GET /cart.
// Subtotal and ItemCount are derived server-side; the client treats the
// whole struct as a read-through cache of server truth.
type Cart struct {
	Items     []CartItem `json:"items"`
	Subtotal  int64      `json:"subtotal"`
	ItemCount int        `json:"itemCount"`
	Currency  string     `json:"currency,omitempty"`

	// SessionID is set when the server issued a fresh guest session for
	// this cart. The API client persists it before returning.
	SessionID string `json:"sessionId,omitempty"`
}

// AddToCartRequest is the body of POST /cart/add.
type AddToCartRequest struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId,omitempty"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest is the body of PUT /cart/items/:itemId.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CompareItem is a product snapshot held in the local compare list.
// Independent of the server cart; lives only in durable client storage.
type CompareItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Price     int64  `json:"price"`
}
