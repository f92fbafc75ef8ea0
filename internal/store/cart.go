package store

import (
	"context"
	"log/slog"
	"sync"

	"perdecim-client/internal/api"
	"perdecim-client/internal/model"
)

// CartStore mirrors the server cart. The server owns the numbers: Items,
// Subtotal and ItemCount are always taken verbatim from the last GET /cart
// response, never computed here. Every mutation is confirm-then-refresh:
// the server acknowledges the change, then a re-fetch replaces the mirror.
//
// Mutating operations do not return errors. Failures become user
// notifications (the server's message when it sent one) and the mirror is
// left as it was.
type CartStore struct {
	api      api.Storefront
	notifier Notifier
	logger   *slog.Logger

	// OnCartOpened fires after a successful Add. The storefront analogue
	// is the cart drawer sliding open. Optional.
	OnCartOpened func()

	mu      sync.Mutex
	cart    model.Cart
	loading bool
}

// CartConfig holds CartStore construction parameters.
type CartConfig struct {
	API          api.Storefront
	Notifier     Notifier
	Logger       *slog.Logger
	OnCartOpened func()
}

// NewCart creates a cart store with an empty mirror.
func NewCart(cfg CartConfig) *CartStore {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = &LogNotifier{Logger: logger}
	}
	return &CartStore{
		api:          cfg.API,
		notifier:     notifier,
		logger:       logger,
		OnCartOpened: cfg.OnCartOpened,
	}
}

// Snapshot returns a copy of the current mirror.
func (s *CartStore) Snapshot() model.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cart
	cart.Items = append([]model.CartItem(nil), s.cart.Items...)
	return cart
}

// Loading reports whether a mutation is in flight. The flag is shared
// across all operations; the storefront renders one spinner, not one per
// button.
func (s *CartStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Fetch refreshes the mirror from the server. Silent: on failure the prior
// state stays and nothing is notified. Overlapping fetches are
// last-response-wins; each arriving response replaces the mirror wholesale.
func (s *CartStore) Fetch(ctx context.Context) {
	cart, err := s.api.GetCart(ctx)
	if err != nil {
		s.logger.Debug("cart fetch failed, keeping prior state", "error", err)
		return
	}
	s.mu.Lock()
	s.cart = *cart
	s.mu.Unlock()
}

// Add puts a product in the server cart, refreshes the mirror, and fires
// OnCartOpened. variantID may be empty for products without variants.
func (s *CartStore) Add(ctx context.Context, productID, variantID string, quantity int) {
	s.setLoading(true)
	defer s.setLoading(false)

	req := model.AddToCartRequest{ProductID: productID, VariantID: variantID, Quantity: quantity}
	if err := s.api.AddToCart(ctx, req); err != nil {
		s.notifier.Error(model.UserMessage(err, "Could not add to cart. Please try again."))
		return
	}

	s.Fetch(ctx)
	if s.OnCartOpened != nil {
		s.OnCartOpened()
	}
}

// UpdateItem sets the quantity of a cart line. Quantity zero is not a
// removal here; callers use Remove for that.
func (s *CartStore) UpdateItem(ctx context.Context, itemID string, quantity int) {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.UpdateCartItem(ctx, itemID, quantity); err != nil {
		s.notifier.Error(model.UserMessage(err, "Could not update the cart. Please try again."))
		return
	}
	s.Fetch(ctx)
}

// Remove deletes a cart line.
func (s *CartStore) Remove(ctx context.Context, itemID string) {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.RemoveFromCart(ctx, itemID); err != nil {
		s.notifier.Error(model.UserMessage(err, "Could not remove the item. Please try again."))
		return
	}
	s.Fetch(ctx)
}

// Clear empties the server cart and resets the mirror locally. No re-fetch:
// the end state is known to be the empty cart.
func (s *CartStore) Clear(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.ClearCart(ctx); err != nil {
		s.notifier.Error(model.UserMessage(err, "Could not clear the cart. Please try again."))
		return
	}
	s.reset()
}

// ResetLocal drops the mirror without touching the server. Logout path.
func (s *CartStore) ResetLocal() {
	s.reset()
}

func (s *CartStore) reset() {
	s.mu.Lock()
	currency := s.cart.Currency
	s.cart = model.Cart{Currency: currency}
	s.mu.Unlock()
}

func (s *CartStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
