package store

import (
	"context"
	"sync"
	"testing"

	"perdecim-client/internal/api"
	"perdecim-client/internal/model"
)

// recordingNotifier captures user-facing messages for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

func (n *recordingNotifier) lastError() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.errors) == 0 {
		return ""
	}
	return n.errors[len(n.errors)-1]
}

// serverCart builds a mock whose GetCart returns the given cart, counting
// calls.
func serverCart(cart *model.Cart, calls *int) *api.Mock {
	return &api.Mock{
		GetCartFunc: func(ctx context.Context) (*model.Cart, error) {
			if calls != nil {
				*calls++
			}
			c := *cart
			c.Items = append([]model.CartItem(nil), cart.Items...)
			return &c, nil
		},
	}
}

func TestCartStore_TotalsComeFromServer(t *testing.T) {
	// The server's numbers are deliberately inconsistent with the line
	// items. The mirror must carry them verbatim anyway: the store never
	// does arithmetic of its own.
	server := &model.Cart{
		Items: []model.CartItem{
			{ID: "l1", ProductID: "p1", Quantity: 2, UnitPrice: 100, LineTotal: 200},
		},
		Subtotal:  9999,
		ItemCount: 42,
		Currency:  "USD",
	}
	mock := serverCart(server, nil)

	s := NewCart(CartConfig{API: mock, Notifier: &recordingNotifier{}})
	s.Add(context.Background(), "p1", "", 2)

	got := s.Snapshot()
	if got.Subtotal != 9999 {
		t.Errorf("subtotal = %d, want 9999 (server value, not recomputed)", got.Subtotal)
	}
	if got.ItemCount != 42 {
		t.Errorf("item count = %d, want 42", got.ItemCount)
	}
}

func TestCartStore_AddRefetchesAndOpensDrawer(t *testing.T) {
	var addCalls, fetchCalls int
	server := &model.Cart{
		Items:     []model.CartItem{{ID: "l1", ProductID: "p1", Quantity: 2, UnitPrice: 100, LineTotal: 200}},
		Subtotal:  200,
		ItemCount: 2,
	}
	mock := serverCart(server, &fetchCalls)
	mock.AddToCartFunc = func(ctx context.Context, req model.AddToCartRequest) error {
		addCalls++
		if req.ProductID != "p1" || req.Quantity != 2 {
			t.Errorf("add request = %+v", req)
		}
		return nil
	}

	var opened bool
	s := NewCart(CartConfig{API: mock, Notifier: &recordingNotifier{}, OnCartOpened: func() { opened = true }})
	s.Add(context.Background(), "p1", "", 2)

	if addCalls != 1 || fetchCalls != 1 {
		t.Errorf("add=%d fetch=%d, want 1/1", addCalls, fetchCalls)
	}
	if !opened {
		t.Error("OnCartOpened not fired")
	}
	if got := s.Snapshot(); got.Subtotal != 200 || got.ItemCount != 2 {
		t.Errorf("mirror = %+v, want server state", got)
	}
}

func TestCartStore_AddFailureNotifiesAndKeepsState(t *testing.T) {
	var fetchCalls int
	server := &model.Cart{Subtotal: 500, ItemCount: 5}
	mock := serverCart(server, &fetchCalls)
	s := NewCart(CartConfig{API: mock, Notifier: &recordingNotifier{}})
	s.Fetch(context.Background())

	notifier := &recordingNotifier{}
	mock.AddToCartFunc = func(ctx context.Context, req model.AddToCartRequest) error {
		return model.NewInvalidRequestError("quantity exceeds available stock")
	}
	s.notifier = notifier

	var opened bool
	s.OnCartOpened = func() { opened = true }
	s.Add(context.Background(), "p1", "", 99)

	if notifier.errorCount() != 1 {
		t.Fatalf("error notifications = %d, want 1", notifier.errorCount())
	}
	if msg := notifier.lastError(); msg != "quantity exceeds available stock" {
		t.Errorf("message = %q, want server message verbatim", msg)
	}
	if opened {
		t.Error("drawer opened on failed add")
	}
	if got := s.Snapshot(); got.Subtotal != 500 || got.ItemCount != 5 {
		t.Errorf("mirror changed on failed add: %+v", got)
	}
}

func TestCartStore_NetworkFailureGenericMessage(t *testing.T) {
	notifier := &recordingNotifier{}
	mock := &api.Mock{
		AddToCartFunc: func(ctx context.Context, req model.AddToCartRequest) error {
			return model.NewUpstreamError("storefront", context.DeadlineExceeded)
		},
	}
	s := NewCart(CartConfig{API: mock, Notifier: notifier})
	s.Add(context.Background(), "p1", "", 1)

	if msg := notifier.lastError(); msg != "Could not add to cart. Please try again." {
		t.Errorf("message = %q, want generic fallback", msg)
	}
}

func TestCartStore_FetchFailureSilent(t *testing.T) {
	var fetchCalls int
	server := &model.Cart{Subtotal: 300, ItemCount: 3}
	mock := serverCart(server, &fetchCalls)

	notifier := &recordingNotifier{}
	s := NewCart(CartConfig{API: mock, Notifier: notifier})
	s.Fetch(context.Background())

	mock.GetCartFunc = func(ctx context.Context) (*model.Cart, error) {
		return nil, model.NewUpstreamError("storefront", context.DeadlineExceeded)
	}
	s.Fetch(context.Background())

	if notifier.errorCount() != 0 {
		t.Errorf("fetch failure notified the user: %v", notifier.errors)
	}
	if got := s.Snapshot(); got.Subtotal != 300 || got.ItemCount != 3 {
		t.Errorf("mirror changed on failed fetch: %+v", got)
	}
}

func TestCartStore_UpdateItemIdempotentSequentially(t *testing.T) {
	server := &model.Cart{
		Items:     []model.CartItem{{ID: "l1", ProductID: "p1", Quantity: 3, UnitPrice: 100, LineTotal: 300}},
		Subtotal:  300,
		ItemCount: 3,
	}
	mock := serverCart(server, nil)
	mock.UpdateCartItemFunc = func(ctx context.Context, itemID string, quantity int) error {
		if itemID != "l1" || quantity != 3 {
			t.Errorf("update %s/%d, want l1/3", itemID, quantity)
		}
		return nil
	}

	s := NewCart(CartConfig{API: mock, Notifier: &recordingNotifier{}})

	s.UpdateItem(context.Background(), "l1", 3)
	first := s.Snapshot()
	s.UpdateItem(context.Background(), "l1", 3)
	second := s.Snapshot()

	if first.Subtotal != second.Subtotal || first.ItemCount != second.ItemCount {
		t.Errorf("repeated update diverged: %+v then %+v", first, second)
	}
	if len(first.Items) != 1 || len(second.Items) != 1 {
		t.Errorf("items = %d then %d, want 1", len(first.Items), len(second.Items))
	}
}

func TestCartStore_RemoveOnlyItemEmptiesCart(t *testing.T) {
	server := &model.Cart{
		Items:     []model.CartItem{{ID: "l1", ProductID: "p1", Quantity: 1, UnitPrice: 250, LineTotal: 250}},
		Subtotal:  250,
		ItemCount: 1,
	}
	mock := serverCart(server, nil)
	mock.RemoveFromCartFunc = func(ctx context.Context, itemID string) error {
		// Server drops the line; the follow-up fetch sees the empty cart.
		server.Items = nil
		server.Subtotal = 0
		server.ItemCount = 0
		return nil
	}

	s := NewCart(CartConfig{API: mock, Notifier: &recordingNotifier{}})
	s.Fetch(context.Background())
	s.Remove(context.Background(), "l1")

	got := s.Snapshot()
	if len(got.Items) != 0 || got.Subtotal != 0 || got.ItemCount != 0 {
		t.Errorf("cart after removing only item = %+v, want empty", got)
	}
}

func TestCartStore_ClearResetsLocallyWithoutRefetch(t *testing.T) {
	var fetchCalls int
	server := &model.Cart{Subtotal: 500, ItemCount: 5, Currency: "USD"}
	mock := serverCart(server, &fetchCalls)

	var clearCalls int
	mock.ClearCartFunc = func(ctx context.Context) error {
		clearCalls++
		return nil
	}

	s := NewCart(CartConfig{API: mock, Notifier: &recordingNotifier{}})
	s.Fetch(context.Background())
	fetchesBefore := fetchCalls

	s.Clear(context.Background())

	if clearCalls != 1 {
		t.Errorf("clear calls = %d, want 1", clearCalls)
	}
	if fetchCalls != fetchesBefore {
		t.Errorf("clear triggered a re-fetch (%d -> %d)", fetchesBefore, fetchCalls)
	}
	got := s.Snapshot()
	if len(got.Items) != 0 || got.Subtotal != 0 || got.ItemCount != 0 {
		t.Errorf("cart after clear = %+v, want empty", got)
	}
	if got.Currency != "USD" {
		t.Errorf("currency = %q, want USD kept", got.Currency)
	}
}

func TestCartStore_ClearThenFetchStaysEmpty(t *testing.T) {
	server := &model.Cart{
		Items:     []model.CartItem{{ID: "l1", Quantity: 2, LineTotal: 200}},
		Subtotal:  200,
		ItemCount: 2,
	}
	mock := serverCart(server, nil)
	mock.ClearCartFunc = func(ctx context.Context) error {
		server.Items = nil
		server.Subtotal = 0
		server.ItemCount = 0
		return nil
	}

	s := NewCart(CartConfig{API: mock, Notifier: &recordingNotifier{}})
	s.Fetch(context.Background())
	s.Clear(context.Background())
	s.Fetch(context.Background())

	got := s.Snapshot()
	if len(got.Items) != 0 || got.Subtotal != 0 || got.ItemCount != 0 {
		t.Errorf("cart after clear+fetch = %+v, want empty", got)
	}
}

func TestCartStore_ResetLocalNoServerCall(t *testing.T) {
	var clearCalls int
	server := &model.Cart{Subtotal: 100, ItemCount: 1}
	mock := serverCart(server, nil)
	mock.ClearCartFunc = func(ctx context.Context) error {
		clearCalls++
		return nil
	}

	s := NewCart(CartConfig{API: mock, Notifier: &recordingNotifier{}})
	s.Fetch(context.Background())
	s.ResetLocal()

	if clearCalls != 0 {
		t.Errorf("ResetLocal called the server %d times", clearCalls)
	}
	if got := s.Snapshot(); got.ItemCount != 0 {
		t.Errorf("mirror after ResetLocal = %+v, want empty", got)
	}
}

func TestCartStore_SnapshotIsACopy(t *testing.T) {
	server := &model.Cart{
		Items:     []model.CartItem{{ID: "l1", Quantity: 1}},
		ItemCount: 1,
	}
	s := NewCart(CartConfig{API: serverCart(server, nil), Notifier: &recordingNotifier{}})
	s.Fetch(context.Background())

	snap := s.Snapshot()
	snap.Items[0].Quantity = 99

	if got := s.Snapshot(); got.Items[0].Quantity != 1 {
		t.Error("mutating a snapshot leaked into the store")
	}
}
