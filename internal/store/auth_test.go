package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"perdecim-client/internal/api"
	"perdecim-client/internal/credentials"
	"perdecim-client/internal/model"
)

func testCreds(t *testing.T) *credentials.Store {
	t.Helper()
	creds, err := credentials.Open(filepath.Join(t.TempDir(), "creds.json"))
	if err != nil {
		t.Fatalf("open credentials: %v", err)
	}
	return creds
}

func authedResult() *model.AuthResult {
	return &model.AuthResult{
		User:         &model.User{ID: "u1", Email: "jane@example.com", Name: "Jane"},
		AccessToken:  "acc-1",
		RefreshToken: "ref-1",
	}
}

func TestAuthStore_LoginMergesExactlyOnce(t *testing.T) {
	var mergeCalls int
	mock := &api.Mock{
		LoginFunc: func(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error) {
			return authedResult(), nil
		},
		MergeCartFunc: func(ctx context.Context) error {
			mergeCalls++
			return nil
		},
	}

	creds := testCreds(t)
	cart := NewCart(CartConfig{API: mock, Notifier: &recordingNotifier{}})
	s := NewAuth(AuthConfig{API: mock, Creds: creds, Cart: cart, Notifier: &recordingNotifier{}})

	requires2FA, err := s.Login(context.Background(), "jane@example.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if requires2FA {
		t.Fatal("unexpected 2FA challenge")
	}

	if mergeCalls != 1 {
		t.Errorf("merge calls = %d, want exactly 1", mergeCalls)
	}
	if !s.IsAuthenticated() {
		t.Error("not authenticated after login")
	}
	if u := s.CurrentUser(); u == nil || u.Email != "jane@example.com" {
		t.Errorf("current user = %+v", u)
	}
	if tok := creds.Tokens(); tok.AccessToken != "acc-1" || tok.RefreshToken != "ref-1" {
		t.Errorf("stored tokens = %+v", tok)
	}
}

func TestAuthStore_MergeFailureSwallowed(t *testing.T) {
	var mergeCalls int
	mock := &api.Mock{
		LoginFunc: func(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error) {
			return authedResult(), nil
		},
		MergeCartFunc: func(ctx context.Context) error {
			mergeCalls++
			return model.NewUpstreamError("storefront", errors.New("merge endpoint down"))
		},
	}

	notifier := &recordingNotifier{}
	cart := NewCart(CartConfig{API: mock, Notifier: notifier})
	s := NewAuth(AuthConfig{API: mock, Creds: testCreds(t), Cart: cart, Notifier: notifier})

	_, err := s.Login(context.Background(), "jane@example.com", "pw")
	if err != nil {
		t.Fatalf("Login failed on merge error: %v", err)
	}

	if !s.IsAuthenticated() {
		t.Error("merge failure blocked authentication")
	}
	if mergeCalls != 1 {
		t.Errorf("merge calls = %d, want 1 (no retry)", mergeCalls)
	}
	if notifier.errorCount() != 0 {
		t.Errorf("merge failure surfaced to the user: %v", notifier.errors)
	}
}

func TestAuthStore_LoginFailureReturnsError(t *testing.T) {
	var mergeCalls int
	mock := &api.Mock{
		LoginFunc: func(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error) {
			return nil, model.NewUnauthorizedError("invalid credentials")
		},
		MergeCartFunc: func(ctx context.Context) error {
			mergeCalls++
			return nil
		},
	}

	s := NewAuth(AuthConfig{API: mock, Creds: testCreds(t), Notifier: &recordingNotifier{}})

	_, err := s.Login(context.Background(), "jane@example.com", "wrong")
	if !errors.Is(err, model.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if s.IsAuthenticated() {
		t.Error("authenticated after failed login")
	}
	if mergeCalls != 0 {
		t.Errorf("merge attempted after failed login (%d calls)", mergeCalls)
	}
}

func TestAuthStore_TwoFactorFlow(t *testing.T) {
	var mergeCalls int
	mock := &api.Mock{
		LoginFunc: func(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error) {
			return &model.AuthResult{Require2FA: true, TempToken: "temp-1"}, nil
		},
		Verify2FAFunc: func(ctx context.Context, req model.Verify2FARequest) (*model.AuthResult, error) {
			if req.TempToken != "temp-1" {
				t.Errorf("temp token = %q, want temp-1", req.TempToken)
			}
			if req.Code != "123456" {
				t.Errorf("code = %q, want 123456", req.Code)
			}
			return authedResult(), nil
		},
		MergeCartFunc: func(ctx context.Context) error {
			mergeCalls++
			return nil
		},
	}

	s := NewAuth(AuthConfig{API: mock, Creds: testCreds(t), Notifier: &recordingNotifier{}})

	requires2FA, err := s.Login(context.Background(), "jane@example.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !requires2FA {
		t.Fatal("expected 2FA challenge")
	}
	if s.IsAuthenticated() {
		t.Error("authenticated before 2FA verification")
	}
	if mergeCalls != 0 {
		t.Error("merge attempted before 2FA verification")
	}
	if !s.Pending2FA() {
		t.Error("no pending 2FA state recorded")
	}

	if err := s.Verify2FA(context.Background(), "123456"); err != nil {
		t.Fatalf("Verify2FA: %v", err)
	}
	if !s.IsAuthenticated() {
		t.Error("not authenticated after 2FA verification")
	}
	if mergeCalls != 1 {
		t.Errorf("merge calls = %d, want 1", mergeCalls)
	}
	if s.Pending2FA() {
		t.Error("pending 2FA state not cleared")
	}
}

func TestAuthStore_Verify2FAWithoutPendingLogin(t *testing.T) {
	s := NewAuth(AuthConfig{API: &api.Mock{}, Creds: testCreds(t), Notifier: &recordingNotifier{}})
	if err := s.Verify2FA(context.Background(), "123456"); err == nil {
		t.Error("expected error without pending login")
	}
}

func TestAuthStore_RegisterMerges(t *testing.T) {
	var mergeCalls int
	mock := &api.Mock{
		RegisterFunc: func(ctx context.Context, req model.RegisterRequest) (*model.AuthResult, error) {
			return authedResult(), nil
		},
		MergeCartFunc: func(ctx context.Context) error {
			mergeCalls++
			return nil
		},
	}

	s := NewAuth(AuthConfig{API: mock, Creds: testCreds(t), Notifier: &recordingNotifier{}})
	if err := s.Register(context.Background(), "Jane", "jane@example.com", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if mergeCalls != 1 {
		t.Errorf("merge calls = %d, want 1", mergeCalls)
	}
	if !s.IsAuthenticated() {
		t.Error("not authenticated after register")
	}
}

func TestAuthStore_LogoutKeepsGuestSession(t *testing.T) {
	var clearCalls int
	mock := &api.Mock{
		LoginFunc: func(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error) {
			return authedResult(), nil
		},
		ClearCartFunc: func(ctx context.Context) error {
			clearCalls++
			return nil
		},
	}

	creds := testCreds(t)
	if err := creds.SaveSessionID("guest-1"); err != nil {
		t.Fatalf("save session: %v", err)
	}

	cart := NewCart(CartConfig{API: mock, Notifier: &recordingNotifier{}})
	s := NewAuth(AuthConfig{API: mock, Creds: creds, Cart: cart, Notifier: &recordingNotifier{}})

	if _, err := s.Login(context.Background(), "jane@example.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	s.Logout()

	if s.IsAuthenticated() {
		t.Error("still authenticated after logout")
	}
	if s.CurrentUser() != nil {
		t.Error("user survived logout")
	}
	if tok := creds.Tokens(); tok.AccessToken != "" {
		t.Errorf("tokens survived logout: %+v", tok)
	}
	if sid := creds.SessionID(); sid != "guest-1" {
		t.Errorf("guest session id = %q, want guest-1 kept", sid)
	}
	if clearCalls != 0 {
		t.Errorf("logout called the server %d times", clearCalls)
	}
	if got := cart.Snapshot(); got.ItemCount != 0 {
		t.Errorf("cart mirror not reset on logout: %+v", got)
	}
}

func TestAuthStore_GuestToUserScenario(t *testing.T) {
	// Guest adds P1 (qty 2, unit 100): server cart says subtotal=200,
	// itemCount=2. After login the merge runs and the follow-up fetch
	// reflects the server's merged state as-is.
	server := &model.Cart{
		Items:     []model.CartItem{{ID: "l1", ProductID: "P1", Quantity: 2, UnitPrice: 100, LineTotal: 200}},
		Subtotal:  200,
		ItemCount: 2,
	}
	merged := &model.Cart{
		Items: []model.CartItem{
			{ID: "l1", ProductID: "P1", Quantity: 2, UnitPrice: 100, LineTotal: 200},
			{ID: "l2", ProductID: "P2", Quantity: 1, UnitPrice: 500, LineTotal: 500},
		},
		Subtotal:  700,
		ItemCount: 3,
	}

	mock := &api.Mock{
		GetCartFunc: func(ctx context.Context) (*model.Cart, error) {
			c := *server
			return &c, nil
		},
		AddToCartFunc: func(ctx context.Context, req model.AddToCartRequest) error { return nil },
		LoginFunc: func(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error) {
			return authedResult(), nil
		},
		MergeCartFunc: func(ctx context.Context) error {
			server = merged
			return nil
		},
	}

	cart := NewCart(CartConfig{API: mock, Notifier: &recordingNotifier{}})
	auth := NewAuth(AuthConfig{API: mock, Creds: testCreds(t), Cart: cart, Notifier: &recordingNotifier{}})

	cart.Add(context.Background(), "P1", "", 2)
	if got := cart.Snapshot(); got.Subtotal != 200 || got.ItemCount != 2 {
		t.Fatalf("guest cart = %+v, want subtotal=200 itemCount=2", got)
	}

	if _, err := auth.Login(context.Background(), "jane@example.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	got := cart.Snapshot()
	if got.Subtotal != 700 || got.ItemCount != 3 {
		t.Errorf("merged cart = %+v, want server's merged state", got)
	}
	if len(got.Items) != 2 {
		t.Errorf("merged items = %d, want 2", len(got.Items))
	}
}

func TestAuthStore_HandleAuthExpired(t *testing.T) {
	notifier := &recordingNotifier{}
	mock := &api.Mock{
		LoginFunc: func(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error) {
			return authedResult(), nil
		},
	}
	cart := NewCart(CartConfig{API: mock, Notifier: notifier})
	s := NewAuth(AuthConfig{API: mock, Creds: testCreds(t), Cart: cart, Notifier: notifier})

	if _, err := s.Login(context.Background(), "jane@example.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	s.HandleAuthExpired()

	if s.CurrentUser() != nil {
		t.Error("user survived auth expiry")
	}
	if notifier.errorCount() != 1 {
		t.Errorf("notifications = %d, want 1", notifier.errorCount())
	}
}
