package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"perdecim-client/internal/api"
	"perdecim-client/internal/credentials"
	"perdecim-client/internal/model"
)

// AuthStore owns the authentication session: the current user, the stored
// token pair, and the pending two-factor handshake. After any successful
// authentication it issues exactly one best-effort guest cart merge; merge
// failures are logged and swallowed, never surfaced and never retried.
type AuthStore struct {
	api      api.Storefront
	creds    *credentials.Store
	cart     *CartStore
	notifier Notifier
	logger   *slog.Logger

	mu        sync.Mutex
	user      *model.User
	tempToken string
}

// AuthConfig holds AuthStore construction parameters.
type AuthConfig struct {
	API      api.Storefront
	Creds    *credentials.Store
	Cart     *CartStore
	Notifier Notifier
	Logger   *slog.Logger
}

// NewAuth creates an auth store. A stored access token from a previous run
// counts as authenticated; the user record is filled in lazily via Me.
func NewAuth(cfg AuthConfig) *AuthStore {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = &LogNotifier{Logger: logger}
	}
	return &AuthStore{
		api:      cfg.API,
		creds:    cfg.Creds,
		cart:     cfg.Cart,
		notifier: notifier,
		logger:   logger,
	}
}

// IsAuthenticated reports whether a token pair is stored.
func (s *AuthStore) IsAuthenticated() bool {
	return s.creds.Tokens().Valid()
}

// CurrentUser returns the user from the last successful auth call, or nil.
func (s *AuthStore) CurrentUser() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Pending2FA reports whether a login is waiting for a verification code.
func (s *AuthStore) Pending2FA() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tempToken != ""
}

// Login authenticates with email and password. When the account has
// two-factor enabled the server withholds tokens and returns a temp token;
// the store records it and reports requires2FA=true, and the session stays
// unauthenticated until Verify2FA succeeds.
func (s *AuthStore) Login(ctx context.Context, email, password string) (requires2FA bool, err error) {
	res, err := s.api.Login(ctx, model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return false, err
	}

	if res.Require2FA {
		s.mu.Lock()
		s.tempToken = res.TempToken
		s.mu.Unlock()
		return true, nil
	}

	return false, s.completeAuth(ctx, res)
}

// Register creates an account and signs it in.
func (s *AuthStore) Register(ctx context.Context, name, email, password string) error {
	res, err := s.api.Register(ctx, model.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return err
	}
	return s.completeAuth(ctx, res)
}

// Verify2FA completes a pending two-factor login with the emailed code.
func (s *AuthStore) Verify2FA(ctx context.Context, code string) error {
	s.mu.Lock()
	temp := s.tempToken
	s.mu.Unlock()
	if temp == "" {
		return fmt.Errorf("no two-factor login pending")
	}

	res, err := s.api.Verify2FA(ctx, model.Verify2FARequest{TempToken: temp, Code: code})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.tempToken = ""
	s.mu.Unlock()

	return s.completeAuth(ctx, res)
}

// Logout drops the session locally: tokens and user are cleared and the
// cart mirror is reset. The guest session id survives, so an anonymous
// cart can start accumulating again immediately. No server call.
func (s *AuthStore) Logout() {
	if err := s.creds.ClearTokens(); err != nil {
		s.logger.Error("clearing tokens on logout", "error", err)
	}
	s.mu.Lock()
	s.user = nil
	s.tempToken = ""
	s.mu.Unlock()

	if s.cart != nil {
		s.cart.ResetLocal()
	}
}

// HandleAuthExpired resets the local session after the API client purged
// the stored tokens. Wired as the client's OnAuthExpired hook.
func (s *AuthStore) HandleAuthExpired() {
	s.mu.Lock()
	s.user = nil
	s.tempToken = ""
	s.mu.Unlock()

	if s.cart != nil {
		s.cart.ResetLocal()
	}
	s.notifier.Error("Your session has expired. Please sign in again.")
}

// completeAuth persists the token pair and user, then runs the one
// post-login cart merge and refresh.
func (s *AuthStore) completeAuth(ctx context.Context, res *model.AuthResult) error {
	pair := res.Tokens()
	if !pair.Valid() {
		return fmt.Errorf("authentication response missing tokens")
	}
	if err := s.creds.SaveTokens(pair); err != nil {
		return fmt.Errorf("persisting tokens: %w", err)
	}

	s.mu.Lock()
	s.user = res.User
	s.mu.Unlock()

	s.mergeGuestCart(ctx)
	return nil
}

// mergeGuestCart folds the anonymous cart into the account. Best effort:
// a failure leaves the guest cart intact on the server and the shopper
// simply sees it again next time they browse anonymously.
func (s *AuthStore) mergeGuestCart(ctx context.Context) {
	if err := s.api.MergeCart(ctx); err != nil {
		s.logger.Warn("guest cart merge failed", "error", err)
	}
	if s.cart != nil {
		s.cart.Fetch(ctx)
	}
}
