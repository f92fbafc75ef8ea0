package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"perdecim-client/internal/credentials"
	"perdecim-client/internal/model"
	"perdecim-client/internal/transport"
)

// userAgent identifies this client to the storefront.
// Required: the CDN in front of the store rate-limits requests without one.
const userAgent = "perdecim-client/1.0"

// defaultTimeout bounds every storefront call. The browser storefront had
// no client-side timeout at all and a hung request hung its loading
// indicator forever; here a hung request fails like any other.
const defaultTimeout = 30 * time.Second

// Config holds Client construction parameters.
type Config struct {
	// BaseURL is the storefront API root, e.g. https://api.perdecim.com.
	BaseURL string

	// Creds is the durable storage the client reads tokens and the guest
	// session id from, and writes refreshed tokens and server-issued
	// session ids to.
	Creds *credentials.Store

	// OnAuthExpired fires after a failed token refresh, once the stored
	// tokens have been purged. The UI analogue is the hard navigation to
	// the login page. Optional.
	OnAuthExpired func()

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// HTTPClient overrides the default client. Used by tests; when nil a
	// client with the browser-fingerprint transport (https) or a plain
	// transport (http, local dev) is built.
	HTTPClient *http.Client
}

// Client implements Storefront against the live API.
//
// Refresh policy: a 401 carrying TOKEN_EXPIRED triggers exactly one
// transparent refresh-token exchange and one retry of the original request.
// The retry guard is local to each call, not client state, so concurrent
// expired calls each refresh independently with no coalescing, matching
// the storefront's behavior.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	creds         *credentials.Store
	logger        *slog.Logger
	onAuthExpired func()

	versionWarn sync.Once
}

// New creates a storefront API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.Creds == nil {
		return nil, fmt.Errorf("credentials store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
		// The fingerprint transport only makes sense for TLS origins;
		// local development servers speak plain HTTP.
		if u.Scheme == "https" {
			httpClient.Transport = transport.NewBrowserTransport(defaultTimeout)
		}
	}

	return &Client{
		httpClient:    httpClient,
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		creds:         cfg.Creds,
		logger:        logger,
		onAuthExpired: cfg.OnAuthExpired,
	}, nil
}

var _ Storefront = (*Client)(nil)

// do executes a request with the standard headers and decodes the response
// into out. On a TOKEN_EXPIRED 401 it refreshes once and retries once; a
// failed refresh purges the stored tokens, fires OnAuthExpired, and returns
// a terminal unauthorized error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.doWithHeaders(ctx, method, path, nil, body, out)
}

func (c *Client) doWithHeaders(ctx context.Context, method, path string, headers map[string]string, body, out any) error {
	err := c.doOnce(ctx, method, path, headers, body, out)
	if !model.IsTokenExpired(err) {
		return err
	}

	if rerr := c.refreshTokens(ctx); rerr != nil {
		c.logger.Warn("token refresh failed, forcing re-authentication", "error", rerr)
		if cerr := c.creds.ClearTokens(); cerr != nil {
			c.logger.Error("clearing tokens", "error", cerr)
		}
		if c.onAuthExpired != nil {
			c.onAuthExpired()
		}
		return model.NewUnauthorizedError("session expired, please sign in again")
	}

	// Second and final attempt with fresh credentials. A repeat
	// TOKEN_EXPIRED here propagates as-is; nothing retries twice.
	return c.doOnce(ctx, method, path, headers, body, out)
}

// doOnce is a single request/response cycle with no retry logic.
func (c *Client) doOnce(ctx context.Context, method, path string, headers map[string]string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req, headers)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewUpstreamError("storefront", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	c.checkAPIVersion(resp.Header.Get("X-Api-Version"))

	if resp.StatusCode >= 400 {
		return c.parseError(resp.StatusCode, respBody, resp.Header)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}

// setHeaders attaches the standard request headers: bearer token when
// authenticated, guest session id when one exists, plus the stable device
// id. Exactly one identity mode being active is the server's concern; the
// client sends what it has.
func (c *Client) setHeaders(req *http.Request, extra map[string]string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Device-Id", c.creds.DeviceID())

	if tok := c.creds.Tokens().AccessToken; tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if sid := c.creds.SessionID(); sid != "" {
		req.Header.Set("X-Session-Id", sid)
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}
}

// refreshTokens exchanges the stored refresh token for a new pair and
// persists it. Goes through doOnce directly: the refresh call itself must
// never trigger another refresh.
func (c *Client) refreshTokens(ctx context.Context) error {
	refresh := c.creds.Tokens().RefreshToken
	if refresh == "" {
		return fmt.Errorf("no refresh token stored")
	}

	var pair model.TokenPair
	err := c.doOnce(ctx, http.MethodPost, "/auth/refresh-token", nil,
		model.RefreshRequest{RefreshToken: refresh}, &pair)
	if err != nil {
		return fmt.Errorf("refreshing token: %w", err)
	}
	if !pair.Valid() {
		return fmt.Errorf("refresh returned incomplete token pair")
	}
	if err := c.creds.SaveTokens(pair); err != nil {
		return fmt.Errorf("persisting refreshed tokens: %w", err)
	}

	c.logger.Debug("access token refreshed")
	return nil
}

// apiErrorBody is the storefront's error envelope.
// Older endpoints use "error", newer ones "message"; both appear in the wild.
type apiErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (b *apiErrorBody) text() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}

// parseError converts a storefront error response to a model.APIError.
func (c *Client) parseError(statusCode int, body []byte, header http.Header) error {
	var envelope apiErrorBody
	json.Unmarshal(body, &envelope) // Best effort parse

	switch statusCode {
	case 401:
		if envelope.Code == "TOKEN_EXPIRED" {
			return model.NewTokenExpiredError()
		}
		msg := envelope.text()
		if msg == "" {
			msg = "storefront authentication failed"
		}
		return model.NewUnauthorizedError(msg)
	case 403:
		msg := envelope.text()
		if msg == "" {
			msg = "storefront access denied"
		}
		apiErr := model.NewUnauthorizedError(msg)
		apiErr.StatusCode = statusCode
		return apiErr
	case 404:
		apiErr := model.NewNotFoundError("resource")
		if msg := envelope.text(); msg != "" {
			apiErr.Message = msg
		}
		return apiErr
	case 429:
		return model.NewRateLimitError("storefront", parseRateLimitReset(header))
	case 400, 409, 422:
		msg := envelope.text()
		if msg == "" {
			msg = "invalid request"
		}
		apiErr := model.NewInvalidRequestError(msg)
		apiErr.StatusCode = statusCode
		return apiErr
	default:
		return model.NewUpstreamError("storefront",
			fmt.Errorf("status %d: %s - %s", statusCode, envelope.Code, envelope.text()))
	}
}
