package model

// User is the authenticated shopper as returned by the auth endpoints.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// TokenPair is the bearer credential pair: a short-lived access token and
// the long-lived refresh token used for silent renewal.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Valid reports whether both halves of the pair are present.
func (t TokenPair) Valid() bool {
	return t.AccessToken != "" && t.RefreshToken != ""
}

// AuthResult is the response of login/register/2FA-verify.
// Either the token pair and user are set, or Require2FA is true and
// TempToken must be echoed back through Verify2FA.
type AuthResult struct {
	User         *User  `json:"user,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	RedirectPath string `json:"redirectPath,omitempty"`

	Require2FA bool   `json:"require2FA,omitempty"`
	TempToken  string `json:"tempToken,omitempty"`
}

// Tokens returns the token pair embedded in the result.
func (r *AuthResult) Tokens() TokenPair {
	return TokenPair{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Verify2FARequest is the body of POST /auth/2fa/verify.
type Verify2FARequest struct {
	TempToken string `json:"tempToken"`
	Code      string `json:"code"`
}

// RefreshRequest is the body of POST /auth/refresh-token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
