package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"portalmcp/internal/config"
	"portalmcp/pkg/logging"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// Device-flow endpoint paths on the portal.
const (
	deviceCodePath = "/api/mcp/auth/device-code"
	tokenPath      = "/api/mcp/auth/token"
	verifyPath     = "/api/mcp/auth/verify"
)

// deviceCodeGrantType is the grant_type sent when polling the token
// endpoint (RFC 8628).
const deviceCodeGrantType = "urn:ietf:params:oauth:grant-type:device_code"

const (
	// minPollInterval is the floor on the poll cadence regardless of what
	// the server asks for.
	minPollInterval = 5 * time.Second

	// slowDownDelay is the extra wait injected after a slow_down response.
	slowDownDelay = 5 * time.Second

	// defaultMaxPollAttempts bounds the poll loop. At the minimum interval
	// this is roughly five minutes of wall clock.
	defaultMaxPollAttempts = 60
)

// DeviceCodeGrant is the transient state of one login attempt. It is
// consumed entirely within the polling loop and never persisted.
type DeviceCodeGrant struct {
	DeviceCode              string `json:"device_code"`
	UserCode                string `json:"user_code"`
	VerificationURI         string `json:"verification_uri"`
	VerificationURIComplete string `json:"verification_uri_complete"`
	ExpiresIn               int    `json:"expires_in"`
	Interval                int    `json:"interval"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Error        string `json:"error"`
}

// pollOutcome classifies one token-endpoint poll attempt. Exactly one of
// the three states applies: keep polling, stop with a terminal error, or
// succeed with a token.
type pollOutcome struct {
	token    *tokenResponse
	terminal error
	slowDown bool
}

// AuthenticatorConfig configures the device-flow authenticator.
type AuthenticatorConfig struct {
	// PortalURL is the base URL of the portal.
	PortalURL string

	// ClientID identifies this client to the portal's OAuth endpoints.
	ClientID string

	// Scope is the OAuth scope requested during login.
	Scope string

	// Store receives the session produced by a successful login.
	Store *SessionStore

	// HTTPClient is used for all requests. Defaults to a client with the
	// standard request timeout.
	HTTPClient *http.Client

	// UserOut receives the verification instructions shown to the user.
	// Defaults to stderr; stdout belongs to the MCP transport.
	UserOut io.Writer

	// MaxPollAttempts overrides the poll budget. Zero means the default.
	MaxPollAttempts int
}

// Authenticator orchestrates the OAuth 2.0 Device Authorization Grant
// against the portal: request a device code, send the user to the browser,
// poll the token endpoint, verify the resulting identity, and persist the
// session.
//
// Concurrent calls to Authenticate share a single login flight so two tool
// invocations cannot race through independent device flows and clobber each
// other's persisted session.
type Authenticator struct {
	store           *SessionStore
	httpClient      *http.Client
	portalURL       string
	clientID        string
	scope           string
	userOut         io.Writer
	maxPollAttempts int

	group singleflight.Group

	// Test seams.
	openBrowser func(string) error
	wait        func(ctx context.Context, d time.Duration) error
}

// NewAuthenticator creates a device-flow authenticator.
func NewAuthenticator(cfg AuthenticatorConfig) *Authenticator {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.DefaultRequestTimeout}
	}
	userOut := cfg.UserOut
	if userOut == nil {
		userOut = os.Stderr
	}
	maxAttempts := cfg.MaxPollAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxPollAttempts
	}

	return &Authenticator{
		store:           cfg.Store,
		httpClient:      httpClient,
		portalURL:       cfg.PortalURL,
		clientID:        cfg.ClientID,
		scope:           cfg.Scope,
		userOut:         userOut,
		maxPollAttempts: maxAttempts,
		openBrowser:     OpenBrowser,
		wait:            waitFor,
	}
}

// Authenticate returns the current session, running the device flow first
// if no valid session exists. Terminal failures are returned as
// *AuthenticationError.
func (a *Authenticator) Authenticate(ctx context.Context) (*Session, error) {
	// Fast path: every tool invocation after first login lands here.
	if session := a.store.Load(); session != nil {
		return session, nil
	}

	result, err, _ := a.group.Do("login", func() (interface{}, error) {
		// A concurrent invocation may have completed the flow while this
		// one waited to join the flight.
		if session := a.store.Load(); session != nil {
			return session, nil
		}
		return a.login(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Session), nil
}

// login runs one full device-flow attempt.
func (a *Authenticator) login(ctx context.Context) (*Session, error) {
	attemptID := uuid.NewString()
	logging.Info("Auth", "SECURITY_AUDIT: starting device-flow login (attempt %s)", attemptID)

	grant, err := a.requestDeviceCode(ctx)
	if err != nil {
		return nil, err
	}

	a.presentVerification(grant)

	token, err := a.pollForToken(ctx, grant)
	if err != nil {
		logging.Warn("Auth", "SECURITY_AUDIT: device-flow login failed (attempt %s): %v", attemptID, err)
		return nil, err
	}

	user, err := a.verifyToken(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	session, err := a.store.StoreToken(&oauth2.Token{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
	}, *user)
	if err != nil {
		return nil, err
	}

	logging.Info("Auth", "SECURITY_AUDIT: device-flow login succeeded for %s (attempt %s)", user.Email, attemptID)
	return session, nil
}

// requestDeviceCode performs step one of the flow. A non-2xx response is
// an immediate terminal failure.
func (a *Authenticator) requestDeviceCode(ctx context.Context) (*DeviceCodeGrant, error) {
	body := map[string]string{
		"client_id": a.clientID,
		"scope":     a.scope,
	}

	resp, err := a.postJSON(ctx, a.portalURL+deviceCodePath, body)
	if err != nil {
		return nil, NewAuthenticationError(CodeDeviceCodeFailed,
			"failed to reach the portal to start login, check your network and portal URL", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewAuthenticationError(CodeDeviceCodeFailed,
			fmt.Sprintf("device code request failed with status %d, try again", resp.StatusCode), nil)
	}

	var grant DeviceCodeGrant
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return nil, NewAuthenticationError(CodeMalformedResponse,
			"portal returned an unreadable device code response", err)
	}
	if grant.DeviceCode == "" || grant.UserCode == "" || grant.VerificationURI == "" {
		return nil, NewAuthenticationError(CodeMalformedResponse,
			"portal device code response is missing required fields", nil)
	}

	return &grant, nil
}

// presentVerification shows the user where to approve the login. A browser
// that fails to open only degrades to manual instructions.
func (a *Authenticator) presentVerification(grant *DeviceCodeGrant) {
	target := grant.VerificationURIComplete
	if target == "" {
		target = grant.VerificationURI
	}

	fmt.Fprintf(a.userOut, "\nTo sign in to the AppForge portal, visit:\n\n    %s\n\nand enter the code: %s\n\n", target, grant.UserCode)

	if err := a.openBrowser(target); err != nil {
		logging.Debug("Auth", "Could not open browser: %v", err)
		fmt.Fprintln(a.userOut, "Could not open a browser automatically, please open the URL above manually.")
	}
}

// pollForToken drives the bounded polling loop. The cadence honors the
// server's requested interval with a floor of minPollInterval, and a
// slow_down response stretches the next wait by slowDownDelay.
func (a *Authenticator) pollForToken(ctx context.Context, grant *DeviceCodeGrant) (*tokenResponse, error) {
	interval := time.Duration(grant.Interval) * time.Second
	if interval < minPollInterval {
		interval = minPollInterval
	}

	for attempt := 0; attempt < a.maxPollAttempts; attempt++ {
		if err := a.wait(ctx, interval); err != nil {
			return nil, NewAuthenticationError(CodeLoginTimeout, "login cancelled", err)
		}

		outcome := a.pollOnce(ctx, grant.DeviceCode)
		switch {
		case outcome.token != nil:
			return outcome.token, nil
		case outcome.terminal != nil:
			return nil, outcome.terminal
		case outcome.slowDown:
			if err := a.wait(ctx, slowDownDelay); err != nil {
				return nil, NewAuthenticationError(CodeLoginTimeout, "login cancelled", err)
			}
		}
	}

	return nil, NewAuthenticationError(CodeLoginTimeout,
		"login timed out waiting for approval, try again", nil)
}

// pollOnce performs one token-endpoint request and classifies the result.
// Transport errors are transient: they consume an attempt slot but do not
// terminate the loop.
func (a *Authenticator) pollOnce(ctx context.Context, deviceCode string) pollOutcome {
	body := map[string]string{
		"client_id":   a.clientID,
		"device_code": deviceCode,
		"grant_type":  deviceCodeGrantType,
	}

	resp, err := a.postJSON(ctx, a.portalURL+tokenPath, body)
	if err != nil {
		if ctx.Err() != nil {
			return pollOutcome{terminal: NewAuthenticationError(CodeLoginTimeout, "login cancelled", ctx.Err())}
		}
		logging.Debug("Auth", "Transient error polling token endpoint: %v", err)
		return pollOutcome{}
	}
	defer resp.Body.Close()

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return pollOutcome{terminal: NewAuthenticationError(CodeMalformedResponse,
				"portal returned an unreadable token response", err)}
		}
		logging.Debug("Auth", "Unreadable poll error body (status %d): %v", resp.StatusCode, err)
		return pollOutcome{}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if token.AccessToken == "" || token.ExpiresIn <= 0 {
			return pollOutcome{terminal: NewAuthenticationError(CodeMalformedResponse,
				"portal token response is missing required fields", nil)}
		}
		return pollOutcome{token: &token}
	}

	// RFC 8628 error taxonomy: authorization_pending and slow_down mean
	// keep polling, expired_token and access_denied are terminal, and any
	// other code is surfaced as-is.
	switch token.Error {
	case "authorization_pending":
		return pollOutcome{}
	case "slow_down":
		return pollOutcome{slowDown: true}
	case "expired_token":
		return pollOutcome{terminal: NewAuthenticationError(CodeLoginTimeout,
			"login timed out, the device code expired before approval, try again", nil)}
	case "access_denied":
		return pollOutcome{terminal: NewAuthenticationError(CodeAccessDenied,
			"login was denied in the browser", nil)}
	default:
		return pollOutcome{terminal: NewAuthenticationError(CodeTokenError,
			fmt.Sprintf("login failed: %s", token.Error), nil)}
	}
}

// VerifyStoredSession checks the stored session against the portal's
// verify endpoint and returns the server-confirmed identity. This catches
// tokens revoked server side before their local expiry passes. Returns
// ErrNotAuthenticated when no session is stored.
func (a *Authenticator) VerifyStoredSession(ctx context.Context) (*User, error) {
	session := a.store.Load()
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	return a.verifyToken(ctx, session.AccessToken)
}

// verifyToken exchanges the access token for the user identity.
func (a *Authenticator) verifyToken(ctx context.Context, accessToken string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.portalURL+verifyPath, nil)
	if err != nil {
		return nil, NewAuthenticationError(CodeVerifyFailed, "failed to build verify request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, NewAuthenticationError(CodeVerifyFailed, "failed to verify token", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewAuthenticationError(CodeVerifyFailed,
			fmt.Sprintf("failed to verify token, portal returned status %d", resp.StatusCode), nil)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, NewAuthenticationError(CodeMalformedResponse,
			"portal returned an unreadable identity response", err)
	}
	if user.ID == "" || user.Email == "" {
		return nil, NewAuthenticationError(CodeMalformedResponse,
			"portal identity response is missing required fields", nil)
	}

	return &user, nil
}

func (a *Authenticator) postJSON(ctx context.Context, url string, body map[string]string) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return a.httpClient.Do(req)
}

// waitFor sleeps for d, waking early when the context is cancelled.
func waitFor(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
