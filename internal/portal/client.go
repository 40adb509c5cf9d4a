package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"portalmcp/internal/auth"
	"portalmcp/internal/config"
	"portalmcp/pkg/logging"
)

// Authenticator produces a valid session, running the device flow when
// necessary. Satisfied by *auth.Authenticator.
type Authenticator interface {
	Authenticate(ctx context.Context) (*auth.Session, error)
}

// Client is the authenticated gateway to the portal's management API.
//
// Every request carries the session's bearer token. A 401 response clears
// the stored session, forces a fresh device-flow login, and retries the
// original call exactly once; if the retry also fails its error is returned
// as-is. There is never a second retry, so a misbehaving server cannot
// trap the process in a re-authentication loop.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	store         *auth.SessionStore
	authenticator Authenticator
}

// ClientConfig configures the portal client.
type ClientConfig struct {
	// BaseURL is the portal base URL.
	BaseURL string

	// Store holds the cached session.
	Store *auth.SessionStore

	// Authenticator runs the device flow when no session exists.
	Authenticator Authenticator

	// HTTPClient is used for all requests. Defaults to a client with the
	// standard request timeout.
	HTTPClient *http.Client
}

// NewClient creates a portal API client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.DefaultRequestTimeout}
	}

	return &Client{
		baseURL:       cfg.BaseURL,
		httpClient:    httpClient,
		store:         cfg.Store,
		authenticator: cfg.Authenticator,
	}
}

// do issues one authenticated request and decodes the 2xx response body
// into out (which may be nil for empty responses).
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, method, path, body, token)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)

		// The portal rejected the token. Clear the session, log in again,
		// and retry exactly once.
		logging.Info("Portal", "SECURITY_AUDIT: portal rejected token, forcing re-authentication")
		if err := c.store.Clear(); err != nil {
			return err
		}

		session, err := c.authenticator.Authenticate(ctx)
		if err != nil {
			return err
		}

		resp, err = c.send(ctx, method, path, body, session.AccessToken)
		if err != nil {
			return err
		}
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode portal response: %w", err)
	}
	return nil
}

// token returns the cached bearer token, authenticating first when absent.
func (c *Client) token(ctx context.Context) (string, error) {
	if token := c.store.AccessToken(); token != "" {
		return token, nil
	}

	session, err := c.authenticator.Authenticate(ctx)
	if err != nil {
		return "", err
	}
	return session.AccessToken, nil
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}, token string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

// mapError converts a non-2xx response into an *APIError. The body's
// message is preferred; an unparsable body falls back to the HTTP status
// text.
func mapError(resp *http.Response) error {
	apiErr := &APIError{
		Status:  resp.StatusCode,
		Message: http.StatusText(resp.StatusCode),
	}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Message != "" {
			apiErr.Message = body.Message
		}
		apiErr.Code = body.Code
	}

	return apiErr
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// ListOrganizations returns the organizations the user belongs to.
func (c *Client) ListOrganizations(ctx context.Context) ([]Organization, error) {
	var orgs []Organization
	if err := c.do(ctx, http.MethodGet, "/api/mcp/organizations", nil, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// ListApplications returns the applications within an organization.
func (c *Client) ListApplications(ctx context.Context, orgID string) ([]Application, error) {
	var apps []Application
	path := fmt.Sprintf("/api/mcp/organizations/%s/applications", url.PathEscape(orgID))
	if err := c.do(ctx, http.MethodGet, path, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// GetApplication returns a single application.
func (c *Client) GetApplication(ctx context.Context, appID string) (*Application, error) {
	var app Application
	path := fmt.Sprintf("/api/mcp/applications/%s", url.PathEscape(appID))
	if err := c.do(ctx, http.MethodGet, path, nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// CreateApplication registers a new application.
func (c *Client) CreateApplication(ctx context.Context, req CreateApplicationRequest) (*Application, error) {
	var app Application
	if err := c.do(ctx, http.MethodPost, "/api/mcp/applications", req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// UpdateApplication changes application metadata.
func (c *Client) UpdateApplication(ctx context.Context, appID string, req UpdateApplicationRequest) (*Application, error) {
	var app Application
	path := fmt.Sprintf("/api/mcp/applications/%s", url.PathEscape(appID))
	if err := c.do(ctx, http.MethodPatch, path, req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// DeleteApplication removes an application.
func (c *Client) DeleteApplication(ctx context.Context, appID string) error {
	path := fmt.Sprintf("/api/mcp/applications/%s", url.PathEscape(appID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// RotateCredentials invalidates the application's client secret and issues
// a new one. The previous secret stops working immediately.
func (c *Client) RotateCredentials(ctx context.Context, appID string) (*Credentials, error) {
	var creds Credentials
	path := fmt.Sprintf("/api/mcp/applications/%s/credentials/rotate", url.PathEscape(appID))
	if err := c.do(ctx, http.MethodPost, path, nil, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// AddRedirectURI registers an additional redirect URI on the application.
func (c *Client) AddRedirectURI(ctx context.Context, appID, uri string) (*Application, error) {
	var app Application
	path := fmt.Sprintf("/api/mcp/applications/%s/redirect-uris", url.PathEscape(appID))
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"uri": uri}, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// RemoveRedirectURI removes a redirect URI from the application.
func (c *Client) RemoveRedirectURI(ctx context.Context, appID, uri string) (*Application, error) {
	var app Application
	path := fmt.Sprintf("/api/mcp/applications/%s/redirect-uris", url.PathEscape(appID))
	if err := c.do(ctx, http.MethodDelete, path, map[string]string{"uri": uri}, &app); err != nil {
		return nil, err
	}
	return &app, nil
}
