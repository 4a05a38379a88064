package jquants

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/tkohno/guardian/internal/contracts"
	"github.com/tkohno/guardian/pkg/config"
	"github.com/tkohno/guardian/pkg/httputil"
	"github.com/tkohno/guardian/pkg/logger"
)

// Client handles communication with the J-Quants API.
// All J-Quants calls go through this client.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.JQuantsConfig

	mu      sync.RWMutex
	session Session
}

// Session is an authenticated J-Quants ID token.
// Implements contracts.Session.
type Session struct {
	IDToken string
}

// Valid reports whether the session carries a token. Token expiry is left to
// the server; an expired token simply fails the next call.
func (s Session) Valid() bool {
	return s.IDToken != ""
}

// NewClient creates a new J-Quants API client.
func NewClient(cfg config.JQuantsConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
	}
}

// authRefreshResponse is the token exchange payload
type authRefreshResponse struct {
	IDToken string `json:"idToken"`
}

// Authenticate exchanges the configured refresh token for an ID token.
// One attempt, no retry beyond the HTTP client's own policy; without a
// refresh token it fails with contracts.ErrInvalidSession so a screening
// pass refuses to start.
func (c *Client) Authenticate(ctx context.Context) (Session, error) {
	if c.cfg.RefreshToken == "" {
		return Session{}, contracts.ErrInvalidSession
	}

	endpoint := fmt.Sprintf("%s/token/auth_refresh?refreshtoken=%s",
		c.cfg.BaseURL, url.QueryEscape(c.cfg.RefreshToken))

	resp, err := c.httpClient.Post(ctx, endpoint, "application/json", nil)
	if err != nil {
		return Session{}, fmt.Errorf("auth_refresh request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Session{}, fmt.Errorf("auth_refresh failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result authRefreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Session{}, fmt.Errorf("decode auth_refresh response: %w", err)
	}

	if result.IDToken == "" {
		return Session{}, fmt.Errorf("auth_refresh returned empty idToken")
	}

	session := Session{IDToken: result.IDToken}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	c.logger.Info("J-Quants session established")
	return session, nil
}

// Session returns the last established session.
func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// get performs an authorized GET against the API.
func (c *Client) get(ctx context.Context, path string, query url.Values, token string) (*http.Response, error) {
	endpoint := fmt.Sprintf("%s%s", c.cfg.BaseURL, path)
	if len(query) > 0 {
		endpoint = fmt.Sprintf("%s?%s", endpoint, query.Encode())
	}

	return c.httpClient.GetWithHeaders(ctx, endpoint, map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	})
}
