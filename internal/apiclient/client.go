// Package apiclient wraps the remote geolocation backend's HTTP API.
// Every call attaches the current bearer token, and every
// geolocation-returning call runs the response through geo.Normalize
// before handing it to callers.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"geodash/internal/geo"
	"geodash/internal/logger"
	"geodash/models"
)

// TokenSource supplies the auth headers attached to outgoing requests.
// An empty map means the request goes out unauthenticated.
type TokenSource interface {
	AuthHeader() map[string]string
}

type Client struct {
	baseURL     string
	tokens      TokenSource
	httpClient  *http.Client
	log         *logger.Logger
	devFallback bool
}

type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client, mainly for
// tests driving an httptest server.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithDevFallback makes geolocation calls degrade to canned mock data
// instead of failing, mirroring local-development behavior.
func WithDevFallback() Option {
	return func(c *Client) { c.devFallback = true }
}

func New(baseURL string, tokens TokenSource, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
		log:        log.WithComponent("apiclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoginRequest is the login payload. IP is optional; it is omitted
// when the caller's public address could not be resolved.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IP       string `json:"ip,omitempty"`
}

// LoginReply is the raw login response: the decoded body plus the
// Authorization response header, both of which may carry the token.
type LoginReply struct {
	Body       map[string]any
	AuthHeader string
}

// Login posts credentials. It is the one call that goes out without a
// bearer token attached.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginReply, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/login", req, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp)
	}

	reply := &LoginReply{
		Body:       map[string]any{},
		AuthHeader: resp.Header.Get("Authorization"),
	}
	// A body that fails to decode is treated as empty; the token may
	// still arrive in the header.
	_ = json.NewDecoder(resp.Body).Decode(&reply.Body)
	return reply, nil
}

// Logout posts the logout request. Callers clear local state no matter
// what this returns.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/logout", map[string]any{}, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp)
	}
	return nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var raw map[string]any
	if err := c.getJSON(ctx, "/api/me", &raw); err != nil {
		return nil, err
	}

	user := &models.User{}
	if id, ok := raw["id"]; ok {
		user.ID = fmt.Sprintf("%v", id)
	}
	user.Email, _ = raw["email"].(string)
	user.Name, _ = raw["name"].(string)
	delete(raw, "id")
	delete(raw, "email")
	delete(raw, "name")
	if len(raw) > 0 {
		user.Extra = raw
	}
	return user, nil
}

// Home fetches the geolocation of the caller's own address.
func (c *Client) Home(ctx context.Context, ip string) (geo.Record, error) {
	return c.geoCall(ctx, http.MethodPost, "/api/home", map[string]string{"ip": ip}, ip)
}

// SearchIP fetches the geolocation of an arbitrary address.
func (c *Client) SearchIP(ctx context.Context, ip string) (geo.Record, error) {
	return c.geoCall(ctx, http.MethodPost, "/api/search-ip", map[string]string{"ip": ip}, ip)
}

// ClearSearch resets the backend's search state and returns the
// caller's own geolocation again.
func (c *Client) ClearSearch(ctx context.Context) (geo.Record, error) {
	return c.geoCall(ctx, http.MethodGet, "/api/clear-search", nil, "")
}

// History lists past lookups. The backend wraps the list in different
// envelopes depending on version; all of them are tolerated.
func (c *Client) History(ctx context.Context) ([]models.HistoryItem, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/api/history", &raw); err != nil {
		return nil, err
	}

	items, err := unwrapHistory(raw)
	if err != nil {
		c.log.Warn().Err(err).Msg("unexpected history response shape")
		return []models.HistoryItem{}, nil
	}
	return items, nil
}

// HistoryItem fetches the stored geolocation for one history entry.
func (c *Client) HistoryItem(ctx context.Context, id string) (geo.Record, error) {
	return c.geoCall(ctx, http.MethodGet, "/api/history/"+id, nil, "")
}

// DeleteHistories removes the given history entries in one bulk call.
// Each id is sent back in whatever JSON type the backend delivered it,
// so string and numeric ids both match on strictly-typed backends.
func (c *Client) DeleteHistories(ctx context.Context, ids []any) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/history-delete", map[string]any{"ids": ids}, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp)
	}
	return nil
}

// geoCall performs a geolocation-returning request and normalizes the
// payload. With the dev fallback enabled, failures and unusable bodies
// degrade to canned data for the requested ip.
func (c *Client) geoCall(ctx context.Context, method, path string, body any, ip string) (geo.Record, error) {
	raw, err := c.rawJSON(ctx, method, path, body)
	if err != nil {
		if c.devFallback {
			c.log.Debug().Err(err).Str("path", path).Msg("falling back to mock geolocation")
			return geo.Mock(ip), nil
		}
		return nil, err
	}

	if _, ok := raw.(map[string]any); !ok && c.devFallback {
		return geo.Mock(ip), nil
	}
	return geo.Normalize(raw), nil
}

func (c *Client) rawJSON(ctx context.Context, method, path string, body any) (any, error) {
	resp, err := c.do(ctx, method, path, body, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp)
	}

	var raw any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", path, err)
	}
	return raw, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) do(ctx context.Context, method, path string, body any, authed bool) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		for k, v := range c.tokens.AuthHeader() {
			req.Header.Set(k, v)
		}
	}
	return c.httpClient.Do(req)
}

// unwrapHistory tolerates the known envelopes around the history list:
// data.history, data, history, or a bare array.
func unwrapHistory(raw json.RawMessage) ([]models.HistoryItem, error) {
	var items []models.HistoryItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var wrapped struct {
		Data    json.RawMessage      `json:"data"`
		History []models.HistoryItem `json:"history"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("history payload is neither a list nor a known envelope")
	}
	if wrapped.History != nil {
		return wrapped.History, nil
	}
	if len(wrapped.Data) > 0 {
		var inner struct {
			History []models.HistoryItem `json:"history"`
		}
		if err := json.Unmarshal(wrapped.Data, &inner); err == nil && inner.History != nil {
			return inner.History, nil
		}
		if err := json.Unmarshal(wrapped.Data, &items); err == nil {
			return items, nil
		}
	}
	return nil, fmt.Errorf("history payload is neither a list nor a known envelope")
}
