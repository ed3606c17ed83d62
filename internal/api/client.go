package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/star/asteroidwatch/internal/model"
)

// Client is a thin HTTP client for the notification service REST API.
// It handles Bearer token authentication and JSON marshaling. Requests
// are never retried automatically; retry is always user-initiated.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a client for the service rooted at baseURL
// (e.g. http://localhost:8081/api).
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LoginSync registers the sign-in with the service, creating the user
// record on first login. The service extracts identity from the token.
func (c *Client) LoginSync(ctx context.Context, token string) (*model.UserAccount, error) {
	var user model.UserAccount
	if err := c.do(ctx, http.MethodPost, "/auth/login-sync", token, struct{}{}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AlertHistory lists the user's received asteroid alerts, newest first.
// An empty history (HTTP 204) yields an empty slice, not an error.
func (c *Client) AlertHistory(ctx context.Context, token string) ([]model.Alert, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	alerts := []model.Alert{}
	if err := c.do(ctx, http.MethodGet, "/notifications/history", token, nil, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// AlertByID retrieves the full detail for a single alert.
func (c *Client) AlertByID(ctx context.Context, token string, id int64) (*model.Alert, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	var alert model.Alert
	path := fmt.Sprintf("/notifications/%d", id)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

// Settings fetches the user record carrying the notification preference.
func (c *Client) Settings(ctx context.Context, token string) (*model.UserAccount, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	var user model.UserAccount
	if err := c.do(ctx, http.MethodGet, "/users/settings", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateSettings requests a change to the notification preference and
// returns the server-confirmed record.
func (c *Client) UpdateSettings(ctx context.Context, token string, enabled bool) (*model.UserAccount, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	var user model.UserAccount
	body := model.Preference{NotificationEnabled: enabled}
	if err := c.do(ctx, http.MethodPut, "/users/settings", token, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// do builds the request, handles auth headers, and JSON (de)serialization.
// A 204 response leaves result untouched and returns nil.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	token string,
	body interface{},
	result interface{},
) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return &RequestError{
			Status: resp.StatusCode,
			Method: method,
			Path:   path,
		}
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}
