package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client represents a Supabase client for the PostgREST and GoTrue APIs
type Client struct {
	URL        string
	ServiceKey string
	HTTPClient *http.Client
}

// User is the subset of a GoTrue user the API needs
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Error is a non-2xx response from Supabase
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("supabase error (status %d): %s", e.StatusCode, e.Body)
}

// Temporary reports whether the request may succeed if retried later.
func (e *Error) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// IsUnavailable reports whether err means Supabase could not be reached or
// answered with a server-side failure.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	// Anything that is not a Supabase response is a transport failure.
	return !errors.Is(err, context.Canceled)
}

// NewClient creates a new Supabase client
func NewClient(baseURL, serviceKey string) *Client {
	return &Client{
		URL:        baseURL,
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Query selects rows from a table. Repeated keys in query are sent as
// separate parameters, so one column can carry several filters.
func (c *Client) Query(ctx context.Context, table string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, table, query, nil)
}

// Insert inserts a record and returns the stored representation
func (c *Client) Insert(ctx context.Context, table string, data interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPost, table, nil, data)
}

// UpdateWhere updates every row matching query and returns the updated rows.
// An empty array means nothing matched.
func (c *Client) UpdateWhere(ctx context.Context, table string, query url.Values, data interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, table, query, data)
}

// DeleteWhere deletes every row matching query and returns the deleted rows
func (c *Client) DeleteWhere(ctx context.Context, table string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, table, query, nil)
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, data interface{}) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode body: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", "Bearer "+c.ServiceKey)
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	return c.send(req)
}

// VerifyToken verifies a user JWT with Supabase Auth
func (c *Client) VerifyToken(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", "Bearer "+token)

	body, err := c.send(req)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	if user.ID == "" {
		return nil, &Error{StatusCode: http.StatusUnauthorized, Body: "token verification returned no user"}
	}
	return &user, nil
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
