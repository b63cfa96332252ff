// Package client is a small REST client for the admin API, used by smsctl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	auditdomain "sms-gateway/backend/internal/audit/domain"
	"sms-gateway/backend/internal/dashboard"
	userdomain "sms-gateway/backend/internal/user/domain"
)

// APIError is a non-2xx response. Message is the body's "error" field when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// User is an account as returned by the admin endpoints, counters included.
type User struct {
	userdomain.User
	dashboard.Stats
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	Message   string    `json:"message"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserInput is the body of create and update calls. ValidUpto is RFC3339 or YYYY-MM-DD.
type UserInput struct {
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	ValidUpto string `json:"validUpto,omitempty"`
}

// Client talks to one server. Token, when set, is sent as a Bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New returns a client for baseURL (e.g. http://localhost:5000).
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) { c.token = token }

// Login authenticates as a user, or as the admin when admin is true, and stores the returned token.
func (c *Client) Login(ctx context.Context, username, password string, admin bool) (*LoginResult, error) {
	path := "/api/login"
	if admin {
		path = "/api/admin/login"
	}
	var res LoginResult
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, path, body, &res); err != nil {
		return nil, err
	}
	c.token = res.Token
	return &res, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var res struct {
		Users []User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, &res); err != nil {
		return nil, err
	}
	return res.Users, nil
}

func (c *Client) CreateUser(ctx context.Context, in UserInput) (*userdomain.User, error) {
	var res struct {
		User *userdomain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/admin/users", in, &res); err != nil {
		return nil, err
	}
	return res.User, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/admin/users/"+url.PathEscape(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser applies in; blank fields are left unchanged by the server.
func (c *Client) UpdateUser(ctx context.Context, id string, in UserInput) error {
	return c.do(ctx, http.MethodPut, "/api/admin/users/"+url.PathEscape(id), in, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) UserStats(ctx context.Context, id string) (*dashboard.Stats, error) {
	var st dashboard.Stats
	if err := c.do(ctx, http.MethodGet, "/api/admin/users/"+url.PathEscape(id)+"/stats", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// PurgeMessages deletes every inbound message of the user and returns how many were removed.
func (c *Client) PurgeMessages(ctx context.Context, id string) (int64, error) {
	var res struct {
		Deleted int64 `json:"deleted"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/admin/users/"+url.PathEscape(id)+"/messages", nil, &res); err != nil {
		return 0, err
	}
	return res.Deleted, nil
}

// ListAudit pages through the audit log, newest first. Zero limit uses the server default.
func (c *Client) ListAudit(ctx context.Context, limit, offset int) ([]*auditdomain.AuditLog, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := "/api/admin/audit"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var res struct {
		Logs []*auditdomain.AuditLog `json:"logs"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Logs, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			apiErr.Message = e.Error
		}
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
