// Package client is a typed HTTP client for the CRM API, used by crmctl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/moderncrm/crm-api/internal/core/analytics"
	"github.com/moderncrm/crm-api/internal/core/domain"
)

// APIError is a non-2xx reply carrying the server's error envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// SessionExpired reports whether the server rejected the session token.
func (e *APIError) SessionExpired() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// AuthResult is the body of login and register replies.
type AuthResult struct {
	User    domain.User `json:"user"`
	Token   string      `json:"token"`
	Message string      `json:"message"`
}

// AnalyticsReport mirrors GET /analytics.
type AnalyticsReport struct {
	Summary   analytics.Summary         `json:"summary"`
	Pipeline  []analytics.StageSummary  `json:"pipeline"`
	Sources   []analytics.SourceSummary `json:"sources"`
	TaskStats analytics.TaskStats       `json:"taskStats"`
}

// Client talks to one API base URL, e.g. http://localhost:3001/api.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	backoff func() retry.Backoff
}

type Option func(*Client)

// WithHTTPClient replaces the default 15s-timeout client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithRetries sets how often idempotent requests are retried after
// transport errors or 502/503/504 replies.
func WithRetries(n uint64, base time.Duration) Option {
	return func(c *Client) {
		c.backoff = func() retry.Backoff {
			return retry.WithMaxRetries(n, retry.NewExponential(base))
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	WithRetries(2, 200*time.Millisecond)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, e.g. after login.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{"name": name, "email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Customers(ctx context.Context) ([]domain.Customer, error) {
	var out []domain.Customer
	if err := c.do(ctx, http.MethodGet, "/customers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCustomer posts the given fields; keys follow the API's JSON names.
func (c *Client) CreateCustomer(ctx context.Context, fields map[string]any) (*domain.Customer, error) {
	var out domain.Customer
	if err := c.do(ctx, http.MethodPost, "/customers", fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Deals(ctx context.Context) ([]domain.Deal, error) {
	var out []domain.Deal
	if err := c.do(ctx, http.MethodGet, "/deals", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateDeal(ctx context.Context, fields map[string]any) (*domain.Deal, error) {
	var out domain.Deal
	if err := c.do(ctx, http.MethodPost, "/deals", fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Tasks(ctx context.Context) ([]domain.Task, error) {
	var out []domain.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, fields map[string]any) (*domain.Task, error) {
	var out domain.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Stats(ctx context.Context) (*analytics.DashboardStats, error) {
	var out analytics.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecentDeals asks for the newest deals; limit <= 0 uses the server default.
func (c *Client) RecentDeals(ctx context.Context, limit int) ([]domain.Deal, error) {
	path := "/dashboard/recent-deals"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	var out []domain.Deal
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Analytics(ctx context.Context) (*AnalyticsReport, error) {
	var out AnalyticsReport
	if err := c.do(ctx, http.MethodGet, "/analytics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends one request and decodes a 2xx body into out. GETs are retried
// on transient failures; POSTs are sent once since they are not idempotent.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	attempt := func(ctx context.Context) error {
		err := c.send(ctx, method, path, payload, out)
		if method == http.MethodGet && transient(err) {
			return retry.RetryableError(err)
		}
		return err
	}
	if method != http.MethodGet {
		return attempt(ctx)
	}
	return retry.Do(ctx, c.backoff(), attempt)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&envelope)
		if envelope.Error == "" {
			envelope.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: envelope.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func transient(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	// transport failure; context cancellation is final
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
