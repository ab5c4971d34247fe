package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/analytiq/analytiq/pkg/domain"
)

// DefaultTimeout matches the dashboard's request timeout.
const DefaultTimeout = 10 * time.Second

// Client is the Analytiq API client.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a new API client.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token returns the bearer token currently attached to requests.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken swaps the bearer token. Safe for concurrent use.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// --- Auth ---

// Signup registers a new account and returns its profile.
func (c *Client) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	var u domain.User
	if err := c.post(ctx, "/api/signup", domain.Credentials{Email: email, Password: password}, &u); err != nil {
		return nil, fmt.Errorf("client.Signup: %w", err)
	}
	return &u, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, "/api/login", domain.Credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// ValidateToken asks the backend whether the current token is still valid.
func (c *Client) ValidateToken(ctx context.Context) (*domain.Validation, error) {
	var v domain.Validation
	if err := c.get(ctx, "/api/validate", &v); err != nil {
		return nil, fmt.Errorf("client.ValidateToken: %w", err)
	}
	return &v, nil
}

// RefreshToken trades the current token for one with a fresh expiry.
func (c *Client) RefreshToken(ctx context.Context) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, "/api/refresh", nil, &resp); err != nil {
		return nil, fmt.Errorf("client.RefreshToken: %w", err)
	}
	return &resp, nil
}

// --- Sites ---

// GetSites lists the caller's sites.
func (c *Client) GetSites(ctx context.Context) ([]domain.Site, error) {
	var sites []domain.Site
	if err := c.get(ctx, "/api/sites", &sites); err != nil {
		return nil, fmt.Errorf("client.GetSites: %w", err)
	}
	return sites, nil
}

// GetSite fetches a single site by ID.
func (c *Client) GetSite(ctx context.Context, id string) (*domain.Site, error) {
	var site domain.Site
	if err := c.get(ctx, "/api/sites/"+url.PathEscape(id), &site); err != nil {
		return nil, fmt.Errorf("client.GetSite: %w", err)
	}
	return &site, nil
}

// CreateSite registers a site and returns it with its tracking snippet.
func (c *Client) CreateSite(ctx context.Context, s domain.NewSite) (*domain.CreatedSite, error) {
	var created domain.CreatedSite
	if err := c.post(ctx, "/api/sites", s, &created); err != nil {
		return nil, fmt.Errorf("client.CreateSite: %w", err)
	}
	return &created, nil
}

// DeleteSite permanently removes a site and its collected data.
func (c *Client) DeleteSite(ctx context.Context, id string) (*domain.DeleteResult, error) {
	var res domain.DeleteResult
	if err := c.doRequest(ctx, http.MethodDelete, "/api/sites/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, fmt.Errorf("client.DeleteSite: %w", err)
	}
	return &res, nil
}

// VerifySite asks the backend to check the site's HTML for the tracking snippet.
func (c *Client) VerifySite(ctx context.Context, id string) (*domain.Verification, error) {
	var v domain.Verification
	if err := c.post(ctx, "/api/sites/"+url.PathEscape(id)+"/verify", nil, &v); err != nil {
		return nil, fmt.Errorf("client.VerifySite: %w", err)
	}
	return &v, nil
}

// GetDashboard returns the headline numbers for a site's last seven days.
func (c *Client) GetDashboard(ctx context.Context, id string) (*domain.DashboardSummary, error) {
	var d domain.DashboardSummary
	if err := c.get(ctx, "/api/sites/"+url.PathEscape(id)+"/dashboard", &d); err != nil {
		return nil, fmt.Errorf("client.GetDashboard: %w", err)
	}
	return &d, nil
}

// GetReport returns the comprehensive report for a site. An empty range
// leaves the window to the backend.
func (c *Client) GetReport(ctx context.Context, id string, r domain.ReportRange) (*domain.Report, error) {
	path := "/api/sites/" + url.PathEscape(id) + "/report"
	if q := r.Query(); len(q) > 0 {
		path += "?" + q.Encode()
	}
	var rep domain.Report
	if err := c.get(ctx, path, &rep); err != nil {
		return nil, fmt.Errorf("client.GetReport: %w", err)
	}
	return &rep, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return ErrTimeout
		}
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, respBody)}
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

// errorMessage extracts a message from a FastAPI-style {"detail": ...} or
// {"error": ...} body, falling back to the raw body.
func errorMessage(status int, body []byte) string {
	var apiErr struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) == nil {
		var detail string
		if len(apiErr.Detail) > 0 && json.Unmarshal(apiErr.Detail, &detail) == nil && detail != "" {
			return detail
		}
		if apiErr.Error != "" {
			return apiErr.Error
		}
		// Validation errors carry a list under detail.
		if len(apiErr.Detail) > 0 {
			return string(apiErr.Detail)
		}
	}
	if len(body) == 0 {
		return http.StatusText(status)
	}
	return string(body)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
