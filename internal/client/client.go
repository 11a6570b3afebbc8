// ABOUTME: HTTP client for the shop's auth and catalog REST API
// ABOUTME: Wraps API calls with bearer credentials, request ids and friendly errors

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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/markalston/shopfront/internal/cache"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// PageSize is the number of products requested per catalog page
const PageSize = 10

// Client is the API client for the shop backend
type Client struct {
	baseURL    string
	authURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	pages      *cache.Cache[int, []Product]
	flight     singleflight.Group

	mu    sync.RWMutex
	token string
}

// Option customises a Client
type Option func(*Client)

// WithAuthURL sets the base URL for /login and /register (defaults to the catalog URL)
func WithAuthURL(authURL string) Option {
	return func(c *Client) { c.authURL = authURL }
}

// WithTimeout sets the per-request HTTP timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit caps outgoing requests per second; zero or less means unlimited
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithPageCacheTTL keeps successful product pages for ttl; zero disables caching
func WithPageCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.pages.Close()
		c.pages = cache.New[int, []Product](ttl)
	}
}

// New creates a new API client with the given catalog base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		authURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		pages: cache.New[int, []Product](0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the catalog base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken installs the bearer credential sent with every request; empty clears it
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer credential
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Close releases the page cache sweeper
func (c *Client) Close() {
	c.pages.Close()
}

// Credentials is the body of /login and /register
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the /login and /register response
type AuthResponse struct {
	Token string `json:"token"`
	ID    UserID `json:"id,omitempty"`
}

// UserID accepts both numeric and string ids
type UserID string

func (u *UserID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*u = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*u = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or number: %w", err)
	}
	*u = UserID(n.String())
	return nil
}

// Product is a catalog item
type Product struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Image       string   `json:"image"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Model       string   `json:"model"`
	Color       string   `json:"color"`
	Category    string   `json:"category"`
	Discount    *float64 `json:"discount,omitempty"`
	Popular     *bool    `json:"popular,omitempty"`
	OnSale      *bool    `json:"onSale,omitempty"`
}

// IsPopular reports whether the product is flagged popular
func (p Product) IsPopular() bool {
	return p.Popular != nil && *p.Popular
}

// IsOnSale reports whether the product is flagged on sale
func (p Product) IsOnSale() bool {
	return p.OnSale != nil && *p.OnSale
}

// DiscountPercent returns the discount, or 0 when none is set
func (p Product) DiscountPercent() float64 {
	if p.Discount == nil {
		return 0
	}
	return *p.Discount
}

// DiscountedPrice applies the discount as a percentage off the price
func (p Product) DiscountedPrice() float64 {
	return p.Price * (1 - p.DiscountPercent()/100)
}

// StatusSuccess marks a successful catalog response
const StatusSuccess = "SUCCESS"

// ProductResponse represents the /products endpoint response
type ProductResponse struct {
	Status   string    `json:"status"`
	Message  string    `json:"message"`
	Products []Product `json:"products"`
}

// ErrorResponse represents an API error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// APIError is a rejection reported by the backend, either an HTTP error status
// or a 200 response whose payload signals failure
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// Login calls POST /login
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	return c.authenticate(ctx, "/login", creds)
}

// Register calls POST /register
func (c *Client) Register(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	return c.authenticate(ctx, "/register", creds)
}

func (c *Client) authenticate(ctx context.Context, path string, creds Credentials) (*AuthResponse, error) {
	var auth AuthResponse
	if err := c.do(ctx, http.MethodPost, c.authURL+path, creds, &auth); err != nil {
		return nil, err
	}
	if auth.Token == "" {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "response did not include a token"}
	}
	return &auth, nil
}

// Products calls GET /products?page=N&limit=PageSize
func (c *Client) Products(ctx context.Context, page int) ([]Product, error) {
	if page < 1 {
		return nil, fmt.Errorf("page must be at least 1, got %d", page)
	}

	if products, ok := c.pages.Get(page); ok {
		return products, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, handleRequestError(ctx, c.baseURL, err)
	}

	// Concurrent requests for the same page share one round trip. The shared
	// request outlives any one caller's cancellation; the HTTP timeout bounds it.
	shared := context.WithoutCancel(ctx)
	ch := c.flight.DoChan("products:"+strconv.Itoa(page), func() (interface{}, error) {
		products, err := c.fetchProducts(shared, page)
		if err != nil {
			return nil, err
		}
		c.pages.Set(page, products)
		return products, nil
	})

	select {
	case <-ctx.Done():
		return nil, handleRequestError(ctx, c.baseURL, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Product), nil
	}
}

// InvalidatePages drops cached product pages
func (c *Client) InvalidatePages() {
	c.pages.Purge()
}

func (c *Client) fetchProducts(ctx context.Context, page int) ([]Product, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(PageSize))

	var resp ProductResponse
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/products?"+query.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	if resp.Status != StatusSuccess {
		return nil, &APIError{StatusCode: http.StatusOK, Message: resp.Message}
	}
	if resp.Products == nil {
		resp.Products = []Product{}
	}
	return resp.Products, nil
}

// do sends a JSON request and decodes a 2xx JSON response into out
func (c *Client) do(ctx context.Context, method, target string, in, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return handleRequestError(ctx, target, err)
		}
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal input: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return handleRequestError(ctx, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func handleRequestError(ctx context.Context, target string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled")
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", origin(target), err)
}

// origin trims a request URL down to scheme and host
func origin(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return target
	}
	return u.Scheme + "://" + u.Host
}

// handleErrorResponse parses API error responses
func handleErrorResponse(resp *http.Response) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return &APIError{StatusCode: resp.StatusCode}
	}
	msg := errResp.Error
	if msg == "" {
		msg = errResp.Message
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
