package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shopmetrics/backend/internal/domain/integration"
	"github.com/shopmetrics/backend/internal/infrastructure/config"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 10 * 1024 * 1024 // 10MB max response

// Client pulls customers, orders and products from the Shopify Admin REST
// API. Credentials travel with every call, so one client serves all tenants.
type Client struct {
	cfg        config.ShopifyConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger

	// baseURL overrides the store-domain URL scheme in tests
	baseURL string
}

// Option configures the client
type Option func(*Client)

// WithClientLogger sets the logger
func WithClientLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBaseURL routes all requests to a fixed base URL instead of the
// per-tenant store domain
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// NewClient creates a Shopify Admin API client
func NewClient(cfg config.ShopifyConfig, opts ...Option) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-01"
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 2
	}
	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PullCustomers fetches one page of customers
func (c *Client) PullCustomers(ctx context.Context, creds integration.StoreCredentials, req integration.PageRequest) (*integration.Page[integration.ExternalCustomer], error) {
	body, err := c.pullPage(ctx, creds, "customers.json", req)
	if err != nil {
		return nil, err
	}

	var resp customersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}

	page := &integration.Page[integration.ExternalCustomer]{
		Records: make([]integration.ExternalCustomer, 0, len(resp.Customers)),
		HasMore: len(resp.Customers) == c.pageSize(req),
	}
	for i := range resp.Customers {
		page.Records = append(page.Records, resp.Customers[i].toExternal())
	}
	return page, nil
}

// PullOrders fetches one page of orders. The status=any filter includes
// cancelled and closed orders, which the default listing omits.
func (c *Client) PullOrders(ctx context.Context, creds integration.StoreCredentials, req integration.PageRequest) (*integration.Page[integration.ExternalOrder], error) {
	body, err := c.pullPage(ctx, creds, "orders.json?status=any", req)
	if err != nil {
		return nil, err
	}

	var resp ordersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}

	page := &integration.Page[integration.ExternalOrder]{
		Records: make([]integration.ExternalOrder, 0, len(resp.Orders)),
		HasMore: len(resp.Orders) == c.pageSize(req),
	}
	for i := range resp.Orders {
		page.Records = append(page.Records, resp.Orders[i].toExternal())
	}
	return page, nil
}

// PullProducts fetches one page of products
func (c *Client) PullProducts(ctx context.Context, creds integration.StoreCredentials, req integration.PageRequest) (*integration.Page[integration.ExternalProduct], error) {
	body, err := c.pullPage(ctx, creds, "products.json", req)
	if err != nil {
		return nil, err
	}

	var resp productsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}

	page := &integration.Page[integration.ExternalProduct]{
		Records: make([]integration.ExternalProduct, 0, len(resp.Products)),
		HasMore: len(resp.Products) == c.pageSize(req),
	}
	for i := range resp.Products {
		page.Records = append(page.Records, resp.Products[i].toExternal())
	}
	return page, nil
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

func (c *Client) pageSize(req integration.PageRequest) int {
	if req.Limit > 0 {
		return req.Limit
	}
	if c.cfg.PageSize > 0 {
		return c.cfg.PageSize
	}
	return 250
}

// requestURL builds the Admin API URL for a resource, appending pagination
// parameters from the request
func (c *Client) requestURL(creds integration.StoreCredentials, resource string, req integration.PageRequest) string {
	base := c.baseURL
	if base == "" {
		base = "https://" + creds.StoreDomain
	}
	endpoint := fmt.Sprintf("%s/admin/api/%s/%s", base, c.cfg.APIVersion, resource)

	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.pageSize(req)))
	if req.SinceID > 0 {
		params.Set("since_id", strconv.FormatInt(req.SinceID, 10))
	}
	if req.UpdatedAtMin != nil {
		params.Set("updated_at_min", req.UpdatedAtMin.UTC().Format(time.RFC3339))
	}

	sep := "?"
	if u, err := url.Parse(endpoint); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	return endpoint + sep + params.Encode()
}

// pullPage performs one paginated GET with rate limiting and retries.
// 429 and 5xx responses retry with exponential backoff up to MaxRetries.
func (c *Client) pullPage(ctx context.Context, creds integration.StoreCredentials, resource string, req integration.PageRequest) ([]byte, error) {
	if !creds.Valid() {
		return nil, integration.ErrPlatformNotConfigured
	}
	req.Limit = c.pageSize(req)
	req.Normalize()

	requestURL := c.requestURL(creds, resource, req)

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoffDelay(attempt)
			c.logger.Debug("retrying platform request",
				zap.String("resource", resource),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := c.doRequest(ctx, creds, requestURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !integration.IsTransient(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, creds integration.StoreCredentials, requestURL string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}
	httpReq.Header.Set("X-Shopify-Access-Token", creds.AccessToken)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: HTTP 429", integration.ErrPlatformRateLimited)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrPlatformAuthFailed, resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrPlatformUnavailable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrPlatformRequestFailed, resp.StatusCode)
	}
}

// backoffDelay returns baseDelay * 2^(attempt-1)
func (c *Client) backoffDelay(attempt int) time.Duration {
	base := c.cfg.RetryBaseDelay
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	return base << (attempt - 1)
}

// Ensure Client implements CommercePlatform
var _ integration.CommercePlatform = (*Client)(nil)
