package parkapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/parkguide/internal/interfaces"
	"github.com/ternarybob/parkguide/internal/models"
)

const (
	// DefaultBaseURL is the base URL for the Minnesota state park API.
	DefaultBaseURL = "https://mn-state-parks.herokuapp.com/api"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5

	// maxErrorBody caps how much of an error response ends up in APIError.Message
	maxErrorBody = 512
)

// Client is a park API client.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
	validate   *validator.Validate
}

// Compile-time assertion
var _ interfaces.ParkSource = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithLimiter shares a rate limiter with other clients of the same host.
func WithLimiter(limiter *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// NewClient creates a new park API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter:  rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		validate: validator.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = arbor.NewNoOpLogger()
	}

	return c
}

// GetCatalog retrieves the list of all parks.
func (c *Client) GetCatalog(ctx context.Context) (models.Catalog, error) {
	var catalog models.Catalog
	if err := c.get(ctx, "/list", &catalog); err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}

	c.logger.Debug().Int("parks", len(catalog)).Msg("Park catalog fetched")
	return catalog, nil
}

// GetPark retrieves the detail record for one park.
func (c *Client) GetPark(ctx context.Context, id string) (*models.ParkDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("park id is required")
	}

	endpoint := "/" + url.PathEscape(id)
	var park models.ParkDetail
	if err := c.get(ctx, endpoint, &park); err != nil {
		return nil, err
	}

	if err := c.validate.Struct(&park); err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: fmt.Errorf("invalid park record: %w", err)}
	}
	if park.ID == "" {
		park.ID = models.ParkID(id)
	}

	c.logger.Debug().
		Str("park_id", id).
		Str("park", park.Name).
		Int("images", len(park.Images)).
		Msg("Park detail fetched")
	return &park, nil
}

// get performs a GET request to the API and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &FetchError{Endpoint: path, Err: err}
	}

	reqURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &FetchError{Endpoint: path, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug().Str("url", reqURL).Msg("Park API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Endpoint: path, Err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &FetchError{Endpoint: path, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}
