// Package jupiter fetches token prices in USD from the Jupiter price API.
package jupiter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"pumpwatch/internal/observability"
	"pumpwatch/internal/ratelimit"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// BatchSize is the maximum number of mints per price request.
	BatchSize = 100

	// BatchInterval is the minimum spacing between price requests.
	BatchInterval = 200 * time.Millisecond
)

// Client fetches batched token prices.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLimiter replaces the request limiter, for tests that must not
// wait on real intervals.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a price client for the given base URL,
// e.g. "https://api.jup.ag/price/v2".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: ratelimit.New(BatchInterval),
		logger:  log.New(os.Stderr, "[jupiter] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type priceResponse struct {
	Data map[string]struct {
		Price string `json:"price"`
	} `json:"data"`
}

// GetPrices fetches USD prices for the given mints, splitting the set
// into batches and spacing requests through the limiter. Mints the API
// does not know, and entire failed batches, are simply absent from the
// result; prices that fail to parse map to zero.
func (c *Client) GetPrices(ctx context.Context, mints []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(mints))

	for start := 0; start < len(mints); start += BatchSize {
		end := start + BatchSize
		if end > len(mints) {
			end = len(mints)
		}
		batch := mints[start:end]

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		observability.RecordPriceBatch()
		if err := c.fetchBatch(ctx, batch, prices); err != nil {
			c.logger.Printf("price batch of %d mints failed: %v", len(batch), err)
		}
	}
	return prices, nil
}

func (c *Client) fetchBatch(ctx context.Context, batch []string, prices map[string]float64) error {
	url := fmt.Sprintf("%s?ids=%s", c.baseURL, strings.Join(batch, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetch prices: status %d: %s", resp.StatusCode, body)
	}

	var parsed priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode prices: %w", err)
	}

	for mint, entry := range parsed.Data {
		p, err := strconv.ParseFloat(entry.Price, 64)
		if err != nil {
			p = 0
		}
		prices[mint] = p
	}
	return nil
}
