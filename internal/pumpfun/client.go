// Package pumpfun fetches historical trade data for a mint from the
// pump.fun trade API.
package pumpfun

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pumpwatch/internal/domain"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// defaultLimit is the page size requested from the trade endpoint.
	defaultLimit = 1000
)

// Client fetches trade history over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
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

// NewClient creates a trade-history client for the given base URL,
// e.g. "https://frontend-api.pump.fun/trades/all".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiTrade mirrors a single trade entry on the wire. SolAmount is a
// pointer because the field is absent on some entries.
type apiTrade struct {
	User        string   `json:"user"`
	TokenAmount float64  `json:"token_amount"`
	SolAmount   *float64 `json:"sol_amount"`
	IsBuy       bool     `json:"is_buy"`
	Timestamp   int64    `json:"timestamp"`
}

// GetTrades fetches the full trade history for a mint. Trades with a
// missing sol_amount are kept with a zero SOL amount.
func (c *Client) GetTrades(ctx context.Context, mint string) ([]domain.TradeRecord, error) {
	url := fmt.Sprintf("%s/%s?limit=%d&offset=0&minimumSize=0", c.baseURL, mint, defaultLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch trades for %s: %w", mint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch trades for %s: status %d: %s", mint, resp.StatusCode, body)
	}

	var raw []apiTrade
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode trades for %s: %w", mint, err)
	}

	trades := make([]domain.TradeRecord, 0, len(raw))
	for _, t := range raw {
		var sol float64
		if t.SolAmount != nil {
			sol = *t.SolAmount
		}
		trades = append(trades, domain.TradeRecord{
			Mint:        mint,
			Trader:      t.User,
			TokenAmount: t.TokenAmount,
			SolAmount:   sol,
			IsBuy:       t.IsBuy,
			Timestamp:   t.Timestamp,
		})
	}
	return trades, nil
}
