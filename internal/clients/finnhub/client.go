// Package finnhub provides a client for the Finnhub market-data REST API.
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://finnhub.io/api/v1"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// Config configures the Finnhub client
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// quoteResponse mirrors GET /quote. d and dp are null for unknown symbols.
type quoteResponse struct {
	Current       float64  `json:"c"`
	Change        *float64 `json:"d"`
	ChangePercent *float64 `json:"dp"`
	Volume        *float64 `json:"v"`
}

type profileResponse struct {
	Name string `json:"name"`
}

type candleResponse struct {
	Status     string    `json:"s"`
	Timestamps []int64   `json:"t"`
	Closes     []float64 `json:"c"`
}

// Client is the Finnhub API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
	now        func() time.Time
}

// NewClient creates a new Finnhub client.
// The http.Client timeout bounds every request.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("client", "finnhub").Logger(),
		now: time.Now,
	}
}

// FetchQuote fetches the current quote for one symbol.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	var resp quoteResponse
	if err := c.get(ctx, "/quote", url.Values{"symbol": {symbol}}, &resp); err != nil {
		return domain.Quote{}, err
	}

	if resp.Current == 0 && resp.Change == nil && resp.ChangePercent == nil {
		return domain.Quote{}, fmt.Errorf("%w: %s", domain.ErrUnknownSymbol, symbol)
	}

	q := domain.Quote{Price: resp.Current}
	if resp.Change != nil {
		q.Change = *resp.Change
	}
	if resp.ChangePercent != nil {
		q.ChangePercent = *resp.ChangePercent
	}
	if resp.Volume != nil {
		q.Volume = int64(*resp.Volume)
	}

	return q, nil
}

// FetchName returns the company name for symbol, or the symbol itself when
// the profile is unavailable.
func (c *Client) FetchName(ctx context.Context, symbol string) string {
	var resp profileResponse
	if err := c.get(ctx, "/stock/profile2", url.Values{"symbol": {symbol}}, &resp); err != nil {
		c.log.Debug().Err(err).Str("symbol", symbol).Msg("Profile lookup failed, using symbol as name")
		return symbol
	}
	if resp.Name == "" {
		return symbol
	}
	return resp.Name
}

// FetchHistory fetches daily closes covering the last days days, ordered by date.
func (c *Client) FetchHistory(ctx context.Context, symbol string, days int) ([]domain.PricePoint, error) {
	if days <= 0 {
		return nil, fmt.Errorf("history window must be positive, got %d", days)
	}

	to := c.now()
	from := to.AddDate(0, 0, -days)
	params := url.Values{
		"symbol":     {symbol},
		"resolution": {"D"},
		"from":       {strconv.FormatInt(from.Unix(), 10)},
		"to":         {strconv.FormatInt(to.Unix(), 10)},
	}

	var resp candleResponse
	if err := c.get(ctx, "/stock/candle", params, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "ok" {
		return nil, fmt.Errorf("%w: no history for %s (status %q)", domain.ErrUnknownSymbol, symbol, resp.Status)
	}
	if len(resp.Timestamps) != len(resp.Closes) {
		return nil, fmt.Errorf("malformed candle payload for %s: %d timestamps, %d closes",
			symbol, len(resp.Timestamps), len(resp.Closes))
	}

	points := make([]domain.PricePoint, len(resp.Closes))
	for i := range resp.Closes {
		points[i] = domain.PricePoint{
			Date:  time.Unix(resp.Timestamps[i], 0).UTC(),
			Close: resp.Closes[i],
		}
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return points, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if c.apiKey != "" {
		params.Set("token", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrProviderUnavailable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s returned status %d: %s",
			domain.ErrProviderUnavailable, path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}

	return nil
}
