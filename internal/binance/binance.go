// Package binance provides a minimal client for the Binance public ticker
// price API, the external source of the live BTC/USD reference rate.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// DefaultBaseURL is the production Binance API host.
const DefaultBaseURL = "https://api.binance.com"

// Client fetches ticker prices from the Binance REST API.
// The base URL is configurable so tests can point the client at a local
// httptest server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new ticker client. An empty baseURL selects the
// production endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// GetTickerPrice fetches the current price for a symbol (e.g. "BTCUSDT")
// and parses the string-typed price field into a float64.
//
// Any transport error, non-2xx status, malformed body, or unparseable
// price string is returned as an error; the caller decides how to degrade.
func (c *Client) GetTickerPrice(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%s", c.baseURL, url.QueryEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("ticker request for %s returned status %d", symbol, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	var ticker TickerResponse
	if err := json.Unmarshal(data, &ticker); err != nil {
		return 0, fmt.Errorf("failed to decode ticker response: %w", err)
	}

	price, err := strconv.ParseFloat(ticker.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse price string %q: %w", ticker.Price, err)
	}

	return price, nil
}
