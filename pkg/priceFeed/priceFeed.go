// Package priceFeed fetches a spot price from an HTTP JSON endpoint shaped like
// CoinMarketCap's cryptocurrency detail API. Every call issues exactly one request; there
// is no retry, caching or rate limiting.
package priceFeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultPriceFeedUrl is the BTC detail endpoint.
	DefaultPriceFeedUrl = "https://api.coinmarketcap.com/data-api/v3/cryptocurrency/detail?id=1&range=1h"

	maxResponseBytes = 4 << 20
)

var (
	// ErrRequestFailed covers transport errors and non-2xx responses.
	ErrRequestFailed = errors.New("price request failed")
	// ErrMalformedResponse covers bodies that are not JSON of the expected shape.
	ErrMalformedResponse = errors.New("malformed price response")
)

type PriceFeed interface {
	GetPrice(ctx context.Context) (float64, error)
}

type ClientConfig struct {
	Url string
	// Timeout bounds a single request. Zero leaves it to the transport defaults.
	Timeout time.Duration
	// HTTPClient is an optional custom HTTP client.
	HTTPClient *http.Client
}

type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// Compile-time check that Client implements PriceFeed.
var _ PriceFeed = (*Client)(nil)

func NewClient(cfg *ClientConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("price feed config is required")
	}
	if cfg.Url == "" {
		return nil, errors.New("price feed url is required")
	}
	u, err := url.Parse(cfg.Url)
	if err != nil {
		return nil, errors.Wrap(err, "invalid price feed url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported price feed url scheme %q", u.Scheme)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	return &Client{
		config:     cfg,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// GetPrice returns data.statistics.price from the configured endpoint.
func (c *Client) GetPrice(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Url, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create price request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Sugar().Warnw("Failed to close price response body", zap.Error(closeErr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: unexpected status %d", ErrRequestFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read body: %v", ErrRequestFailed, err)
	}

	var detail detailResponse
	if err := json.Unmarshal(body, &detail); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if detail.Data == nil || detail.Data.Statistics == nil || detail.Data.Statistics.Price == nil {
		return 0, fmt.Errorf("%w: data.statistics.price is missing", ErrMalformedResponse)
	}

	price := *detail.Data.Statistics.Price
	c.logger.Sugar().Debugw("Fetched price",
		zap.String("symbol", detail.Data.Symbol),
		zap.Float64("price", price),
	)
	return price, nil
}
