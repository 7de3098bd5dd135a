// Package rates implements the exchange-rate provider backed by a BCV
// scraper API.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"fogon/internal/core/apperror"
	"fogon/internal/domain/rates"
	"fogon/pkg/logger"
)

// ClientConfig holds BCV client configuration.
type ClientConfig struct {
	BaseURL string
	// Token is sent as a Bearer token when set.
	Token          string
	RequestTimeout time.Duration
	CacheTTL       time.Duration
}

// DefaultClientConfig returns the default configuration.
func DefaultClientConfig(baseURL, token string) ClientConfig {
	return ClientConfig{
		BaseURL:        baseURL,
		Token:          token,
		RequestTimeout: 10 * time.Second,
		CacheTTL:       time.Hour,
	}
}

// Client fetches the USD/VES rate with an in-process TTL cache. When the
// upstream fails and a previously fetched rate exists, the stale rate is
// served instead of an error.
type Client struct {
	config ClientConfig
	http   *http.Client

	mu       sync.RWMutex
	cached   *rates.Rate
	cachedAt time.Time
}

var _ rates.Provider = (*Client)(nil)

// NewClient creates a BCV rate client.
func NewClient(config ClientConfig) *Client {
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.RequestTimeout},
	}
}

// bcvResponse mirrors the upstream payload.
type bcvResponse struct {
	Tasa  decimal.Decimal `json:"tasa"`
	Fecha string          `json:"fecha"`
}

// Current returns the cached rate while fresh, otherwise refetches.
func (c *Client) Current(ctx context.Context) (*rates.Rate, error) {
	c.mu.RLock()
	cached, cachedAt := c.cached, c.cachedAt
	c.mu.RUnlock()

	if cached != nil && time.Since(cachedAt) < c.config.CacheTTL {
		return cached, nil
	}

	rate, err := c.fetch(ctx)
	if err != nil {
		if cached != nil {
			logger.Warn(ctx, "rate refresh failed, serving stale rate",
				"error", err, "fetched_at", cached.FetchedAt)
			return cached, nil
		}
		return nil, apperror.NewInternal(fmt.Errorf("fetch exchange rate: %w", err))
	}

	c.mu.Lock()
	c.cached = rate
	c.cachedAt = time.Now()
	c.mu.Unlock()

	return rate, nil
}

func (c *Client) fetch(ctx context.Context) (*rates.Rate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body bcvResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !body.Tasa.IsPositive() {
		return nil, fmt.Errorf("non-positive rate %s", body.Tasa)
	}

	return &rates.Rate{
		Value:     body.Tasa,
		Date:      body.Fecha,
		FetchedAt: time.Now().UTC(),
		Source:    "bcv",
	}, nil
}
