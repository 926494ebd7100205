package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"card-arbitrage/utils"
)

const defaultBaseURL = "https://api.exchangerate-api.com/v4/latest"

// Rate is one source→target conversion factor fetched once per run.
// Fallback marks rates substituted from configuration because the rate
// service was unreachable.
type Rate struct {
	Source   string
	Target   string
	Value    float64
	Fallback bool
	At       time.Time
}

// Client looks up exchange rates with a hardcoded-constant fallback.
// Rates are fetched once per run and reused; nothing is cached across runs.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *utils.Logger
}

// NewClient creates a rate Client.
func NewClient(logger *utils.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// NewClientWithBaseURL creates a rate Client against a custom endpoint.
// Used by tests.
func NewClientWithBaseURL(baseURL string, logger *utils.Logger) *Client {
	c := NewClient(logger)
	c.baseURL = baseURL
	return c
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Get fetches the source→target rate. When the rate service is unreachable
// or returns an unusable payload the supplied fallback constant is used
// instead, the run continues, and the substitution is flagged in the log.
func (c *Client) Get(ctx context.Context, source, target string, fallback float64) Rate {
	rate, err := c.fetch(ctx, source, target)
	if err != nil {
		c.logger.Warn("[rates] %s→%s lookup failed: %v, using fallback rate %.4f",
			source, target, err, fallback)
		return Rate{Source: source, Target: target, Value: fallback, Fallback: true, At: time.Now()}
	}
	c.logger.Info("[rates] %s→%s = %.4f", source, target, rate)
	return Rate{Source: source, Target: target, Value: rate, At: time.Now()}
}

func (c *Client) fetch(ctx context.Context, source, target string) (float64, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, strings.ToUpper(source))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("rates: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rates: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rates: HTTP %d", resp.StatusCode)
	}

	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("rates: decode response: %w", err)
	}

	rate, ok := payload.Rates[strings.ToUpper(target)]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("rates: no usable %s rate in response", target)
	}
	return rate, nil
}
