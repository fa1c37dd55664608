// CLAUDE:SUMMARY HTTP client for the genderize.io batch API: up to 10 names per request, country-biased, explicit timeout.
package gender

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ralsina/nombres/pkg/metrics"
)

// BatchSize is the external API's per-request name limit.
const BatchSize = 10

// Result is one entry of the service response. Gender is empty when the
// service has no signal for the token. Tokens it does not recognize at all
// are simply absent from the response.
type Result struct {
	Name        string  `json:"name"`
	Gender      string  `json:"gender"`
	Probability float64 `json:"probability"`
}

// Client calls a genderize.io-compatible batch endpoint.
type Client struct {
	baseURL string
	country string
	httpc   *http.Client
}

// NewClient builds a client for the given base URL (e.g.
// "https://api.genderize.io"). Country biases the classification; for this
// dataset that is "AR".
func NewClient(baseURL, country string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		country: country,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Lookup issues one batch request for up to BatchSize tokens.
func (c *Client) Lookup(ctx context.Context, tokens []string) ([]Result, error) {
	if len(tokens) > BatchSize {
		return nil, fmt.Errorf("batch of %d exceeds service limit of %d", len(tokens), BatchSize)
	}

	q := url.Values{}
	for _, t := range tokens {
		q.Add("name[]", t)
	}
	if c.country != "" {
		q.Set("country_id", c.country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.ClassifierRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("gender service: %w", err)
	}
	defer resp.Body.Close()
	metrics.ClassifierDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ClassifierRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("gender service: HTTP %d", resp.StatusCode)
	}

	var results []Result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		metrics.ClassifierRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("gender service: decode response: %w", err)
	}
	metrics.ClassifierRequests.WithLabelValues("ok").Inc()
	return results, nil
}
