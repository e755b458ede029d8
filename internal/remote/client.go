// Package remote fetches cart contents from the upstream commerce API.
// Failures here are expected operating conditions; the orchestrator absorbs
// them by falling back to the durable snapshot.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atlvs/cartflow/internal/cart"
)

// DefaultTimeout bounds the upstream fetch so a hung remote cannot stall the
// load path past the fallback.
const DefaultTimeout = 10 * time.Second

const cartPath = "/api/v1/cart"

// Client reads the upstream cart endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for the given base URL. A zero timeout selects
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type cartResponse struct {
	Items []cart.RawItem `json:"items"`
}

// FetchItems performs GET {base}/api/v1/cart and returns the raw line items.
// Non-2xx responses and decode failures are errors; the caller treats any
// error as "remote unavailable".
func (c *Client) FetchItems(ctx context.Context) ([]cart.RawItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+cartPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch cart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch cart: unexpected status %d", resp.StatusCode)
	}

	var body cartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode cart response: %w", err)
	}
	return body.Items, nil
}
