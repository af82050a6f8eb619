package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxJWKSBytes bounds the size of a key-set response.
const maxJWKSBytes = 1 << 20

// HTTPFetcher downloads key sets over HTTP.
type HTTPFetcher struct {
	httpClient *http.Client
}

// NewHTTPFetcher creates a fetcher whose requests time out after timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{httpClient: &http.Client{Timeout: timeout}}
}

// Fetch retrieves and parses the key set published at url. Any non-2xx
// response is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*KeySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching jwks: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching jwks: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJWKSBytes))
	if err != nil {
		return nil, fmt.Errorf("reading jwks: %w", err)
	}
	return ParseKeySet(body)
}
