package resolver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ubuntu-spins/spindex/internal"
)

// DefaultTimeout bounds each manifest GET and size HEAD. Failed fetches
// are reported and skipped, never retried.
const DefaultTimeout = 10 * time.Second

// Client performs the two upstream requests the resolver needs: fetching
// a release's checksum manifest and reading a file's size.
type Client struct {
	http *http.Client
}

// NewClient creates a Client with the default timeout.
func NewClient() *Client {
	return &Client{
		http: &http.Client{Timeout: DefaultTimeout},
	}
}

// FetchManifest GETs and parses the SHA256SUMS listing of a release
// directory.
func (c *Client) FetchManifest(ctx context.Context, baseURL string) (Manifest, error) {
	url := baseURL + "/" + internal.ManifestFileName

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %q: %w", url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching manifest %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching manifest %q: unexpected status %s", url, resp.Status)
	}

	m, err := ParseManifest(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %q: %w", url, err)
	}
	return m, nil
}

// FileSize HEADs the given URL and returns the content length. An absent
// or zero content length is an error: zero is the unresolved sentinel
// and must never be written as a real size.
func (c *Client) FileSize(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request for %q: %w", url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("head %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("head %q: unexpected status %s", url, resp.Status)
	}
	if resp.ContentLength <= 0 {
		return 0, fmt.Errorf("head %q: no content length", url)
	}

	return resp.ContentLength, nil
}
