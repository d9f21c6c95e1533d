package installer

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Fetcher opens a stream for a download URL. Callers close the returned body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// HTTPFetcher fetches artifacts over HTTP(S).
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns a fetcher with an overall per-request timeout.
// An empty proxyURL falls back to the proxy environment variables.
func NewHTTPFetcher(timeout time.Duration, proxyURL string) (*HTTPFetcher, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, err
		}
		transport.Proxy = http.ProxyURL(u)
	}
	return &HTTPFetcher{client: &http.Client{Timeout: timeout, Transport: transport}}, nil
}

// NewHTTPFetcherWithClient wraps an existing client (for testing)
func NewHTTPFetcherWithClient(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

// Fetch issues a GET and returns the body of a 200 response.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &DownloadError{URL: rawURL, Cause: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &DownloadError{URL: rawURL, Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, &DownloadError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}
