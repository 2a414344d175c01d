// Package fetch obtains the HTML of a conversion request.
// FileLoader reads local files and maps failures to the typed input errors
// of package core; HTTPFetcher retrieves a page for the convert --url flag.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gaurav-prasanna/html22text/core"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "html22text/1.0 (https://github.com/gaurav-prasanna/html22text)"
)

// HTTPFetcher fetches web pages via HTTP.
type HTTPFetcher struct {
	client *http.Client

	// MaxBytes bounds the response body. Zero means unlimited.
	MaxBytes int64
}

// New creates an HTTPFetcher with a sensible timeout.
func New() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// NewWithClient creates an HTTPFetcher using client.
func NewWithClient(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

// Fetch retrieves the HTML content of the given URL. The result URL is the
// final URL after redirects, suitable as a base URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	var body io.Reader = resp.Body
	if f.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, f.MaxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if f.MaxBytes > 0 && int64(len(data)) > f.MaxBytes {
		return nil, core.NewInputError(url, core.ErrInputTooLarge, fmt.Errorf("limit is %d bytes", f.MaxBytes))
	}

	html, err := decode(data)
	if err != nil {
		return nil, core.NewInputError(url, core.ErrInvalidEncoding, err)
	}

	final := url
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}

	return &core.FetchResult{
		URL:        final,
		StatusCode: resp.StatusCode,
		HTML:       html,
	}, nil
}
