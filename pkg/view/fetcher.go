// Package view retrieves route view fragments.
//
// The router consumes views through the Fetcher interface: given a view
// source, return its markup or an error. The HTTP implementation here is
// the default backend; tests substitute their own.
package view

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxFragmentSize caps fetched view bodies. Fragments are small by nature;
// anything beyond this indicates a misconfigured view source.
const maxFragmentSize = 4 << 20 // 4MB

// Connection pooling limits for the default transport. Fragment fetches hit
// the same origin repeatedly, so idle connection reuse dominates.
const (
	defaultMaxIdleConns        = 32
	defaultMaxIdleConnsPerHost = 8
	defaultIdleConnTimeout     = 60 * time.Second
	defaultFetchTimeout        = 10 * time.Second
)

// Fetcher retrieves the markup for a view source.
type Fetcher interface {
	// Fetch returns the text content of the view source. A non-success
	// response status is an error.
	Fetch(ctx context.Context, source string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, source string) (string, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, source string) (string, error) {
	return f(ctx, source)
}

// StatusError reports a non-success HTTP response for a view source.
type StatusError struct {
	Source string
	Status int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("view %s: unexpected status %d", e.Source, e.Status)
}

// HTTPFetcher fetches view fragments over HTTP.
//
// Relative view sources (the usual case for same-origin fragments) are
// resolved against the configured base URL. Bodies are size-capped and
// each fetch carries its own timeout via context.
type HTTPFetcher struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// HTTPFetcherOption configures an HTTPFetcher.
type HTTPFetcherOption func(*HTTPFetcher)

// WithBaseURL sets the base URL relative view sources resolve against.
func WithBaseURL(base string) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.baseURL = strings.TrimSuffix(base, "/")
	}
}

// WithTimeout sets the per-fetch timeout. Default: 10s.
func WithTimeout(d time.Duration) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.timeout = d
	}
}

// WithClient sets a custom http.Client, replacing the pooled default.
func WithClient(c *http.Client) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.client = c
	}
}

// NewHTTPFetcher creates an HTTP view fetcher.
func NewHTTPFetcher(opts ...HTTPFetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client: &http.Client{
			// no global timeout - per-fetch timeouts via context
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
		timeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, source string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	target, err := f.resolve(source)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", source, err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", source, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Source: source, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFragmentSize))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", source, err)
	}
	return string(body), nil
}

// resolve turns a view source into an absolute URL.
func (f *HTTPFetcher) resolve(source string) (string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return source, nil
	}
	if f.baseURL == "" {
		return "", fmt.Errorf("relative view source %q requires a base URL", source)
	}
	if !strings.HasPrefix(source, "/") {
		source = "/" + source
	}
	u, err := url.Parse(f.baseURL + source)
	if err != nil {
		return "", fmt.Errorf("invalid view source %q: %w", source, err)
	}
	return u.String(), nil
}

// Close releases idle connections in the fetcher's pool.
func (f *HTTPFetcher) Close() {
	if f == nil || f.client == nil {
		return
	}
	if transport, ok := f.client.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
