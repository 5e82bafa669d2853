package lawharvest

import (
	"context"
	"net/http"
	"net/url"
)

// FetchResult is the outcome of a successful fetch.
// It is read-only once returned and discarded after parsing.
type FetchResult struct {
	// URL is the final URL after redirects.
	URL    string
	Status int
	Body   []byte
	// RedirectChain lists the URLs visited before URL, oldest first.
	RedirectChain []string
	Header        http.Header
}

// Text returns the body as a string.
func (r *FetchResult) Text() string {
	return string(r.Body)
}

// FetchOptions holds per-request settings.
type FetchOptions struct {
	Params      url.Values
	NoRedirects bool
}

// FetchOption configures a single fetch.
type FetchOption func(*FetchOptions)

// WithParams adds query parameters to the request URL.
func WithParams(params url.Values) FetchOption {
	return func(o *FetchOptions) {
		o.Params = params
	}
}

// WithoutRedirects returns redirect responses as-is instead of following them.
func WithoutRedirects() FetchOption {
	return func(o *FetchOptions) {
		o.NoRedirects = true
	}
}

// NewFetchOptions applies opts over the defaults.
func NewFetchOptions(opts ...FetchOption) FetchOptions {
	var o FetchOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Fetcher retrieves documents over HTTP.
type Fetcher interface {
	// Fetch retrieves the URL, retrying transient failures internally.
	// A failed fetch returns an error with code ECLIENT or EUNAVAILABLE;
	// callers skip the item rather than aborting the run.
	Fetch(ctx context.Context, url string, opts ...FetchOption) (*FetchResult, error)

	// Close releases the shared connection pool.
	// Must be called exactly once when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
