// Package http provides the HTTP implementation of lawharvest.Fetcher with
// retry, backoff, timeout escalation, user agent rotation and host pacing.
package http

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/lawharvest"
	"go.uber.org/zap"
)

// Defaults for a Fetcher.
const (
	DefaultTimeout     = 180 * time.Second
	DefaultMaxTimeout  = 600 * time.Second
	DefaultMaxRetries  = 5
	DefaultBackoffBase = time.Second
	DefaultMaxBackoff  = 60 * time.Second
	DefaultDelay       = 3 * time.Second
	DefaultJitter      = 500 * time.Millisecond
	DefaultPoolSize    = 10
)

// Ensure Fetcher implements lawharvest.Fetcher at compile time.
var _ lawharvest.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages over a single shared connection pool.
// It is safe for concurrent use.
type Fetcher struct {
	transport  *http.Transport
	client     *http.Client
	noRedirect *http.Client

	timeout     time.Duration
	maxTimeout  time.Duration
	maxRetries  int
	backoffBase time.Duration
	maxBackoff  time.Duration
	delay       time.Duration
	jitter      time.Duration
	poolSize    int
	insecure    bool
	userAgents  []string
	limiter     lawharvest.DomainLimiter
	logger      *zap.Logger

	closeOnce sync.Once
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-attempt timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxTimeout caps the escalated per-attempt timeout.
func WithMaxTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.maxTimeout = d
	}
}

// WithMaxRetries sets the total number of attempts per fetch.
func WithMaxRetries(n int) Option {
	return func(f *Fetcher) {
		f.maxRetries = n
	}
}

// WithBackoff sets the base and the cap of the exponential backoff.
func WithBackoff(base, ceiling time.Duration) Option {
	return func(f *Fetcher) {
		f.backoffBase = base
		f.maxBackoff = ceiling
	}
}

// WithDelay sets the pause after every successful fetch:
// delay plus a uniform random duration below jitter.
func WithDelay(delay, jitter time.Duration) Option {
	return func(f *Fetcher) {
		f.delay = delay
		f.jitter = jitter
	}
}

// WithUserAgents replaces the rotation pool of User-Agent headers.
func WithUserAgents(agents []string) Option {
	return func(f *Fetcher) {
		f.userAgents = agents
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// The legacy host has served broken certificate chains; this is an explicit opt-in.
func WithInsecureSkipVerify(skip bool) Option {
	return func(f *Fetcher) {
		f.insecure = skip
	}
}

// WithLimiter paces attempts per host. Nil disables pacing.
func WithLimiter(l lawharvest.DomainLimiter) Option {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// WithPoolSize bounds the number of simultaneous connections per host.
func WithPoolSize(n int) Option {
	return func(f *Fetcher) {
		f.poolSize = n
	}
}

// WithLogger sets the logger used for retries and redirects.
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// NewFetcher creates a new Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultTimeout,
		maxTimeout:  DefaultMaxTimeout,
		maxRetries:  DefaultMaxRetries,
		backoffBase: DefaultBackoffBase,
		maxBackoff:  DefaultMaxBackoff,
		delay:       DefaultDelay,
		jitter:      DefaultJitter,
		poolSize:    DefaultPoolSize,
		userAgents:  DefaultUserAgents,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.maxRetries < 1 {
		f.maxRetries = 1
	}

	f.transport = http.DefaultTransport.(*http.Transport).Clone()
	f.transport.MaxConnsPerHost = f.poolSize
	f.transport.MaxIdleConnsPerHost = f.poolSize
	if f.insecure {
		f.transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in
	}

	f.client = &http.Client{Transport: f.transport}
	f.noRedirect = &http.Client{
		Transport: f.transport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return f
}

// Timeout returns the configured per-attempt timeout.
// Escalation during a fetch never changes it.
func (f *Fetcher) Timeout() time.Duration {
	return f.timeout
}

// Fetch retrieves the URL.
//
// Connection errors, timeouts, 429 and 5xx responses are retried up to the
// attempt limit with capped exponential backoff; a timed out attempt is
// followed by one with a longer timeout. Other 4xx responses fail at once
// with ECLIENT. Exhausted retries fail with EUNAVAILABLE.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, opts ...lawharvest.FetchOption) (*lawharvest.FetchResult, error) {
	o := lawharvest.NewFetchOptions(opts...)

	target, err := buildURL(rawURL, o.Params)
	if err != nil {
		return nil, lawharvest.Errorf(lawharvest.EINVALID, "invalid URL %q: %v", rawURL, err)
	}

	client := f.client
	if o.NoRedirects {
		client = f.noRedirect
	}

	var lastErr error
	timeout := f.timeout
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx, target.Host); err != nil {
				return nil, err
			}
		}

		res, err := f.attempt(ctx, client, target.String(), timeout)
		if err == nil {
			if len(res.RedirectChain) > 0 {
				f.logger.Info("followed redirects",
					zap.Strings("chain", res.RedirectChain),
					zap.String("url", res.URL),
				)
			}
			f.pause(ctx)
			return res, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			f.logger.Warn("client error, not retrying",
				zap.String("url", target.String()),
				zap.Int("status", se.code),
			)
			return nil, lawharvest.Errorf(lawharvest.ECLIENT, "HTTP %d for %s", se.code, target)
		}

		lastErr = err
		if attempt == f.maxRetries-1 {
			break
		}

		// A timed out attempt is retried with a longer timeout; any other
		// failure goes back to the configured one.
		timeout = f.timeout
		if isTimeout(err) {
			timeout = EscalatedTimeout(f.timeout, attempt+1, f.maxTimeout)
		}

		wait := Backoff(f.backoffBase, attempt, f.maxBackoff)
		f.logger.Warn("retrying fetch",
			zap.String("url", target.String()),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", f.maxRetries),
			zap.Duration("wait", wait),
			zap.Duration("next_timeout", timeout),
			zap.Error(err),
		)
		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	return nil, lawharvest.Errorf(lawharvest.EUNAVAILABLE, "giving up on %s after %d attempts: %v", target, f.maxRetries, lastErr)
}

// attempt performs a single request bounded by timeout.
func (f *Fetcher) attempt(ctx context.Context, client *http.Client, target string, timeout time.Duration) (*lawharvest.FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &lawharvest.FetchResult{
		URL:           resp.Request.URL.String(),
		Status:        resp.StatusCode,
		Body:          body,
		RedirectChain: redirectChain(resp),
		Header:        resp.Header,
	}, nil
}

// pause sleeps delay plus jitter to pace the host after a success.
func (f *Fetcher) pause(ctx context.Context) {
	d := f.delay
	if f.jitter > 0 {
		d += rand.N(f.jitter)
	}
	_ = sleep(ctx, d)
}

func (f *Fetcher) userAgent() string {
	if len(f.userAgents) == 0 {
		return ""
	}
	return f.userAgents[rand.IntN(len(f.userAgents))]
}

// Close releases idle connections of the shared pool.
// Calls after the first are no-ops.
func (f *Fetcher) Close() error {
	f.closeOnce.Do(f.transport.CloseIdleConnections)
	return nil
}

// Backoff returns base·2^attempt, capped at ceiling when it is positive.
func Backoff(base time.Duration, attempt int, ceiling time.Duration) time.Duration {
	d := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if ceiling > 0 && (d > ceiling || d < 0) {
		return ceiling
	}
	return d
}

// EscalatedTimeout returns timeout·(1+0.5·attempt), capped at ceiling when it is positive.
func EscalatedTimeout(timeout time.Duration, attempt int, ceiling time.Duration) time.Duration {
	d := time.Duration(float64(timeout) * (1 + 0.5*float64(attempt)))
	if ceiling > 0 && d > ceiling {
		return ceiling
	}
	return d
}

// statusError is a response with a 4xx or 5xx status.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.code)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= http.StatusInternalServerError
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func buildURL(rawURL string, params url.Values) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("absolute URL required")
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}

// redirectChain walks back through the responses that led to resp.
func redirectChain(resp *http.Response) []string {
	var chain []string
	for r := resp.Request.Response; r != nil; r = r.Request.Response {
		chain = append([]string{r.Request.URL.String()}, chain...)
	}
	return chain
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
