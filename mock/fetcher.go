package mock

import (
	"context"

	"github.com/fwojciec/lawharvest"
)

var _ lawharvest.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of lawharvest.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string, opts ...lawharvest.FetchOption) (*lawharvest.FetchResult, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string, opts ...lawharvest.FetchOption) (*lawharvest.FetchResult, error) {
	return f.FetchFn(ctx, url, opts...)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ lawharvest.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of lawharvest.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
