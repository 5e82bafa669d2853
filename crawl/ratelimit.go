package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/lawharvest"
	"golang.org/x/time/rate"
)

var _ lawharvest.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter paces requests per host with one token bucket each.
// The legacy and modern hosts are paced independently.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter returns a DomainLimiter allowing rps requests per second
// per host with no bursting. A non-positive rps disables pacing.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until a request to domain is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	l, ok := d.limiters[domain]
	if !ok {
		l = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = l
	}
	d.mu.Unlock()

	return l.Wait(ctx)
}
