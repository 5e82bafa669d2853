package crawl

import (
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/lawharvest"
)

var _ lawharvest.URLFrontier = (*Frontier)(nil)

// Frontier sizing for legislation listing pages.
const (
	FrontierExpectedURLs      = 10000
	FrontierFalsePositiveRate = 0.001
)

// Frontier is a FIFO queue of listing pages with Bloom filter deduplication.
// A false positive skips a page that was never visited; the rate is kept
// low enough that this does not matter for a few hundred pages.
// It is safe for concurrent use.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.BloomFilter
	queue []string
}

// NewFrontier returns a Frontier sized for n URLs at the given false
// positive rate.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{seen: bloom.NewWithEstimates(n, fpRate)}
}

// NewDefaultFrontier returns a Frontier with the default sizing.
func NewDefaultFrontier() lawharvest.URLFrontier {
	return NewFrontier(FrontierExpectedURLs, FrontierFalsePositiveRate)
}

// Push queues rawURL without its fragment. Returns false if it was seen before.
func (f *Frontier) Push(rawURL string) bool {
	u := stripFragment(rawURL)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen.TestOrAddString(u) {
		return false
	}
	f.queue = append(f.queue, u)
	return true
}

// Pop returns the oldest queued URL.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return "", false
	}
	u := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	return u, true
}

// Len returns the number of queued URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen reports whether rawURL was queued, ignoring its fragment.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.TestString(stripFragment(rawURL))
}

func stripFragment(u string) string {
	if i := strings.IndexByte(u, '#'); i != -1 {
		return u[:i]
	}
	return u
}
