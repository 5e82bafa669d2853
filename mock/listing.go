package mock

import (
	"context"

	"github.com/fwojciec/lawharvest"
)

var _ lawharvest.ListingStrategy = (*ListingStrategy)(nil)

// ListingStrategy is a mock implementation of lawharvest.ListingStrategy.
type ListingStrategy struct {
	NameFn     func() string
	DiscoverFn func(ctx context.Context, limit int) ([]lawharvest.ListingEntry, error)
}

func (s *ListingStrategy) Name() string {
	return s.NameFn()
}

func (s *ListingStrategy) Discover(ctx context.Context, limit int) ([]lawharvest.ListingEntry, error) {
	return s.DiscoverFn(ctx, limit)
}

var _ lawharvest.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of lawharvest.URLFrontier.
type URLFrontier struct {
	PushFn func(url string) bool
	PopFn  func() (string, bool)
	LenFn  func() int
	SeenFn func(url string) bool
}

func (f *URLFrontier) Push(url string) bool {
	return f.PushFn(url)
}

func (f *URLFrontier) Pop() (string, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

func (f *URLFrontier) Seen(url string) bool {
	return f.SeenFn(url)
}
