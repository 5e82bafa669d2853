package crawl_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/lawharvest"
	"github.com/fwojciec/lawharvest/crawl"
	"github.com/fwojciec/lawharvest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strategy(name string, entries []lawharvest.ListingEntry, err error, calls *int) *mock.ListingStrategy {
	return &mock.ListingStrategy{
		NameFn: func() string { return name },
		DiscoverFn: func(_ context.Context, _ int) ([]lawharvest.ListingEntry, error) {
			if calls != nil {
				*calls++
			}
			return entries, err
		},
	}
}

func TestLocator_Discover(t *testing.T) {
	t.Parallel()

	feed := []lawharvest.ListingEntry{{URL: "https://new.kenyalaw.org/judgments/123", Title: "John Doe v Jane Roe"}}
	listing := []lawharvest.ListingEntry{{URL: "https://new.kenyalaw.org/judgments/456"}}

	t.Run("first productive strategy wins", func(t *testing.T) {
		t.Parallel()

		var later int
		l := crawl.NewLocator(nil,
			strategy("feed", feed, nil, nil),
			strategy("listing", listing, nil, &later),
		)

		got, err := l.Discover(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, feed, got)
		assert.Zero(t, later, "later strategies are not tried")
	})

	t.Run("empty strategy falls through", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewLocator(nil,
			strategy("feed", nil, nil, nil),
			strategy("listing", listing, nil, nil),
		)

		got, err := l.Discover(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, listing, got)
	})

	t.Run("failing strategy falls through", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewLocator(nil,
			strategy("feed", nil, errors.New("feed down"), nil),
			strategy("listing", listing, nil, nil),
		)

		got, err := l.Discover(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, listing, got)
	})

	t.Run("results are not merged", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewLocator(nil,
			strategy("feed", feed, nil, nil),
			strategy("listing", listing, nil, nil),
		)

		got, err := l.Discover(context.Background(), 10)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("truncates to limit", func(t *testing.T) {
		t.Parallel()

		many := []lawharvest.ListingEntry{{URL: "https://a.test/1"}, {URL: "https://a.test/2"}, {URL: "https://a.test/3"}}
		l := crawl.NewLocator(nil, strategy("feed", many, nil, nil))

		got, err := l.Discover(context.Background(), 2)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("nothing found is not an error", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewLocator(nil, strategy("feed", nil, nil, nil))

		got, err := l.Discover(context.Background(), 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var calls int
		l := crawl.NewLocator(nil, strategy("feed", feed, nil, &calls))

		_, err := l.Discover(ctx, 10)
		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls)
	})

	t.Run("name lists the chain", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewLocator(nil, strategy("feed", nil, nil, nil), strategy("listing", nil, nil, nil))
		assert.Equal(t, "feed>listing", l.Name())
	})
}
