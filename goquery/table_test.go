package goquery_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/lawharvest"
	"github.com/fwojciec/lawharvest/goquery"
	"github.com/fwojciec/lawharvest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fifoFrontier returns a frontier factory backed by a plain queue and set.
func fifoFrontier() func() lawharvest.URLFrontier {
	return func() lawharvest.URLFrontier {
		var queue []string
		seen := make(map[string]bool)
		return &mock.URLFrontier{
			PushFn: func(url string) bool {
				if seen[url] {
					return false
				}
				seen[url] = true
				queue = append(queue, url)
				return true
			},
			PopFn: func() (string, bool) {
				if len(queue) == 0 {
					return "", false
				}
				url := queue[0]
				queue = queue[1:]
				return url, true
			},
			LenFn:  func() int { return len(queue) },
			SeenFn: func(url string) bool { return seen[url] },
		}
	}
}

const legislationPage1 = `<html><body>
<ul class="vert-two">
<li><a href="index.php?id=2001">2001</a></li>
<li><a href="index.php?id=2002">2002</a></li>
<li><a href="/about">About</a></li>
</ul>
<table class="contenttable">
<tr><th>Title</th><th>Details</th></tr>
<tr><td>The Income Tax Act Cap. 470</td><td>No. 1 of 1973</td><td><a href="/kl/fileadmin/pdfdownloads/Acts/IncomeTaxActCap470.pdf">PDF</a></td></tr>
<tr><td>Penal Code</td><td>Commenced 1930</td></tr>
<tr><td></td><td>empty title</td></tr>
</table>
</body></html>`

const legislationPage2 = `<html><body>
<ul class="vert-two">
<li><a href="index.php?id=12002">Back</a></li>
</ul>
<table class="contenttable">
<tr><th>Title</th><th>Details</th></tr>
<tr><td>Employment Act</td><td>No. 11 of 2007</td><td><a href="/kl/acts/employment">View</a></td></tr>
</table>
</body></html>`

func TestParseTable(t *testing.T) {
	t.Parallel()

	entries, links, err := goquery.ParseTable(legislationPage1, "https://kenyalaw.org/kl/index.php?id=12002",
		goquery.LegislationRows, goquery.LegislationMenu, goquery.LegislationMenuMark)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "The Income Tax Act Cap. 470", entries[0].Title)
	assert.Equal(t, "No. 1 of 1973", entries[0].Meta)
	assert.Equal(t, "https://kenyalaw.org/kl/fileadmin/pdfdownloads/Acts/IncomeTaxActCap470.pdf", entries[0].URL)
	assert.Equal(t, "https://kenyalaw.org/kl/index.php?id=12002", entries[0].Page)
	assert.Equal(t, "Penal Code", entries[1].Title)
	assert.Empty(t, entries[1].URL)

	assert.Equal(t, []string{
		"https://kenyalaw.org/kl/index.php?id=2001",
		"https://kenyalaw.org/kl/index.php?id=2002",
	}, links)
}

func TestParseTable_PageWithoutTable(t *testing.T) {
	t.Parallel()

	page := `<html><body><ul class="vert-two"><li><a href="/kl/index.php?id=1">2023</a></li></ul></body></html>`

	entries, links, err := goquery.ParseTable(page, "https://kenyalaw.org/kl/index.php?id=12002",
		goquery.LegislationRows, goquery.LegislationMenu, goquery.LegislationMenuMark)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, []string{"https://kenyalaw.org/kl/index.php?id=1"}, links)
}

func TestParseTable_HeaderOnly(t *testing.T) {
	t.Parallel()

	page := `<html><body><table class="contenttable"><tr><th>Title</th><th>Details</th></tr></table></body></html>`

	entries, links, err := goquery.ParseTable(page, "https://kenyalaw.org/kl/index.php?id=12002",
		goquery.LegislationRows, goquery.LegislationMenu, goquery.LegislationMenuMark)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, links)
}

func TestTableStrategy_Discover(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		goquery.LegislationStartURL:                  legislationPage1,
		"https://kenyalaw.org/kl/index.php?id=2001": legislationPage2,
	}

	newFetcher := func(visits map[string]int) *mock.Fetcher {
		return &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string, opts ...lawharvest.FetchOption) (*lawharvest.FetchResult, error) {
				visits[url]++
				page, ok := pages[url]
				if !ok {
					return nil, lawharvest.Errorf(lawharvest.ECLIENT, "HTTP 404 for %s", url)
				}
				return &lawharvest.FetchResult{URL: url, Body: []byte(page)}, nil
			},
		}
	}

	t.Run("walks menu pages breadth first until the limit", func(t *testing.T) {
		t.Parallel()

		visits := make(map[string]int)
		strategy := goquery.NewLegislationTable(newFetcher(visits), fifoFrontier(), nil)

		entries, err := strategy.Discover(context.Background(), 3)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "Employment Act", entries[2].Title)
		assert.Equal(t, 1, visits[goquery.LegislationStartURL])
		assert.Zero(t, visits["https://kenyalaw.org/kl/index.php?id=2002"])
	})

	t.Run("visits each page once and skips failing pages", func(t *testing.T) {
		t.Parallel()

		visits := make(map[string]int)
		strategy := goquery.NewLegislationTable(newFetcher(visits), fifoFrontier(), nil)

		entries, err := strategy.Discover(context.Background(), 50)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
		for url, n := range visits {
			assert.Equal(t, 1, n, url)
		}
		assert.Equal(t, 1, visits["https://kenyalaw.org/kl/index.php?id=2002"])
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string, opts ...lawharvest.FetchOption) (*lawharvest.FetchResult, error) {
				return nil, ctx.Err()
			},
		}
		strategy := goquery.NewLegislationTable(fetcher, fifoFrontier(), nil)

		_, err := strategy.Discover(ctx, 5)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}
