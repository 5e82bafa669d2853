package goquery

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lawharvest"
	"go.uber.org/zap"
)

// Ensure TableStrategy implements lawharvest.ListingStrategy at compile time.
var _ lawharvest.ListingStrategy = (*TableStrategy)(nil)

// Legacy legislation listing layout.
const (
	LegislationStartURL = lawharvest.LegacyBaseURL + "/index.php?id=12002"
	LegislationRows     = "table.contenttable tr"
	LegislationMenu     = "ul.vert-two li a"
	LegislationMenuMark = "id="
)

// TableStrategy reads listing tables page by page. Rows after the header
// become entries; while fewer than limit are found, side menu links are
// queued and visited breadth-first, each page at most once.
type TableStrategy struct {
	Fetcher lawharvest.Fetcher
	// NewFrontier returns an empty frontier for each Discover call.
	NewFrontier func() lawharvest.URLFrontier
	Logger      *zap.Logger

	StartURL string
	Rows     string
	Menu     string
	MenuMark string
}

// NewLegislationTable returns the table strategy for the legacy legislation pages.
func NewLegislationTable(fetcher lawharvest.Fetcher, newFrontier func() lawharvest.URLFrontier, logger *zap.Logger) *TableStrategy {
	return &TableStrategy{
		Fetcher:     fetcher,
		NewFrontier: newFrontier,
		Logger:      logger,
		StartURL:    LegislationStartURL,
		Rows:        LegislationRows,
		Menu:        LegislationMenu,
		MenuMark:    LegislationMenuMark,
	}
}

// Name implements lawharvest.ListingStrategy.
func (s *TableStrategy) Name() string {
	return "legislation-table"
}

// Discover walks the listing pages until limit entries are found or the
// frontier is exhausted. Pages that fail to fetch are skipped.
func (s *TableStrategy) Discover(ctx context.Context, limit int) ([]lawharvest.ListingEntry, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	frontier := s.NewFrontier()
	frontier.Push(s.StartURL)

	var entries []lawharvest.ListingEntry
	for limit <= 0 || len(entries) < limit {
		pageURL, ok := frontier.Pop()
		if !ok {
			break
		}

		res, err := s.Fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return entries, ctx.Err()
			}
			logger.Warn("skipping listing page", zap.String("url", pageURL), zap.Error(err))
			continue
		}

		rows, links, err := ParseTable(res.Text(), res.URL, s.Rows, s.Menu, s.MenuMark)
		if err != nil {
			logger.Warn("skipping unparsable listing page", zap.String("url", pageURL), zap.Error(err))
			continue
		}
		logger.Debug("read listing page", zap.String("url", pageURL), zap.Int("rows", len(rows)))

		for _, row := range rows {
			if limit > 0 && len(entries) >= limit {
				break
			}
			entries = append(entries, row)
		}
		if limit > 0 && len(entries) >= limit {
			break
		}
		for _, link := range links {
			frontier.Push(link)
		}
	}

	return entries, nil
}

// ParseTable returns the rows of a listing page and the menu links that
// lead to further listing pages.
func ParseTable(page, pageURL, rowSelector, menuSelector, menuMark string) ([]lawharvest.ListingEntry, []string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil, lawharvest.Errorf(lawharvest.EINVALID, "invalid base URL: %v", err)
	}
	doc, err := Parse(page)
	if err != nil {
		return nil, nil, err
	}

	var entries []lawharvest.ListingEntry
	doc.Find(rowSelector).Each(func(i int, row *goquery.Selection) {
		// header
		if i == 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		title := collapse(cells.Eq(0).Text())
		if title == "" {
			return
		}

		entry := lawharvest.ListingEntry{
			Page:  pageURL,
			Title: title,
			Meta:  collapse(cells.Eq(1).Text()),
		}
		if href, ok := row.Find("a[href]").First().Attr("href"); ok && !isNonHTTPLink(href) {
			entry.URL = resolveURL(base, href)
		}
		entries = append(entries, entry)
	})

	var links []string
	doc.Find(menuSelector).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || isNonHTTPLink(href) || !strings.Contains(href, menuMark) {
			return
		}
		if resolved := resolveURL(base, href); resolved != "" {
			links = append(links, resolved)
		}
	})

	return entries, links, nil
}
