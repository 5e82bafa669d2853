package goquery

import (
	"context"
	"fmt"
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lawharvest"
)

// Ensure ListingStrategy implements lawharvest.ListingStrategy at compile time.
var _ lawharvest.ListingStrategy = (*ListingStrategy)(nil)

// JudgmentContainerSelectors match listing items on the modern judgments page.
var JudgmentContainerSelectors = []string{
	`article[class*="judgment"], article[class*="case"], article[class*="decision"]`,
	`div[class*="judgment"], div[class*="case"], div[class*="decision"]`,
	`tr[class*="judgment"], tr[class*="case"], tr[class*="decision"]`,
}

// LegacyLinkSelectors match judgment links on the legacy home page.
var LegacyLinkSelectors = []string{
	`a[href*="judgment"]`,
	`a[href*="case"]`,
	`a[href*="court"]`,
	".recent-cases a",
	".latest-judgments a",
	`a[href*="kl/index.php?id="]`,
}

// JudgmentHrefPattern is the loose fallback filter for judgment anchors.
var JudgmentHrefPattern = regexp.MustCompile(`(?i)judgment|case`)

// ListingStrategy discovers documents on an HTML listing page.
// Selectors are tried in order and the first one yielding links wins;
// a matched element that is not an anchor contributes its first anchor.
// When no selector matches, anchors whose href matches Fallback are used.
type ListingStrategy struct {
	Fetcher   lawharvest.Fetcher
	Label     string
	PageURL   string
	Selectors []string
	Fallback  *regexp.Regexp
}

// NewJudgmentListing returns the listing strategy for the modern judgments page.
func NewJudgmentListing(fetcher lawharvest.Fetcher) *ListingStrategy {
	return &ListingStrategy{
		Fetcher:   fetcher,
		Label:     "judgment-listing",
		PageURL:   lawharvest.ModernBaseURL + "/judgments/",
		Selectors: JudgmentContainerSelectors,
		Fallback:  JudgmentHrefPattern,
	}
}

// NewLegacyListing returns the listing strategy for the legacy home page.
func NewLegacyListing(fetcher lawharvest.Fetcher) *ListingStrategy {
	return &ListingStrategy{
		Fetcher:   fetcher,
		Label:     "legacy-listing",
		PageURL:   lawharvest.LegacyBaseURL + "/",
		Selectors: LegacyLinkSelectors,
	}
}

// Name implements lawharvest.ListingStrategy.
func (s *ListingStrategy) Name() string {
	return s.Label
}

// Discover fetches the listing page and returns up to limit entries.
func (s *ListingStrategy) Discover(ctx context.Context, limit int) ([]lawharvest.ListingEntry, error) {
	res, err := s.Fetcher.Fetch(ctx, s.PageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing %s: %w", s.PageURL, err)
	}
	return ParseListing(res.Text(), res.URL, s.Selectors, s.Fallback, limit)
}

// ParseListing extracts listing entries from page, resolving links against pageURL.
func ParseListing(page, pageURL string, selectors []string, fallback *regexp.Regexp, limit int) ([]lawharvest.ListingEntry, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, lawharvest.Errorf(lawharvest.EINVALID, "invalid base URL: %v", err)
	}
	doc, err := Parse(page)
	if err != nil {
		return nil, err
	}

	for _, selector := range selectors {
		var anchors []*goquery.Selection
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			if !sel.Is("a") {
				sel = sel.Find("a[href]").First()
			}
			if sel.Length() > 0 {
				anchors = append(anchors, sel)
			}
		})
		if entries := collectEntries(anchors, base, limit); len(entries) > 0 {
			return entries, nil
		}
	}

	if fallback == nil {
		return nil, nil
	}
	var anchors []*goquery.Selection
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, _ := sel.Attr("href"); fallback.MatchString(href) {
			anchors = append(anchors, sel)
		}
	})
	return collectEntries(anchors, base, limit), nil
}

// collectEntries turns anchors into deduplicated entries in document order.
func collectEntries(anchors []*goquery.Selection, base *url.URL, limit int) []lawharvest.ListingEntry {
	var entries []lawharvest.ListingEntry
	seen := make(map[string]bool)
	for _, a := range anchors {
		if limit > 0 && len(entries) >= limit {
			break
		}
		href, _ := a.Attr("href")
		if isNonHTTPLink(href) {
			continue
		}
		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] {
			continue
		}
		seen[resolved] = true
		entries = append(entries, lawharvest.ListingEntry{
			URL:   resolved,
			Page:  base.String(),
			Title: collapse(a.Text()),
		})
	}
	return entries
}
