// Package etree reads Atom feeds with etree.
package etree

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/lawharvest"
)

// JudgmentFeedURL is the Atom feed of the modern site.
const JudgmentFeedURL = lawharvest.ModernBaseURL + "/feeds/all.xml"

// Ensure FeedStrategy implements lawharvest.ListingStrategy at compile time.
var _ lawharvest.ListingStrategy = (*FeedStrategy)(nil)

// FeedEntry is one <entry> of an Atom feed.
type FeedEntry struct {
	Title      string
	Link       string
	Published  string
	Categories []string
}

// Category terms and link paths that mark a feed entry as a judgment.
var (
	judgmentTerms = []string{"judgment", "case law", "case-law"}
	judgmentPaths = []string{"/judgments/", "/judgment/", "/akn/"}
)

// IsJudgment reports whether the entry's categories or link mark it as a judgment.
func (e FeedEntry) IsJudgment() bool {
	for _, c := range e.Categories {
		c = strings.ToLower(c)
		for _, term := range judgmentTerms {
			if strings.Contains(c, term) {
				return true
			}
		}
	}
	link := strings.ToLower(e.Link)
	for _, p := range judgmentPaths {
		if strings.Contains(link, p) {
			return true
		}
	}
	return false
}

// ParseFeed parses an Atom document into its entries in feed order.
func ParseFeed(data []byte) ([]FeedEntry, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, lawharvest.Errorf(lawharvest.EINVALID, "parsing feed XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, lawharvest.Errorf(lawharvest.EINVALID, "empty feed XML")
	}

	var entries []FeedEntry
	for _, el := range root.SelectElements("entry") {
		entry := FeedEntry{
			Title:     childText(el, "title"),
			Link:      entryLink(el),
			Published: childText(el, "updated"),
		}
		if entry.Published == "" {
			entry.Published = childText(el, "published")
		}
		for _, c := range el.SelectElements("category") {
			if term := strings.TrimSpace(c.SelectAttrValue("term", "")); term != "" {
				entry.Categories = append(entry.Categories, term)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// entryLink prefers the alternate link of an entry.
func entryLink(el *etree.Element) string {
	var first string
	for _, l := range el.SelectElements("link") {
		href := strings.TrimSpace(l.SelectAttrValue("href", ""))
		if href == "" {
			continue
		}
		rel := l.SelectAttrValue("rel", "alternate")
		if rel == "alternate" {
			return href
		}
		if first == "" {
			first = href
		}
	}
	return first
}

func childText(el *etree.Element, tag string) string {
	if c := el.SelectElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

// FeedStrategy discovers judgments from an Atom feed.
type FeedStrategy struct {
	Fetcher lawharvest.Fetcher
	FeedURL string
}

// NewJudgmentFeed returns the feed strategy for the modern site.
func NewJudgmentFeed(fetcher lawharvest.Fetcher) *FeedStrategy {
	return &FeedStrategy{Fetcher: fetcher, FeedURL: JudgmentFeedURL}
}

// Name implements lawharvest.ListingStrategy.
func (s *FeedStrategy) Name() string {
	return "judgment-feed"
}

// Discover fetches the feed and returns up to limit judgment entries with
// links resolved against the feed URL.
func (s *FeedStrategy) Discover(ctx context.Context, limit int) ([]lawharvest.ListingEntry, error) {
	res, err := s.Fetcher.Fetch(ctx, s.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", s.FeedURL, err)
	}

	feed, err := ParseFeed(res.Body)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(res.URL)
	if err != nil {
		return nil, lawharvest.Errorf(lawharvest.EINVALID, "invalid feed URL: %v", err)
	}

	var entries []lawharvest.ListingEntry
	for _, e := range feed {
		if limit > 0 && len(entries) >= limit {
			break
		}
		if e.Link == "" || !e.IsJudgment() {
			continue
		}
		ref, err := url.Parse(e.Link)
		if err != nil {
			continue
		}
		entries = append(entries, lawharvest.ListingEntry{
			URL:       base.ResolveReference(ref).String(),
			Page:      res.URL,
			Title:     e.Title,
			Published: e.Published,
		})
	}
	return entries, nil
}
