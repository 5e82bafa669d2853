package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/lawharvest"
	"go.uber.org/zap"
)

var _ lawharvest.Scraper[lawharvest.ActRecord] = (*LegislationScraper)(nil)

// LegislationScraper harvests acts from the legislation tables. Table
// rows carry every field, so no act page is fetched.
type LegislationScraper struct {
	Listing  lawharvest.ListingStrategy
	Writer   lawharvest.RecordWriter
	Index    lawharvest.RecordIndex // optional
	Logger   *zap.Logger
	Progress ProgressFunc
	Now      func() time.Time
}

// Scrape collects at least minActs acts when the tables hold that many.
func (s *LegislationScraper) Scrape(ctx context.Context, minActs int) ([]*lawharvest.ActRecord, error) {
	r := newRunner("legislation", 1, s.Logger, s.Progress)

	entries, err := s.Listing.Discover(ctx, minActs)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, lawharvest.Errorf(lawharvest.ENORESULTS, "no acts listed")
	}

	scrapedAt := now(s.Now)
	return process(ctx, r, entryURLs(entries), func(_ context.Context, i int, _ string) (*lawharvest.ActRecord, error) {
		return AssembleAct(entries[i], scrapedAt)
	})
}

// AssembleAct builds an act from a legislation table row. The row's own
// link is both source and download; rows without a link are sourced to
// the listing page.
func AssembleAct(e lawharvest.ListingEntry, scrapedAt time.Time) (*lawharvest.ActRecord, error) {
	chapter := lawharvest.ExtractChapter(e.Title)
	if chapter == "" {
		chapter = lawharvest.ExtractChapter(e.Meta)
	}

	rec := &lawharvest.ActRecord{
		ActTitle:      e.Title,
		ChapterNumber: chapter,
		YearEnacted:   lawharvest.ExtractYear(e.Meta),
		DownloadURL:   e.URL,
		LegalCategory: lawharvest.Categorize(e.Title),
		SourceURL:     e.URL,
		ScrapedAt:     scrapedAt,
	}
	if rec.SourceURL == "" {
		rec.SourceURL = e.Page
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Save writes records as JSON to path with a statistics file beside it
// and indexes them as legislation.
func (s *LegislationScraper) Save(ctx context.Context, records []*lawharvest.ActRecord, path string) error {
	if len(records) == 0 {
		return lawharvest.Errorf(lawharvest.ENORESULTS, "no acts to save")
	}
	logger := nopIfNil(s.Logger)

	if err := s.Writer.WriteJSON(path, records); err != nil {
		return err
	}
	logger.Info("saved acts", zap.Int("count", len(records)), zap.String("path", path))

	summaryPath := SummaryPath(path)
	if err := s.Writer.WriteJSON(summaryPath, SummarizeActs(records, now(s.Now))); err != nil {
		logger.Error("write legislation summary", zap.Error(err))
	} else {
		logger.Info("saved legislation summary", zap.String("path", summaryPath))
	}

	indexAll(ctx, s.Index, lawharvest.DocumentTypeLegislation, records, logger)
	return nil
}
