package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/lawharvest"
	"go.uber.org/zap"
)

var _ lawharvest.Scraper[lawharvest.CaseRecord] = (*CaseScraper)(nil)

// CaseScraper harvests judgment metadata. The listing supplies case names
// and dates; each judgment page supplies its labelled details.
type CaseScraper struct {
	Listing     lawharvest.ListingStrategy
	Fetcher     lawharvest.Fetcher
	Extractor   lawharvest.CaseExtractor
	Writer      lawharvest.RecordWriter
	Index       lawharvest.RecordIndex // optional
	Concurrency int
	Logger      *zap.Logger
	Progress    ProgressFunc
	Now         func() time.Time
}

// Scrape locates up to limit judgments and assembles one record per judgment.
func (s *CaseScraper) Scrape(ctx context.Context, limit int) ([]*lawharvest.CaseRecord, error) {
	r := newRunner("cases", s.Concurrency, s.Logger, s.Progress)

	entries, err := s.Listing.Discover(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, lawharvest.Errorf(lawharvest.ENORESULTS, "no judgments listed")
	}

	return process(ctx, r, entryURLs(entries), func(ctx context.Context, i int, _ string) (*lawharvest.CaseRecord, error) {
		return s.scrapeCase(ctx, r.logger, entries[i])
	})
}

func (s *CaseScraper) scrapeCase(ctx context.Context, logger *zap.Logger, entry lawharvest.ListingEntry) (*lawharvest.CaseRecord, error) {
	if entry.Title == "" {
		return nil, lawharvest.Errorf(lawharvest.EINVALID, "listing entry has no case name")
	}

	rec := &lawharvest.CaseRecord{
		CaseName:     entry.Title,
		JudgmentDate: lawharvest.NormalizeDate(entry.Published),
		SourceURL:    entry.URL,
		ScrapedAt:    now(s.Now),
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	// The listing already names the case, so a details page that cannot
	// be fetched or read leaves the listing-level record.
	res, err := s.Fetcher.Fetch(ctx, entry.URL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("case details unavailable", zap.String("url", entry.URL), zap.Error(err))
		return rec, nil
	}
	details, err := s.Extractor.ExtractDetails(res.Text())
	if err != nil {
		logger.Warn("case details unreadable", zap.String("url", entry.URL), zap.Error(err))
		return rec, nil
	}
	rec.ApplyDetails(details)
	return rec, nil
}

// Save writes records as CSV to path and indexes them as case law.
func (s *CaseScraper) Save(ctx context.Context, records []*lawharvest.CaseRecord, path string) error {
	if len(records) == 0 {
		return lawharvest.Errorf(lawharvest.ENORESULTS, "no cases to save")
	}
	if err := s.Writer.WriteCases(path, records); err != nil {
		return err
	}
	logger := nopIfNil(s.Logger)
	logger.Info("saved cases", zap.Int("count", len(records)), zap.String("path", path))

	indexAll(ctx, s.Index, lawharvest.DocumentTypeCaseLaw, records, logger)
	return nil
}

func now(fn func() time.Time) time.Time {
	if fn == nil {
		return time.Now()
	}
	return fn()
}

func nopIfNil(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
