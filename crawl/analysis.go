package crawl

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/lawharvest"
	"go.uber.org/zap"
)

var _ lawharvest.Scraper[lawharvest.CaseRecord] = (*AnalysisScraper)(nil)

// AnalysisScraper harvests full judgment texts and analyzes them.
// Judgments come from URLs when set, otherwise from Listing.
type AnalysisScraper struct {
	Listing     lawharvest.ListingStrategy
	URLs        []string
	Fetcher     lawharvest.Fetcher
	Extractor   lawharvest.CaseExtractor
	Analyzer    lawharvest.TextAnalyzer
	Writer      lawharvest.RecordWriter
	Index       lawharvest.RecordIndex // optional
	Concurrency int
	Logger      *zap.Logger
	Progress    ProgressFunc
	Now         func() time.Time
}

// Scrape analyzes up to limit judgments.
func (s *AnalysisScraper) Scrape(ctx context.Context, limit int) ([]*lawharvest.CaseRecord, error) {
	r := newRunner("analysis", s.Concurrency, s.Logger, s.Progress)

	urls, err := s.caseURLs(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, lawharvest.Errorf(lawharvest.ENORESULTS, "no judgments to analyze")
	}

	return process(ctx, r, urls, func(ctx context.Context, _ int, u string) (*lawharvest.CaseRecord, error) {
		return s.analyzeCase(ctx, r.logger, u)
	})
}

func (s *AnalysisScraper) caseURLs(ctx context.Context, limit int) ([]string, error) {
	if len(s.URLs) > 0 {
		urls := s.URLs
		if limit > 0 && len(urls) > limit {
			urls = urls[:limit]
		}
		return urls, nil
	}

	entries, err := s.Listing.Discover(ctx, limit)
	if err != nil {
		return nil, err
	}
	var urls []string
	for _, e := range entries {
		if e.URL != "" {
			urls = append(urls, e.URL)
		}
	}
	return urls, nil
}

func (s *AnalysisScraper) analyzeCase(ctx context.Context, logger *zap.Logger, url string) (*lawharvest.CaseRecord, error) {
	res, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	page, err := s.Extractor.ExtractPage(res.Text())
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(page.Text) == "" {
		return nil, lawharvest.Errorf(lawharvest.ENOTFOUND, "no judgment text on page")
	}

	analysis, err := s.Analyzer.Analyze(page.Text)
	if err != nil {
		logger.Warn("partial analysis", zap.String("url", url), zap.Error(err))
	}
	if analysis == nil || analysis.FullText == "" {
		return nil, lawharvest.Errorf(lawharvest.ENOTFOUND, "no judgment text after cleaning")
	}

	rec := &lawharvest.CaseRecord{
		CaseName:     page.Title,
		Judges:       analysis.JudgesMentioned,
		SourceURL:    url,
		ScrapedAt:    now(s.Now),
		CaseAnalysis: analysis,
	}
	rec.ApplyDetails(&page.Details)
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Save writes records as JSON to path with a statistics file beside it
// and indexes them as case analyses.
func (s *AnalysisScraper) Save(ctx context.Context, records []*lawharvest.CaseRecord, path string) error {
	if len(records) == 0 {
		return lawharvest.Errorf(lawharvest.ENORESULTS, "no analyzed cases to save")
	}
	logger := nopIfNil(s.Logger)

	if err := s.Writer.WriteJSON(path, records); err != nil {
		return err
	}
	logger.Info("saved analyzed cases", zap.Int("count", len(records)), zap.String("path", path))

	summaryPath := SummaryPath(path)
	if err := s.Writer.WriteJSON(summaryPath, SummarizeAnalyses(records, now(s.Now))); err != nil {
		logger.Error("write analysis summary", zap.Error(err))
	} else {
		logger.Info("saved analysis summary", zap.String("path", summaryPath))
	}

	indexAll(ctx, s.Index, lawharvest.DocumentTypeCaseAnalysis, records, logger)
	return nil
}
