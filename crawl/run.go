package crawl

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/lawharvest"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of documents processed at once.
const DefaultConcurrency = 10

// outcome is the result of processing one item.
type outcome[T any] struct {
	position int
	url      string
	rec      *T
	err      error
}

// runner processes the items of one harvest run.
type runner struct {
	id          string
	concurrency int
	logger      *zap.Logger
	progress    ProgressFunc
}

func newRunner(kind string, concurrency int, logger *zap.Logger, progress ProgressFunc) *runner {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &runner{
		id:          id,
		concurrency: concurrency,
		logger:      logger.With(zap.String("run_id", id), zap.String("kind", kind)),
		progress:    progress,
	}
}

func (r *runner) report(ev ProgressEvent) {
	if r.progress != nil {
		r.progress(ev)
	}
}

// process runs fn over urls with bounded concurrency. Failed items are
// logged and skipped. Records come back in url order once every item has
// resolved, whatever order they completed in.
func process[T any](ctx context.Context, r *runner, urls []string, fn func(ctx context.Context, position int, url string) (*T, error)) ([]*T, error) {
	total := len(urls)
	r.logger.Info("run started", zap.Int("attempted", total))
	r.report(ProgressEvent{Type: ProgressStarted, Total: total})

	resultCh := make(chan outcome[T], total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	go func() {
		for i, u := range urls {
			g.Go(func() error {
				rec, err := fn(gctx, i, u)
				resultCh <- outcome[T]{position: i, url: u, rec: rec, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var completed atomic.Int64
	results := make([]*T, total)
	var failed int
	for res := range resultCh {
		n := int(completed.Add(1))
		if res.err != nil {
			failed++
			r.logger.Warn("skipping document", zap.String("url", res.url), zap.Error(res.err))
			r.report(ProgressEvent{Type: ProgressFailed, Completed: n, Total: total, URL: res.url, Error: res.err})
			continue
		}
		results[res.position] = res.rec
		r.report(ProgressEvent{Type: ProgressCompleted, Completed: n, Total: total, URL: res.url})
	}
	r.report(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})

	var records []*T
	for _, rec := range results {
		if rec != nil {
			records = append(records, rec)
		}
	}

	r.logger.Info("run finished",
		zap.Int("attempted", total),
		zap.Int("succeeded", len(records)),
		zap.Int("failed", failed))

	if err := ctx.Err(); err != nil {
		return records, err
	}
	if len(records) == 0 {
		return nil, lawharvest.Errorf(lawharvest.ENORESULTS, "no documents harvested from %d candidates", total)
	}
	return records, nil
}

// indexAll stores records in idx. Failures are logged; the bulk file
// written before is the primary output.
func indexAll[T lawharvest.Identifiable](ctx context.Context, idx lawharvest.RecordIndex, docType lawharvest.DocumentType, records []T, logger *zap.Logger) {
	if idx == nil {
		return
	}
	if err := idx.EnsureIndex(ctx); err != nil {
		logger.Error("index unavailable", zap.Error(err))
		return
	}
	var indexed int
	for _, rec := range records {
		if err := idx.IndexRecord(ctx, docType, rec); err != nil {
			logger.Warn("index record failed", zap.Error(err))
			continue
		}
		indexed++
	}
	logger.Info("indexed records", zap.String("document_type", string(docType)), zap.Int("indexed", indexed))
}

// OutputPath returns the timestamped bulk file path for a run.
func OutputPath(dir, prefix, ext string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", prefix, now.Format("20060102_150405"), ext))
}

// SummaryPath returns the statistics file path that accompanies path.
func SummaryPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_summary.json"
}

func entryURLs(entries []lawharvest.ListingEntry) []string {
	urls := make([]string, 0, len(entries))
	for _, e := range entries {
		urls = append(urls, e.URL)
	}
	return urls
}
