package main_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/lawharvest"
	"github.com/fwojciec/lawharvest/analyze"
	main "github.com/fwojciec/lawharvest/cmd/lawharvest"
	"github.com/fwojciec/lawharvest/config"
	"github.com/fwojciec/lawharvest/goquery"
	"github.com/fwojciec/lawharvest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 1, 16, 12, 0, 0, 0, time.UTC)

const judgmentURL = "https://new.kenyalaw.org/akn/ke/judgment/kehc/2024/10/eng@2024-03-01"

const judgmentHTML = `<html><head><title>John Doe v Jane Roe</title></head><body>
<p>Citation: [2024] KEHC 10</p><p>Court: High Court at Nairobi</p><p>Judges: A. Mrima</p>
<div class="judgment-content"><p>JOHN DOE ... Appellant</p><p>JANE ROE ... Respondent</p>
<p>The appeal is allowed.</p></div></body></html>`

// recorder captures every write.
type recorder struct {
	cases []*lawharvest.CaseRecord
	json  map[string]any
}

func (r *recorder) writer() *mock.RecordWriter {
	r.json = map[string]any{}
	return &mock.RecordWriter{
		WriteCasesFn: func(_ string, cases []*lawharvest.CaseRecord) error {
			r.cases = cases
			return nil
		},
		WriteJSONFn: func(path string, v any) error {
			r.json[filepath.Base(path)] = v
			return nil
		},
	}
}

func newDeps(t *testing.T, listing []lawharvest.ListingEntry) (*main.Dependencies, *recorder, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	rec := &recorder{}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	strategy := &mock.ListingStrategy{
		NameFn: func() string { return "feed" },
		DiscoverFn: func(_ context.Context, limit int) ([]lawharvest.ListingEntry, error) {
			if len(listing) > limit {
				return listing[:limit], nil
			}
			return listing, nil
		},
	}

	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Config: &config.Config{
			Crawl:  config.CrawlConfig{Concurrency: 2},
			Output: config.OutputConfig{Dir: t.TempDir()},
		},
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string, _ ...lawharvest.FetchOption) (*lawharvest.FetchResult, error) {
				if url != judgmentURL {
					return nil, lawharvest.Errorf(lawharvest.ECLIENT, "status 404 for %s", url)
				}
				return &lawharvest.FetchResult{URL: url, Status: 200, Body: []byte(judgmentHTML)}, nil
			},
		},
		Extractor:          goquery.NewExtractor(),
		Analyzer:           analyze.NewAnalyzer(),
		Writer:             rec.writer(),
		CaseListing:        strategy,
		LegislationListing: strategy,
		Now:                func() time.Time { return fixedNow },
	}, rec, stdout, stderr
}

func TestCasesCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes one row per listed judgment", func(t *testing.T) {
		t.Parallel()

		deps, rec, stdout, _ := newDeps(t, []lawharvest.ListingEntry{
			{URL: judgmentURL, Title: "John Doe v Jane Roe", Published: "2024-03-01"},
		})

		err := (&main.CasesCmd{NumCases: 10}).Run(deps)
		require.NoError(t, err)

		require.Len(t, rec.cases, 1)
		assert.Equal(t, "John Doe v Jane Roe", rec.cases[0].CaseName)
		assert.Equal(t, "[2024] KEHC 10", rec.cases[0].Citation)
		assert.Contains(t, stdout.String(), "Saved 1 cases to ")
		assert.Contains(t, stdout.String(), "cases_20260116_120000.csv")
	})

	t.Run("explicit output path", func(t *testing.T) {
		t.Parallel()

		deps, _, stdout, _ := newDeps(t, []lawharvest.ListingEntry{
			{URL: judgmentURL, Title: "John Doe v Jane Roe"},
		})

		err := (&main.CasesCmd{NumCases: 1, Output: "/tmp/out.csv"}).Run(deps)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "/tmp/out.csv")
	})

	t.Run("nothing listed", func(t *testing.T) {
		t.Parallel()

		deps, rec, _, stderr := newDeps(t, nil)

		err := (&main.CasesCmd{NumCases: 10}).Run(deps)
		require.Error(t, err)
		assert.Equal(t, lawharvest.ENORESULTS, lawharvest.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
		assert.Nil(t, rec.cases)
	})

	t.Run("non-positive count", func(t *testing.T) {
		t.Parallel()

		deps, _, _, _ := newDeps(t, nil)

		err := (&main.CasesCmd{NumCases: 0}).Run(deps)
		assert.Equal(t, lawharvest.EINVALID, lawharvest.ErrorCode(err))
	})
}

func TestAnalysisCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("explicit urls bypass the listing", func(t *testing.T) {
		t.Parallel()

		deps, rec, stdout, stderr := newDeps(t, nil)

		err := (&main.AnalysisCmd{
			NumCases: 5,
			URLs:     []string{judgmentURL, "https://new.kenyalaw.org/akn/missing"},
		}).Run(deps)
		require.NoError(t, err)

		records, ok := rec.json["case_analysis_20260116_120000.json"].([]*lawharvest.CaseRecord)
		require.True(t, ok)
		require.Len(t, records, 1)
		assert.Equal(t, judgmentURL, records[0].SourceURL)
		assert.Contains(t, rec.json, "case_analysis_20260116_120000_summary.json")
		assert.Contains(t, stdout.String(), "Saved 1 analyses")
		assert.Contains(t, stderr.String(), "skip https://new.kenyalaw.org/akn/missing")
	})
}

func TestLegislationCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("table rows become acts", func(t *testing.T) {
		t.Parallel()

		deps, rec, stdout, _ := newDeps(t, []lawharvest.ListingEntry{
			{URL: "https://kenyalaw.org/kl/fileadmin/pdfdownloads/Acts/PenalCode.pdf", Title: "Penal Code Cap. 63", Meta: "1930"},
			{URL: "https://kenyalaw.org/kl/fileadmin/pdfdownloads/Acts/TaxProcedures.pdf", Title: "Tax Procedures Act", Meta: "2015"},
		})

		err := (&main.LegislationCmd{MinActs: 50}).Run(deps)
		require.NoError(t, err)

		acts, ok := rec.json["legislation_20260116_120000.json"].([]*lawharvest.ActRecord)
		require.True(t, ok)
		require.Len(t, acts, 2)
		assert.Equal(t, "63", acts[0].ChapterNumber)
		assert.Contains(t, rec.json, "legislation_20260116_120000_summary.json")
		assert.Contains(t, stdout.String(), "Saved 2 acts")
	})
}

func TestAllCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("continues past a failed step", func(t *testing.T) {
		t.Parallel()

		deps, rec, stdout, stderr := newDeps(t, []lawharvest.ListingEntry{
			{URL: judgmentURL, Title: "John Doe v Jane Roe"},
		})
		deps.LegislationListing = &mock.ListingStrategy{
			NameFn: func() string { return "table" },
			DiscoverFn: func(context.Context, int) ([]lawharvest.ListingEntry, error) {
				return nil, nil
			},
		}

		err := (&main.AllCmd{}).Run(deps)
		require.Error(t, err)
		assert.Equal(t, lawharvest.ENORESULTS, lawharvest.ErrorCode(err))

		assert.Len(t, rec.cases, 1)
		assert.Contains(t, rec.json, "case_analysis_20260116_120000.json")
		assert.Contains(t, stdout.String(), "== analysis")
		assert.Contains(t, stderr.String(), "1 of 3 steps failed")
	})

	t.Run("stops when interrupted", func(t *testing.T) {
		t.Parallel()

		deps, rec, _, _ := newDeps(t, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		deps.Ctx = ctx

		err := (&main.AllCmd{}).Run(deps)
		require.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, rec.cases)
	})
}

func TestCleanupCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("deletes the index", func(t *testing.T) {
		t.Parallel()

		deps, _, stdout, _ := newDeps(t, nil)
		var deleted bool
		deps.Index = &mock.RecordIndex{
			DeleteIndexFn: func(context.Context) error {
				deleted = true
				return nil
			},
		}

		require.NoError(t, (&main.CleanupCmd{}).Run(deps))
		assert.True(t, deleted)
		assert.Contains(t, stdout.String(), "Deleted index")
		assert.Contains(t, stdout.String(), "Removed 0 files")
	})

	t.Run("index failure stops cleanup", func(t *testing.T) {
		t.Parallel()

		deps, _, _, stderr := newDeps(t, nil)
		deps.Index = &mock.RecordIndex{
			DeleteIndexFn: func(context.Context) error {
				return errors.New("connection refused")
			},
		}

		require.Error(t, (&main.CleanupCmd{}).Run(deps))
		assert.Contains(t, stderr.String(), "error: Internal error.")
	})
}
