package crawl

import (
	"time"

	"github.com/fwojciec/lawharvest"
)

// AnalysisSummary aggregates an analysis run.
type AnalysisSummary struct {
	TotalCasesAnalyzed   int       `json:"total_cases_analyzed"`
	AverageTextLength    int       `json:"average_text_length"`
	TotalLegalIssues     int       `json:"total_legal_issues"`
	TotalPrecedentsCited int       `json:"total_precedents_cited"`
	CasesWithParties     int       `json:"cases_with_parties"`
	CasesWithDecision    int       `json:"cases_with_decision"`
	ScrapedAt            time.Time `json:"scraped_at"`
}

// SummarizeAnalyses computes the statistics of analyzed cases.
func SummarizeAnalyses(records []*lawharvest.CaseRecord, at time.Time) AnalysisSummary {
	sum := AnalysisSummary{ScrapedAt: at}
	var textLength int
	for _, rec := range records {
		a := rec.CaseAnalysis
		if a == nil {
			continue
		}
		sum.TotalCasesAnalyzed++
		textLength += a.AnalysisMetadata.TextLength
		sum.TotalLegalIssues += len(a.LegalIssues)
		sum.TotalPrecedentsCited += len(a.PrecedentsCited)
		if a.Parties.Plaintiff != "" {
			sum.CasesWithParties++
		}
		if a.Decision != "" {
			sum.CasesWithDecision++
		}
	}
	if sum.TotalCasesAnalyzed > 0 {
		sum.AverageTextLength = textLength / sum.TotalCasesAnalyzed
	}
	return sum
}

// UnknownYear buckets acts whose year could not be read.
const UnknownYear = "Unknown"

// LegislationSummary aggregates a legislation run.
type LegislationSummary struct {
	TotalActs           int            `json:"total_acts"`
	Categories          map[string]int `json:"categories"`
	Years               map[string]int `json:"years"`
	ChaptersWithNumbers int            `json:"chapters_with_numbers"`
	WithDownloadLinks   int            `json:"with_download_links"`
	ScrapedAt           time.Time      `json:"scraped_at"`
}

// SummarizeActs computes the statistics of harvested acts.
func SummarizeActs(records []*lawharvest.ActRecord, at time.Time) LegislationSummary {
	sum := LegislationSummary{
		TotalActs:  len(records),
		Categories: make(map[string]int),
		Years:      make(map[string]int),
		ScrapedAt:  at,
	}
	for _, rec := range records {
		category := rec.LegalCategory
		if category == "" {
			category = lawharvest.CategoryOther
		}
		sum.Categories[category]++

		year := rec.YearEnacted
		if year == "" {
			year = UnknownYear
		}
		sum.Years[year]++

		if rec.ChapterNumber != "" {
			sum.ChaptersWithNumbers++
		}
		if rec.DownloadURL != "" {
			sum.WithDownloadLinks++
		}
	}
	return sum
}
