package mock

import "github.com/fwojciec/lawharvest"

var _ lawharvest.CaseExtractor = (*CaseExtractor)(nil)

// CaseExtractor is a mock implementation of lawharvest.CaseExtractor.
type CaseExtractor struct {
	ExtractDetailsFn func(html string) (*lawharvest.CaseDetails, error)
	ExtractPageFn    func(html string) (*lawharvest.CasePage, error)
}

func (e *CaseExtractor) ExtractDetails(html string) (*lawharvest.CaseDetails, error) {
	return e.ExtractDetailsFn(html)
}

func (e *CaseExtractor) ExtractPage(html string) (*lawharvest.CasePage, error) {
	return e.ExtractPageFn(html)
}

var _ lawharvest.TextAnalyzer = (*TextAnalyzer)(nil)

// TextAnalyzer is a mock implementation of lawharvest.TextAnalyzer.
type TextAnalyzer struct {
	AnalyzeFn func(text string) (*lawharvest.CaseAnalysis, error)
}

func (a *TextAnalyzer) Analyze(text string) (*lawharvest.CaseAnalysis, error) {
	return a.AnalyzeFn(text)
}
