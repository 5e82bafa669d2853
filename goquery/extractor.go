package goquery

import (
	"github.com/fwojciec/lawharvest"
)

// Ensure Extractor implements lawharvest.CaseExtractor at compile time.
var _ lawharvest.CaseExtractor = (*Extractor)(nil)

// Extractor reads judgment pages with a label rule table and a content
// container chain. It holds no per-page state and is safe for concurrent use.
type Extractor struct {
	Rules     []DetailRule
	Selectors []string
}

// NewExtractor returns an Extractor with the default rules and selectors.
func NewExtractor() *Extractor {
	return &Extractor{
		Rules:     DefaultDetailRules,
		Selectors: ContentSelectors,
	}
}

// ExtractDetails returns the labelled metadata of a judgment page.
func (e *Extractor) ExtractDetails(payload string) (*lawharvest.CaseDetails, error) {
	doc, err := Parse(payload)
	if err != nil {
		return nil, err
	}
	return extractDetails(doc.Get(0), e.Rules), nil
}

// ExtractPage parses the page once, reads its metadata and then strips
// scripts and styles to read the body text.
func (e *Extractor) ExtractPage(payload string) (*lawharvest.CasePage, error) {
	doc, err := Parse(payload)
	if err != nil {
		return nil, err
	}

	details := extractDetails(doc.Get(0), e.Rules)
	return &lawharvest.CasePage{
		Title:   pageTitle(doc),
		Details: *details,
		Text:    extractText(doc, e.Selectors),
	}, nil
}
