package lawharvest

import (
	"strings"
	"time"
)

// CaseRecord is a court judgment harvested from the judgment sites.
// Analysis is set only by deep analysis runs.
type CaseRecord struct {
	CaseName     string    `json:"case_name"`
	Citation     string    `json:"citation"`
	Court        string    `json:"court"`
	CourtStation string    `json:"court_station,omitempty"`
	CaseNumber   string    `json:"case_number,omitempty"`
	CaseAction   string    `json:"case_action,omitempty"`
	JudgmentDate Date      `json:"judgment_date"`
	Judges       []string  `json:"judges"`
	SourceURL    string    `json:"source_url"`
	ScrapedAt    time.Time `json:"scraped_at"`

	*CaseAnalysis
}

// Validate returns an error if the record contains invalid fields.
func (r *CaseRecord) Validate() error {
	if r.SourceURL == "" {
		return Errorf(EINVALID, "case record source URL required")
	}
	return nil
}

// IdentityFields implements Identifiable.
func (r *CaseRecord) IdentityFields() []string {
	return []string{r.CaseName, r.Citation}
}

// ApplyDetails copies every non-empty detail onto the record.
// Metadata read from labelled markup wins over values found in prose.
func (r *CaseRecord) ApplyDetails(d *CaseDetails) {
	if d == nil {
		return
	}
	if d.Citation != "" {
		r.Citation = d.Citation
	}
	if d.Court != "" {
		r.Court = d.Court
	}
	if d.CourtStation != "" {
		r.CourtStation = d.CourtStation
	}
	if d.CaseNumber != "" {
		r.CaseNumber = d.CaseNumber
	}
	if d.CaseAction != "" {
		r.CaseAction = d.CaseAction
	}
	if !d.JudgmentDate.IsZero() {
		r.JudgmentDate = d.JudgmentDate
	}
	if len(d.Judges) > 0 {
		r.Judges = d.Judges
	}
}

// CaseDetails holds the short labelled fields of a judgment page.
// Every field is optional.
type CaseDetails struct {
	Citation     string
	Court        string
	CourtStation string
	CaseNumber   string
	CaseAction   string
	JudgmentDate Date
	Judges       []string
}

// IsEmpty reports whether no detail was found.
func (d *CaseDetails) IsEmpty() bool {
	return d.Citation == "" && d.Court == "" && d.CourtStation == "" &&
		d.CaseNumber == "" && d.CaseAction == "" && d.JudgmentDate.IsZero() && len(d.Judges) == 0
}

// CaseAnalysis holds the fields derived from a judgment's full text.
// Set-valued fields are sorted and deduplicated.
type CaseAnalysis struct {
	FullText         string           `json:"full_text"`
	Parties          Parties          `json:"parties"`
	CaseSummary      string           `json:"case_summary"`
	LegalIssues      []string         `json:"legal_issues"`
	Decision         string           `json:"decision"`
	LegalPrinciples  []string         `json:"legal_principles"`
	PrecedentsCited  []string         `json:"precedents_cited"`
	Advocates        []string         `json:"advocates"`
	AnalysisMetadata AnalysisMetadata `json:"analysis_metadata"`

	// JudgesMentioned are judge names found in the text. They fill
	// CaseRecord.Judges when the page carries no judges label.
	JudgesMentioned []string `json:"-"`
}

// Caps on set-valued analysis fields.
const (
	MaxLegalIssues     = 10
	MaxLegalPrinciples = 10
	MaxPrecedents      = 15
)

// Parties names the sides of a case.
type Parties struct {
	Plaintiff    string   `json:"plaintiff"`
	Defendant    string   `json:"defendant"`
	OtherParties []string `json:"other_parties"`
}

// IsEmpty reports whether no party was identified.
func (p Parties) IsEmpty() bool {
	return p.Plaintiff == "" && p.Defendant == "" && len(p.OtherParties) == 0
}

// AnalysisMetadata describes the cleaned text an analysis ran over.
type AnalysisMetadata struct {
	TextLength     int       `json:"text_length"`
	WordCount      int       `json:"word_count"`
	ParagraphCount int       `json:"paragraph_count"`
	ScrapedAt      time.Time `json:"scraped_at"`
}

// CasePage is the result of extracting a judgment page once.
type CasePage struct {
	Title   string
	Details CaseDetails
	Text    string
}

// CaseExtractor reads judgment pages.
type CaseExtractor interface {
	// ExtractDetails returns the labelled metadata of a judgment page.
	ExtractDetails(html string) (*CaseDetails, error)

	// ExtractPage returns the labelled metadata and the visible body text
	// from a single parse of the page.
	ExtractPage(html string) (*CasePage, error)
}

// TextAnalyzer derives structured fields from cleaned judgment text.
type TextAnalyzer interface {
	// Analyze always returns an analysis. A non-nil error lists the
	// sub-extractions that failed; their fields are left empty.
	Analyze(text string) (*CaseAnalysis, error)
}

// SplitJudges splits a judges value on common separators.
func SplitJudges(s string) []string {
	s = strings.NewReplacer(";", ",", " & ", ",", " and ", ",", "\n", ",").Replace(s)
	var judges []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			judges = append(judges, part)
		}
	}
	return judges
}
