package analyze

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/lawharvest"
)

// SummaryFallbackLength bounds the paragraph used when no summary label matches.
const SummaryFallbackLength = 500

// Ensure Analyzer implements lawharvest.TextAnalyzer at compile time.
var _ lawharvest.TextAnalyzer = (*Analyzer)(nil)

// Extraction derives one field. Run assigns its field only once the value
// is complete so a failing extraction leaves the field empty.
type Extraction struct {
	Field string
	Run   func(p *PatternSet, text string, dst *lawharvest.CaseAnalysis)
}

// DefaultExtractions lists the built-in sub-extractions.
var DefaultExtractions = []Extraction{
	{"parties", func(p *PatternSet, text string, dst *lawharvest.CaseAnalysis) {
		dst.Parties = ExtractParties(p, text)
	}},
	{"case_summary", func(p *PatternSet, text string, dst *lawharvest.CaseAnalysis) {
		dst.CaseSummary = ExtractSummary(p, text)
	}},
	{"legal_issues", func(p *PatternSet, text string, dst *lawharvest.CaseAnalysis) {
		dst.LegalIssues = capSet(collect(p.LegalIssues, text), lawharvest.MaxLegalIssues)
	}},
	{"decision", func(p *PatternSet, text string, dst *lawharvest.CaseAnalysis) {
		dst.Decision = firstMatch(p.Decision, text)
	}},
	{"legal_principles", func(p *PatternSet, text string, dst *lawharvest.CaseAnalysis) {
		dst.LegalPrinciples = capSet(collect(p.Principles, text), lawharvest.MaxLegalPrinciples)
	}},
	{"precedents_cited", func(p *PatternSet, text string, dst *lawharvest.CaseAnalysis) {
		dst.PrecedentsCited = capSet(collect(p.Precedents, text), lawharvest.MaxPrecedents)
	}},
	{"advocates", func(p *PatternSet, text string, dst *lawharvest.CaseAnalysis) {
		dst.Advocates = collect(p.Advocates, text)
	}},
	{"judges", func(p *PatternSet, text string, dst *lawharvest.CaseAnalysis) {
		dst.JudgesMentioned = collect(p.Judges, text)
	}},
}

// Analyzer runs the sub-extractions over cleaned judgment text.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	Patterns    *PatternSet
	Extractions []Extraction
	Now         func() time.Time
}

// NewAnalyzer returns an Analyzer with the default patterns and extractions.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		Patterns:    DefaultPatterns,
		Extractions: DefaultExtractions,
		Now:         time.Now,
	}
}

// Analyze cleans text and runs every sub-extraction over it independently.
// The returned error joins the failures of individual sub-extractions; the
// analysis is returned regardless with those fields left empty.
func (a *Analyzer) Analyze(text string) (*lawharvest.CaseAnalysis, error) {
	cleaned := Clean(text)
	res := &lawharvest.CaseAnalysis{FullText: cleaned}

	var errs []error
	for _, x := range a.Extractions {
		if err := safely(func() { x.Run(a.Patterns, cleaned, res) }); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", x.Field, err))
		}
	}

	res.AnalysisMetadata = Metadata(cleaned, a.Now())
	return res, errors.Join(errs...)
}

// safely converts a panic in fn into an error.
func safely(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	fn()
	return nil
}

// Metadata describes cleaned text.
func Metadata(text string, now time.Time) lawharvest.AnalysisMetadata {
	return lawharvest.AnalysisMetadata{
		TextLength:     utf8.RuneCountInString(text),
		WordCount:      len(strings.Fields(text)),
		ParagraphCount: len(Paragraphs(text)),
		ScrapedAt:      now,
	}
}

// ExtractParties finds the parties from role names ("Plaintiff v Defendant"),
// falling back to a case title line, and the labelled other parties.
func ExtractParties(p *PatternSet, text string) lawharvest.Parties {
	var parties lawharvest.Parties
	if m := p.PartyRoles.FindStringSubmatch(text); m != nil {
		parties.Plaintiff = m[1]
		parties.Defendant = m[2]
	} else if m := p.PartyTitle.FindStringSubmatch(text); m != nil {
		parties.Plaintiff = strings.TrimSpace(m[1])
		parties.Defendant = strings.TrimSpace(m[2])
	}
	parties.OtherParties = collect([]*regexp.Regexp{p.Applicants, p.Respondents}, text)
	return parties
}

// ExtractSummary returns the first labelled summary, or the start of the
// second paragraph when no label matches.
func ExtractSummary(p *PatternSet, text string) string {
	if s := firstMatch(p.Summary, text); s != "" {
		return s
	}
	paras := strings.Split(text, "\n\n")
	if len(paras) < 2 {
		return ""
	}
	return truncate(strings.TrimSpace(paras[1]), SummaryFallbackLength)
}

// firstMatch returns the first match of the first pattern that matches.
func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v := strings.TrimSpace(matchValue(m)); v != "" {
				return v
			}
		}
	}
	return ""
}

// collect returns every match of every pattern as a sorted set.
func collect(patterns []*regexp.Regexp, text string) []string {
	seen := make(map[string]bool)
	var res []string
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v := strings.TrimSpace(matchValue(m))
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			res = append(res, v)
		}
	}
	slices.Sort(res)
	return res
}

func matchValue(m []string) string {
	if len(m) > 1 {
		return m[1]
	}
	return m[0]
}

func capSet(set []string, n int) []string {
	if len(set) > n {
		return set[:n]
	}
	return set
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
