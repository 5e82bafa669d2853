package analyze_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/lawharvest"
	"github.com/fwojciec/lawharvest/analyze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const judgmentText = `JOHN DOE v JANE ROE

Coram: Hon. Justice Mwangi

This is an appeal from the judgment of the Chief Magistrate.

Counsel: Mr Otieno for the appellant

Applicant: John Doe, of Nairobi

Respondent: Jane Roe, of Kisumu

1. Whether the trial court erred in law.

The issue is: whether costs should follow the event.

Ratio decidendi costs follow the event unless good reason is shown.

Followed Mbogo v Shah 1968 EA 93.

Held: The appeal is dismissed with costs.`

func newAnalyzer() *analyze.Analyzer {
	a := analyze.NewAnalyzer()
	a.Now = func() time.Time { return time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC) }
	return a
}

func TestAnalyzer_Analyze(t *testing.T) {
	t.Parallel()

	t.Run("extracts structured fields", func(t *testing.T) {
		t.Parallel()

		res, err := newAnalyzer().Analyze(judgmentText)
		require.NoError(t, err)

		assert.Equal(t, "The appeal is dismissed with costs.", res.Decision)
		assert.Equal(t, "JOHN DOE", res.Parties.Plaintiff)
		assert.Equal(t, "JANE ROE", res.Parties.Defendant)
		assert.Contains(t, res.Parties.OtherParties, "John Doe")
		assert.Contains(t, res.Parties.OtherParties, "Jane Roe")
		assert.Equal(t, "This is an appeal from the judgment of the Chief Magistrate.", res.CaseSummary)
		assert.Contains(t, res.Advocates, "Mr Otieno for the appellant")
		assert.Contains(t, res.JudgesMentioned, "Justice Mwangi")
		assert.Contains(t, res.LegalIssues, "whether costs should follow the event")
		assert.Contains(t, res.PrecedentsCited, "1968 EA")
		assert.NotEmpty(t, res.LegalPrinciples)
	})

	t.Run("precedent cited by name and year", func(t *testing.T) {
		t.Parallel()

		res, err := newAnalyzer().Analyze("The court relied on Okoth v. Republic 2019 for the test.")
		require.NoError(t, err)
		assert.Contains(t, res.PrecedentsCited, "Okoth v. Republic 2019")
	})

	t.Run("decision from a held label", func(t *testing.T) {
		t.Parallel()

		res, err := newAnalyzer().Analyze("Some reasoning here.\n\nHeld: The appeal is dismissed with costs.")
		require.NoError(t, err)
		assert.Equal(t, "The appeal is dismissed with costs.", res.Decision)
	})

	t.Run("decision may be empty", func(t *testing.T) {
		t.Parallel()

		res, err := newAnalyzer().Analyze("Nothing decided in this text")
		require.NoError(t, err)
		assert.Empty(t, res.Decision)
	})

	t.Run("summary falls back to the second paragraph", func(t *testing.T) {
		t.Parallel()

		second := strings.Repeat("word ", 200)
		res, err := newAnalyzer().Analyze("Heading\n\n" + second + "\n\nThird")
		require.NoError(t, err)
		assert.Len(t, []rune(res.CaseSummary), analyze.SummaryFallbackLength)
		assert.True(t, strings.HasPrefix(res.CaseSummary, "word word"))
	})

	t.Run("summary prefers labels", func(t *testing.T) {
		t.Parallel()

		res, err := newAnalyzer().Analyze("Heading\n\nBrief facts: The appellant was charged with theft.\n\nMore")
		require.NoError(t, err)
		assert.Equal(t, "The appellant was charged with theft.", res.CaseSummary)
	})

	t.Run("computes metadata from the cleaned text", func(t *testing.T) {
		t.Parallel()

		res, err := newAnalyzer().Analyze("One two  three.\n\n\n\nFour five [note].")
		require.NoError(t, err)
		assert.Equal(t, "One two three.\n\nFour five .", res.FullText)
		assert.Equal(t, lawharvest.AnalysisMetadata{
			TextLength:     len("One two three.\n\nFour five ."),
			WordCount:      6,
			ParagraphCount: 2,
			ScrapedAt:      time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC),
		}, res.AnalysisMetadata)
	})

	t.Run("metadata is present for empty text", func(t *testing.T) {
		t.Parallel()

		res, err := newAnalyzer().Analyze("")
		require.NoError(t, err)
		assert.Zero(t, res.AnalysisMetadata.TextLength)
		assert.False(t, res.AnalysisMetadata.ScrapedAt.IsZero())
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		a, err := newAnalyzer().Analyze(judgmentText)
		require.NoError(t, err)
		b, err := newAnalyzer().Analyze(judgmentText)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("a failing sub-extraction leaves the others intact", func(t *testing.T) {
		t.Parallel()

		a := newAnalyzer()
		a.Extractions = append([]analyze.Extraction{{
			Field: "broken",
			Run: func(p *analyze.PatternSet, text string, dst *lawharvest.CaseAnalysis) {
				panic("bad pattern")
			},
		}}, analyze.DefaultExtractions...)

		res, err := a.Analyze(judgmentText)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
		assert.Equal(t, "The appeal is dismissed with costs.", res.Decision)
		assert.NotZero(t, res.AnalysisMetadata.WordCount)
	})
}

func TestAnalyzer_Caps(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := range 40 {
		fmt.Fprintf(&b, "Issue number %d arises here. ", i)
		fmt.Fprintf(&b, "Principle %d applies here. ", i)
		fmt.Fprintf(&b, "Cited authority %d here. ", i)
		fmt.Fprintf(&b, "%d KLR and KEHC %d. ", 1900+i, i)
	}

	res, err := newAnalyzer().Analyze(b.String())
	require.NoError(t, err)

	assert.Len(t, res.LegalIssues, lawharvest.MaxLegalIssues)
	assert.Len(t, res.LegalPrinciples, lawharvest.MaxLegalPrinciples)
	assert.Len(t, res.PrecedentsCited, lawharvest.MaxPrecedents)
}

func TestExtractParties(t *testing.T) {
	t.Parallel()

	t.Run("falls back to role names", func(t *testing.T) {
		t.Parallel()

		p := analyze.ExtractParties(analyze.DefaultPatterns, "between the Petitioner versus Respondent in this matter")
		assert.Equal(t, "Petitioner", p.Plaintiff)
		assert.Equal(t, "Respondent", p.Defendant)
	})

	t.Run("empty when nothing matches", func(t *testing.T) {
		t.Parallel()

		assert.True(t, analyze.ExtractParties(analyze.DefaultPatterns, "no parties here").IsEmpty())
	})
}
