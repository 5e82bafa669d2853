// Package analyze derives structured fields from the cleaned text of a judgment.
package analyze

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	pageArtifactRe = regexp.MustCompile(`(?i)Page\s+\d+|\d+\s+of\s+\d+`)
	asideRe        = regexp.MustCompile(`\[.*?\]|\(.*?\)`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// Clean normalizes extracted judgment text: NFKC normalization, page
// number and bracketed aside removal, whitespace runs collapsed to a space
// and blank-line runs to exactly one blank line. Removals can expose new
// matches, so passes repeat until the text stops changing; Clean is
// therefore idempotent. After the first pass no step lengthens the text,
// so the loop terminates.
func Clean(text string) string {
	for {
		next := cleanPass(text)
		if next == text {
			return text
		}
		text = next
	}
}

func cleanPass(text string) string {
	text = norm.NFKC.String(text)
	text = pageArtifactRe.ReplaceAllString(text, "")
	text = asideRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllStringFunc(text, func(ws string) string {
		if strings.Count(ws, "\n") >= 2 {
			return "\n\n"
		}
		return " "
	})
	return strings.TrimSpace(text)
}

// Paragraphs splits cleaned text on blank lines, dropping empty parts.
func Paragraphs(text string) []string {
	var paras []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}
