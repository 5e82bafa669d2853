package goquery

import (
	"strings"

	"github.com/fwojciec/lawharvest"
	"golang.org/x/net/html"
)

// MaxLabelLength bounds the text nodes considered as labels so prose that
// happens to mention a label is ignored.
const MaxLabelLength = 50

// Lookup resolves the value that belongs to a label found in text node n.
// It returns "" when it cannot resolve one.
type Lookup func(label string, n *html.Node) string

// Inline reads "Label: value" from the label's own text node.
func Inline(label string, n *html.Node) string {
	left, right, ok := strings.Cut(n.Data, ":")
	if !ok || strings.TrimSpace(left) != label {
		return ""
	}
	return strings.TrimSpace(right)
}

// NextSibling reads the element following the label's element.
func NextSibling(_ string, n *html.Node) string {
	if el := nextElement(n.Parent); el != nil {
		return nodeText(el)
	}
	return ""
}

// ParentNextSibling reads the element following the label element's parent.
func ParentNextSibling(_ string, n *html.Node) string {
	if n.Parent == nil {
		return ""
	}
	if el := nextElement(n.Parent.Parent); el != nil {
		return nodeText(el)
	}
	return ""
}

// ColonSplit reads "Label: value" from the label's element.
func ColonSplit(label string, n *html.Node) string {
	if n.Parent == nil {
		return ""
	}
	left, right, ok := strings.Cut(nodeText(n.Parent), ":")
	if !ok || strings.TrimSpace(left) != label {
		return ""
	}
	return strings.TrimSpace(right)
}

// DefaultLookups is the lookup chain used by every built-in rule. Inline
// is a pre-step ahead of the sibling, parent sibling and colon lookups; it
// only answers when the value sits in the label's own text, so a label
// alone in its element still resolves through the siblings.
var DefaultLookups = []Lookup{Inline, NextSibling, ParentNextSibling, ColonSplit}

// DetailRule maps the labels of one field to the lookups that resolve it.
type DetailRule struct {
	Field   string
	Labels  []string
	Lookups []Lookup
	Set     func(d *lawharvest.CaseDetails, value string)
}

// DefaultDetailRules lists the judgment metadata labels. A node holding a
// longer label is never read as a shorter label it contains, so "Court"
// does not answer from a "Court Station" node.
var DefaultDetailRules = []DetailRule{
	{
		Field:   "court_station",
		Labels:  []string{"Court Station", "Court station"},
		Lookups: DefaultLookups,
		Set:     func(d *lawharvest.CaseDetails, v string) { d.CourtStation = v },
	},
	{
		Field:   "case_number",
		Labels:  []string{"Case Number", "Case number"},
		Lookups: DefaultLookups,
		Set:     func(d *lawharvest.CaseDetails, v string) { d.CaseNumber = v },
	},
	{
		Field:   "case_action",
		Labels:  []string{"Case Action", "Case action"},
		Lookups: DefaultLookups,
		Set:     func(d *lawharvest.CaseDetails, v string) { d.CaseAction = v },
	},
	{
		Field:   "judgment_date",
		Labels:  []string{"Judgment Date", "Judgment date"},
		Lookups: DefaultLookups,
		Set:     func(d *lawharvest.CaseDetails, v string) { d.JudgmentDate = lawharvest.NormalizeDate(v) },
	},
	{
		Field:   "citation",
		Labels:  []string{"Citation"},
		Lookups: DefaultLookups,
		Set:     func(d *lawharvest.CaseDetails, v string) { d.Citation = v },
	},
	{
		Field:   "judges",
		Labels:  []string{"Judges"},
		Lookups: DefaultLookups,
		Set:     func(d *lawharvest.CaseDetails, v string) { d.Judges = lawharvest.SplitJudges(v) },
	},
	{
		Field:   "court",
		Labels:  []string{"Court"},
		Lookups: DefaultLookups,
		Set:     func(d *lawharvest.CaseDetails, v string) { d.Court = v },
	},
}

// extractDetails runs rules over the text nodes of root.
func extractDetails(root *html.Node, rules []DetailRule) *lawharvest.CaseDetails {
	details := &lawharvest.CaseDetails{}
	nodes := textNodes(root)
	claimed := make(map[*html.Node]bool)

	var labels []string
	for _, rule := range rules {
		labels = append(labels, rule.Labels...)
	}

	for _, rule := range rules {
		if value, n := resolveRule(rule, nodes, labels, claimed); n != nil {
			claimed[n] = true
			rule.Set(details, value)
		}
	}
	return details
}

// resolveRule returns the first value any label occurrence resolves to,
// together with the text node it came from.
func resolveRule(rule DetailRule, nodes []*html.Node, labels []string, claimed map[*html.Node]bool) (string, *html.Node) {
	for _, n := range nodes {
		if claimed[n] {
			continue
		}
		text := strings.TrimSpace(n.Data)
		if text == "" || len(text) >= MaxLabelLength {
			continue
		}
		for _, label := range rule.Labels {
			if !strings.Contains(text, label) || shadowed(text, label, labels) {
				continue
			}
			for _, lookup := range rule.Lookups {
				if v := cleanValue(lookup(label, n)); v != "" {
					return v, n
				}
			}
		}
	}
	return "", nil
}

// shadowed reports whether text holds a longer label that contains label.
func shadowed(text, label string, labels []string) bool {
	for _, l := range labels {
		if len(l) > len(label) && strings.Contains(l, label) && strings.Contains(text, l) {
			return true
		}
	}
	return false
}

// cleanValue strips the "Copy" button text the modern site renders next to values.
func cleanValue(v string) string {
	return collapse(strings.ReplaceAll(v, "Copy", ""))
}
