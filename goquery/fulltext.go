package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ContentSelectors locate the judgment body; the first selector that
// matches wins and the whole body is used when none does.
var ContentSelectors = []string{
	`div[class*="content"]`,
	`div[class*="judgment"]`,
	`div[class*="main"]`,
	"article",
	"main",
	`div[id*="content"]`,
	`div[id*="main"]`,
}

// blockElements end a paragraph in extracted text.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "tr": true, "table": true, "blockquote": true, "pre": true,
	"header": true, "footer": true, "dd": true, "dt": true,
}

// extractText removes script and style nodes from doc and returns the
// visible text of its content container. Block elements become blank lines.
func extractText(doc *goquery.Document, selectors []string) string {
	doc.Find("script, style, noscript").Remove()

	container := doc.Find("body")
	for _, s := range selectors {
		if sel := doc.Find(s).First(); sel.Length() > 0 {
			container = sel
			break
		}
	}

	var b strings.Builder
	for _, n := range container.Nodes {
		writeText(&b, n)
	}
	return b.String()
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteString("\n\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteString("\n\n")
	}
}

// pageTitle returns the first heading, falling back to the document title.
func pageTitle(doc *goquery.Document) string {
	if h := collapse(doc.Find("h1").First().Text()); h != "" {
		return h
	}
	return collapse(doc.Find("title").First().Text())
}
