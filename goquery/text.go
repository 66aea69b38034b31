package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/wikiscrape"
	"golang.org/x/net/html"
)

// Ensure Extractor implements wikiscrape.Extractor at compile time.
var _ wikiscrape.Extractor = (*Extractor)(nil)

// boilerplateSelector matches elements whose text is never visible prose:
// scripts, styles, citation markers and MediaWiki's empty placeholders.
const boilerplateSelector = "script, style, noscript, template, sup.reference, .mw-empty-elt"

// Extractor converts HTML fragments into plain text using goquery.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Text returns the visible text of markup. Every text node is trimmed and
// the non-empty ones are joined with single spaces, so block elements such
// as adjacent paragraphs never run together.
func (e *Extractor) Text(markup string) (string, error) {
	if strings.TrimSpace(markup) == "" {
		return "", wikiscrape.Errorf(wikiscrape.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", wikiscrape.Errorf(wikiscrape.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find(boilerplateSelector).Remove()

	var parts []string
	for _, n := range doc.Nodes {
		collectText(n, &parts)
	}

	return strings.Join(parts, " "), nil
}

func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		if s := strings.TrimSpace(n.Data); s != "" {
			*parts = append(*parts, s)
		}
		return
	case html.CommentNode, html.DoctypeNode:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
