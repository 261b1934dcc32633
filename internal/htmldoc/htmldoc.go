// Package htmldoc abstracts HTML document traversal behind a minimal
// capability interface so extraction heuristics stay independent of the
// concrete parser.
package htmldoc

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// Document is the traversal capability extraction code depends on:
// select-by-rule, get-text, and attribute lookup.
type Document interface {
	// SelectText returns the normalized text of the first node matching the
	// CSS selector, or "" when nothing matches.
	SelectText(selector string) string

	// SelectAllText returns the normalized text of every node matching the
	// selector.
	SelectAllText(selector string) []string

	// Exists reports whether any node matches the selector.
	Exists(selector string) bool

	// Attr returns the named attribute of the first node matching the
	// selector.
	Attr(selector, name string) string

	// Title returns the page title text.
	Title() string

	// Text returns the whitespace-collapsed text of the whole body with
	// script/style/noscript noise removed.
	Text() string
}

// goqueryDoc implements Document on top of goquery.
type goqueryDoc struct {
	doc *goquery.Document
}

// Parse builds a Document from raw HTML.
func Parse(html string) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "htmldoc: parse")
	}
	// Structural noise never contributes to extracted text.
	doc.Find("script, style, noscript").Remove()
	return &goqueryDoc{doc: doc}, nil
}

func (g *goqueryDoc) SelectText(selector string) string {
	sel := g.doc.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	return normalize(sel.Text())
}

func (g *goqueryDoc) SelectAllText(selector string) []string {
	var out []string
	g.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if text := normalize(s.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

func (g *goqueryDoc) Exists(selector string) bool {
	return g.doc.Find(selector).Length() > 0
}

func (g *goqueryDoc) Attr(selector, name string) string {
	val, _ := g.doc.Find(selector).First().Attr(name)
	return strings.TrimSpace(val)
}

func (g *goqueryDoc) Title() string {
	return normalize(g.doc.Find("title").First().Text())
}

func (g *goqueryDoc) Text() string {
	body := g.doc.Find("body")
	if body.Length() == 0 {
		return normalize(g.doc.Text())
	}
	return normalize(body.Text())
}

// normalize collapses all whitespace runs to single spaces.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
