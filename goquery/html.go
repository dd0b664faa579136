// Package goquery implements page parsing, asset localization and link
// rewriting on top of goquery.
package goquery

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/zealgen"
	xhtml "golang.org/x/net/html"
)

// parseHTML parses html into a goquery document.
func parseHTML(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, zealgen.Errorf(zealgen.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// render serializes the whole document, doctype included.
func render(doc *goquery.Document) (string, error) {
	var buf bytes.Buffer
	for _, n := range doc.Nodes {
		if err := xhtml.Render(&buf, n); err != nil {
			return "", zealgen.Errorf(zealgen.EINTERNAL, "failed to render HTML: %v", err)
		}
	}
	return buf.String(), nil
}

// hasSelector checks if the document contains at least one element matching the selector.
func hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

// metaGenerator returns the lowercased content of the generator meta tag.
func metaGenerator(doc *goquery.Document) string {
	content, _ := doc.Find("meta[name='generator']").First().Attr("content")
	return strings.ToLower(content)
}

// headingText returns the visible text of a heading without permalink
// decorations such as "¶", "§" or Docusaurus hash links.
func headingText(sel *goquery.Selection) string {
	clone := sel.Clone()
	clone.Find(".headerlink, .hash-link, .anchor, .doc-anchor, button").Remove()
	return cleanText(clone.Text())
}

// cleanText collapses whitespace and drops zero-width and permalink characters.
func cleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '¶', '§':
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// hasClass reports whether the space-separated class attribute contains name.
func hasClass(class, name string) bool {
	for _, c := range strings.Fields(class) {
		if c == name {
			return true
		}
	}
	return false
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
