package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/zealgen"
)

var _ zealgen.Parser = (*DocusaurusParser)(nil)

// DocusaurusParser extracts guides and sections from Docusaurus sites.
// Validated against Docusaurus v2.x and v3.x.
type DocusaurusParser struct{}

// NewDocusaurusParser creates a new DocusaurusParser.
func NewDocusaurusParser() *DocusaurusParser {
	return &DocusaurusParser{}
}

// Name returns the parser's identifier.
func (p *DocusaurusParser) Name() string {
	return "docusaurus"
}

// Matches reports whether html was generated by Docusaurus.
// __docusaurus_skipToContent_fallback is highly specific.
func (p *DocusaurusParser) Matches(html string) bool {
	doc, err := parseHTML(html)
	if err != nil {
		return false
	}
	if strings.Contains(metaGenerator(doc), "docusaurus") {
		return true
	}
	return hasSelector(doc, "#__docusaurus_skipToContent_fallback") ||
		hasSelector(doc, "#__docusaurus") ||
		hasSelector(doc, ".theme-doc-sidebar-container") ||
		hasSelector(doc, "[data-rh]") && hasSelector(doc, "[data-theme]")
}

// Parse returns the article title as a Guide and its h2/h3 headings with ids as Sections.
func (p *DocusaurusParser) Parse(html string) (*zealgen.ParsedPage, error) {
	doc, err := parseHTML(html)
	if err != nil {
		return nil, err
	}

	root := doc.Find("article").First()
	if root.Length() == 0 {
		root = doc.Selection
	}

	var symbols []zealgen.Symbol
	if title := headingText(root.Find("h1").First()); title != "" {
		symbols = append(symbols, zealgen.Symbol{Name: title, Kind: zealgen.KindGuide})
	}
	symbols = append(symbols, sectionSymbols(root)...)

	return &zealgen.ParsedPage{Content: html, Symbols: symbols}, nil
}

// sectionSymbols returns a Section for every h2 and h3 with an id under root.
func sectionSymbols(root *goquery.Selection) []zealgen.Symbol {
	var symbols []zealgen.Symbol
	root.Find("h2[id], h3[id]").Each(func(_ int, h *goquery.Selection) {
		name := headingText(h)
		if name == "" {
			return
		}
		symbols = append(symbols, zealgen.Symbol{
			Name:   name,
			Kind:   zealgen.KindSection,
			Anchor: h.AttrOr("id", ""),
		})
	})
	return symbols
}
