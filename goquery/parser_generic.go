package goquery

import "github.com/fwojciec/zealgen"

var _ zealgen.Parser = (*GenericParser)(nil)

// GenericParser is the fallback for pages no framework parser recognizes.
// It always matches.
type GenericParser struct{}

// NewGenericParser creates a new GenericParser.
func NewGenericParser() *GenericParser {
	return &GenericParser{}
}

// Name returns the parser's identifier.
func (p *GenericParser) Name() string {
	return "generic"
}

// Matches always returns true.
func (p *GenericParser) Matches(string) bool {
	return true
}

// Parse returns the page title (or first h1) as a Guide and its h2/h3
// headings with ids as Sections.
func (p *GenericParser) Parse(html string) (*zealgen.ParsedPage, error) {
	doc, err := parseHTML(html)
	if err != nil {
		return nil, err
	}

	var symbols []zealgen.Symbol
	title := cleanText(doc.Find("title").First().Text())
	if title == "" {
		title = headingText(doc.Find("h1").First())
	}
	if title != "" {
		symbols = append(symbols, zealgen.Symbol{Name: title, Kind: zealgen.KindGuide})
	}
	symbols = append(symbols, sectionSymbols(doc.Selection)...)

	return &zealgen.ParsedPage{Content: html, Symbols: symbols}, nil
}
