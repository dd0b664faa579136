package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/zealgen"
)

var _ zealgen.Parser = (*SphinxParser)(nil)

// sphinxKinds maps Sphinx object-description classes to index entry types.
var sphinxKinds = map[string]string{
	"function":     zealgen.KindFunction,
	"class":        zealgen.KindClass,
	"method":       zealgen.KindMethod,
	"classmethod":  zealgen.KindMethod,
	"staticmethod": zealgen.KindMethod,
	"attribute":    zealgen.KindAttribute,
	"property":     zealgen.KindAttribute,
	"data":         zealgen.KindVariable,
	"exception":    zealgen.KindException,
	"module":       zealgen.KindModule,
}

// SphinxParser extracts API symbols from Sphinx documentation.
// Validated against Sphinx v4.x-v7.x with ReadTheDocs and classic themes.
//
// It recognizes pages by:
// - the "Sphinx" meta generator tag
// - .wy-nav-side, .wy-menu-vertical for ReadTheDocs theme
// - .sphinxsidebar for classic theme
// - .toctree-wrapper and dt.sig-object
type SphinxParser struct{}

// NewSphinxParser creates a new SphinxParser.
func NewSphinxParser() *SphinxParser {
	return &SphinxParser{}
}

// Name returns the parser's identifier.
func (p *SphinxParser) Name() string {
	return "sphinx"
}

// Matches reports whether html was generated by Sphinx.
func (p *SphinxParser) Matches(html string) bool {
	doc, err := parseHTML(html)
	if err != nil {
		return false
	}
	if strings.Contains(metaGenerator(doc), "sphinx") {
		return true
	}
	return hasSelector(doc, ".sphinxsidebar") ||
		hasSelector(doc, ".wy-nav-side") ||
		hasSelector(doc, ".wy-menu-vertical") ||
		hasSelector(doc, ".toctree-wrapper") ||
		hasSelector(doc, "dt.sig-object")
}

// Parse returns the page with a Guide entry for its title and one entry per
// documented object (dl[class] > dt[id]).
func (p *SphinxParser) Parse(html string) (*zealgen.ParsedPage, error) {
	doc, err := parseHTML(html)
	if err != nil {
		return nil, err
	}

	var symbols []zealgen.Symbol
	if title := headingText(doc.Find("h1").First()); title != "" {
		symbols = append(symbols, zealgen.Symbol{Name: title, Kind: zealgen.KindGuide})
	}

	doc.Find("dl[class] > dt[id]").Each(func(_ int, dt *goquery.Selection) {
		kind := sphinxKind(dt.Parent().AttrOr("class", ""))
		if kind == "" {
			return
		}
		id := dt.AttrOr("id", "")
		name := sphinxName(dt, id)
		if name == "" {
			return
		}
		symbols = append(symbols, zealgen.Symbol{Name: name, Kind: kind, Anchor: id})
	})

	return &zealgen.ParsedPage{Content: html, Symbols: symbols}, nil
}

func sphinxKind(class string) string {
	for _, c := range strings.Fields(class) {
		if kind, ok := sphinxKinds[c]; ok {
			return kind
		}
	}
	return ""
}

// sphinxName prefers the anchor id, which Sphinx fills with the fully
// qualified name for Python objects. Mangled ids (C++ "_CPPv4...") fall back
// to the signature text.
func sphinxName(dt *goquery.Selection, id string) string {
	if id != "" && !strings.HasPrefix(id, "_") && !strings.ContainsAny(id, " \t") {
		return id
	}
	prefix := cleanText(dt.Find(".sig-prename, .descclassname").First().Text())
	name := cleanText(dt.Find(".sig-name, .descname").First().Text())
	if name == "" {
		return id
	}
	return prefix + name
}
