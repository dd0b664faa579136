package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/zealgen"
)

var _ zealgen.Parser = (*RustdocParser)(nil)

// rustdocItemKinds maps the item class rustdoc puts on <body> to entry types.
var rustdocItemKinds = map[string]string{
	"fn":       zealgen.KindFunction,
	"struct":   zealgen.KindStruct,
	"enum":     zealgen.KindEnum,
	"trait":    zealgen.KindTrait,
	"mod":      zealgen.KindModule,
	"macro":    zealgen.KindMacro,
	"constant": zealgen.KindConstant,
	"type":     zealgen.KindType,
	"static":   zealgen.KindVariable,
}

// rustdocMemberKinds maps member id prefixes to entry types.
var rustdocMemberKinds = []struct {
	prefix string
	kind   string
}{
	{"method.", zealgen.KindMethod},
	{"tymethod.", zealgen.KindMethod},
	{"structfield.", zealgen.KindField},
	{"variant.", zealgen.KindVariant},
	{"associatedconstant.", zealgen.KindConstant},
	{"associatedtype.", zealgen.KindType},
}

// RustdocParser extracts items and their members from rustdoc output.
type RustdocParser struct{}

// NewRustdocParser creates a new RustdocParser.
func NewRustdocParser() *RustdocParser {
	return &RustdocParser{}
}

// Name returns the parser's identifier.
func (p *RustdocParser) Name() string {
	return "rustdoc"
}

// Matches reports whether html was generated by rustdoc.
func (p *RustdocParser) Matches(html string) bool {
	doc, err := parseHTML(html)
	if err != nil {
		return false
	}
	return strings.HasPrefix(metaGenerator(doc), "rustdoc") ||
		hasSelector(doc, "body.rustdoc") ||
		hasSelector(doc, "#rustdoc-vars")
}

// Parse returns the page's item (kind from the body class, name from the h1)
// followed by its anchored members.
func (p *RustdocParser) Parse(html string) (*zealgen.ParsedPage, error) {
	doc, err := parseHTML(html)
	if err != nil {
		return nil, err
	}

	var symbols []zealgen.Symbol

	item := rustdocItemName(doc.Find("h1").First())
	if kind := rustdocItemKind(doc.Find("body").AttrOr("class", "")); kind != "" && item != "" {
		symbols = append(symbols, zealgen.Symbol{Name: item, Kind: kind})
	}

	seen := make(map[string]bool)
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		id := s.AttrOr("id", "")
		if seen[id] {
			return
		}
		for _, m := range rustdocMemberKinds {
			member, ok := strings.CutPrefix(id, m.prefix)
			if !ok || member == "" {
				continue
			}
			seen[id] = true
			name := member
			if item != "" {
				name = item + "::" + member
			}
			symbols = append(symbols, zealgen.Symbol{Name: name, Kind: m.kind, Anchor: id})
			return
		}
	})

	return &zealgen.ParsedPage{Content: html, Symbols: symbols}, nil
}

func rustdocItemKind(bodyClass string) string {
	for _, c := range strings.Fields(bodyClass) {
		if kind, ok := rustdocItemKinds[c]; ok {
			return kind
		}
	}
	return ""
}

// rustdocItemName turns an item heading such as "Struct reqwest::Client"
// into "reqwest::Client".
func rustdocItemName(h1 *goquery.Selection) string {
	clone := h1.Clone()
	clone.Find("button, .out-of-band, .since, .srclink, .rightside").Remove()
	fields := strings.Fields(cleanText(clone.Text()))
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	default:
		return strings.Join(fields[1:], "")
	}
}
