package mock

import "github.com/fwojciec/zealgen"

var _ zealgen.Parser = (*Parser)(nil)

// Parser is a mock implementation of zealgen.Parser.
type Parser struct {
	NameFn    func() string
	MatchesFn func(html string) bool
	ParseFn   func(html string) (*zealgen.ParsedPage, error)
}

func (p *Parser) Name() string {
	return p.NameFn()
}

func (p *Parser) Matches(html string) bool {
	return p.MatchesFn(html)
}

func (p *Parser) Parse(html string) (*zealgen.ParsedPage, error) {
	return p.ParseFn(html)
}

var _ zealgen.ParserSelector = (*ParserSelector)(nil)

// ParserSelector is a mock implementation of zealgen.ParserSelector.
type ParserSelector struct {
	SelectFn func(html string) zealgen.Parser
}

func (s *ParserSelector) Select(html string) zealgen.Parser {
	return s.SelectFn(html)
}
