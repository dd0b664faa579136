package goquery

import "github.com/fwojciec/zealgen"

// DefaultParsers returns the built-in parsers in priority order: framework
// parsers first, the generic fallback last.
func DefaultParsers() zealgen.ParserSet {
	return zealgen.ParserSet{
		NewSphinxParser(),
		NewDocusaurusParser(),
		NewRustdocParser(),
		NewGenericParser(),
	}
}
