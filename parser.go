package zealgen

// Symbol kinds used as the "type" column of the docset index.
// The names are the entry types documentation browsers know how to display.
const (
	KindAttribute = "Attribute"
	KindClass     = "Class"
	KindConstant  = "Constant"
	KindEnum      = "Enum"
	KindException = "Exception"
	KindField     = "Field"
	KindFunction  = "Function"
	KindGuide     = "Guide"
	KindMacro     = "Macro"
	KindMethod    = "Method"
	KindModule    = "Module"
	KindSection   = "Section"
	KindStruct    = "Struct"
	KindTrait     = "Trait"
	KindType      = "Type"
	KindVariable  = "Variable"
	KindVariant   = "Variant"
)

// Symbol is a named, typed entry extracted from a page.
type Symbol struct {
	Name string
	Kind string

	// Anchor is the fragment identifying the symbol inside its page.
	// Empty when the symbol refers to the page as a whole.
	Anchor string
}

// ParsedPage is the result of parsing one page.
type ParsedPage struct {
	// Content is the document body written to the bundle.
	Content string

	// Symbols are listed in document order.
	Symbols []Symbol
}

// Parser extracts content and symbols from the pages of one documentation framework.
type Parser interface {
	// Name returns the parser's identifier (e.g., "sphinx", "generic").
	Name() string

	// Matches is a cheap structural check of the HTML.
	// It has no side effects.
	Matches(html string) bool

	// Parse extracts the page. It must only be called on HTML for which
	// Matches returned true.
	Parse(html string) (*ParsedPage, error)
}

// ParserSelector picks the parser responsible for a page.
type ParserSelector interface {
	// Select returns the parser for html, or nil if no parser claims it.
	Select(html string) Parser
}

var _ ParserSelector = ParserSet(nil)

// ParserSet is a priority-ordered list of parsers. Framework-specific
// parsers must precede generic fallbacks.
type ParserSet []Parser

// Select returns the first parser whose Matches reports true, or nil.
func (s ParserSet) Select(html string) Parser {
	for _, p := range s {
		if p.Matches(html) {
			return p
		}
	}
	return nil
}
