package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/zealgen"
)

// Ensure LoggingParsers implements zealgen.ParserSelector.
var _ zealgen.ParserSelector = (*LoggingParsers)(nil)

// LoggingParsers wraps a ParserSelector with debug logging for parser selection.
type LoggingParsers struct {
	next   zealgen.ParserSelector
	logger *slog.Logger
}

// NewLoggingParsers creates a new LoggingParsers.
func NewLoggingParsers(next zealgen.ParserSelector, logger *slog.Logger) *LoggingParsers {
	return &LoggingParsers{next: next, logger: logger}
}

// Select logs which parser claimed the page and returns it.
func (p *LoggingParsers) Select(html string) zealgen.Parser {
	begin := time.Now()
	parser := p.next.Select(html)
	name := "(none)"
	if parser != nil {
		name = parser.Name()
	}
	p.logger.Debug("parser selection",
		"parser", name,
		"duration", time.Since(begin),
	)
	return parser
}
