package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/zealgen"
	"github.com/fwojciec/zealgen/fs"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URLs        []string      `arg:"" optional:"" name:"url" help:"Documentation URLs to start crawling from"`
	Out         string        `short:"o" env:"ZEALGEN_OUT" help:"Output path of the docset (e.g. ./Go.docset)"`
	JS          bool          `name:"js" env:"ZEALGEN_JS" help:"Render pages in a headless browser before parsing"`
	MaxPages    int           `short:"n" default:"100" env:"ZEALGEN_MAX_PAGES" help:"Maximum number of pages to add"`
	Concurrency int           `short:"c" default:"1" env:"ZEALGEN_CONCURRENCY" help:"Concurrent fetch limit"`
	Timeout     time.Duration `short:"t" default:"30s" env:"ZEALGEN_TIMEOUT" help:"Fetch timeout per page"`
	Retries     int           `default:"0" env:"ZEALGEN_RETRIES" help:"Fetch retries with exponential backoff"`
	Verbose     bool          `short:"v" env:"ZEALGEN_VERBOSE" help:"Enable debug logging"`
}

// Request returns the generation request described by the parsed flags.
func (c *CLI) Request() *zealgen.GenerateRequest {
	return &zealgen.GenerateRequest{
		URLs:     c.URLs,
		Output:   c.Out,
		Rendered: c.JS,
		MaxPages: c.MaxPages,
	}
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Fetcher    zealgen.Fetcher
	Downloader zealgen.Downloader
	Parsers    zealgen.ParserSelector
	Builder    *fs.Builder
}

// GenerateCmd crawls the seed URLs into a docset.
type GenerateCmd struct {
	URLs        []string
	MaxPages    int
	Concurrency int
	Retries     int
}

// Run executes the generation.
func (c *GenerateCmd) Run(deps *Dependencies) error {
	crawler := newCrawler(deps, c)

	progress := func(current, total int) {
		fmt.Fprintf(deps.Stdout, "\r[%d/%d] pages", current, total)
	}

	result, err := crawler.Run(deps.Ctx, c.URLs, progress)
	fmt.Fprintln(deps.Stdout)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %s: %d pages", deps.Builder.Path(), result.Pages)
	if result.Failed > 0 || result.Skipped > 0 {
		fmt.Fprintf(deps.Stdout, " (%d failed, %d skipped)", result.Failed, result.Skipped)
	}
	fmt.Fprintln(deps.Stdout)
	return nil
}
