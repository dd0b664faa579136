package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/zealgen"
	"github.com/fwojciec/zealgen/crawl"
	"github.com/fwojciec/zealgen/fs"
	"github.com/fwojciec/zealgen/goquery"
	zhttp "github.com/fwojciec/zealgen/http"
	"github.com/fwojciec/zealgen/rod"
	zslog "github.com/fwojciec/zealgen/slog"
	"github.com/fwojciec/zealgen/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("zealgen"),
		kong.Description("Generate Dash/Zeal docsets from documentation websites"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	req := cli.Request()
	if err := req.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	// Fetchers
	var fetcher zealgen.Fetcher
	if req.Rendered {
		rodFetcher, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout))
		if err != nil {
			if zealgen.ErrorCode(err) == zealgen.EUNAVAILABLE {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --js")
			}
			return fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = rodFetcher
	} else {
		fetcher = zhttp.NewFetcher(zhttp.WithTimeout(cli.Timeout))
	}
	defer fetcher.Close()

	var downloader zealgen.Downloader = zhttp.NewDownloader(zhttp.WithTimeout(cli.Timeout))
	var parsers zealgen.ParserSelector = goquery.DefaultParsers()
	if cli.Verbose {
		fetcher = zslog.NewLoggingFetcher(fetcher, logger)
		downloader = zslog.NewLoggingDownloader(downloader, logger)
		parsers = zslog.NewLoggingParsers(parsers, logger)
	}
	deps.Fetcher = fetcher
	deps.Downloader = downloader
	deps.Parsers = parsers

	// Bundle
	builder, err := fs.NewBuilder(req.Output, openIndex)
	if err != nil {
		return err
	}
	deps.Builder = builder

	cmd := &GenerateCmd{
		URLs:        req.URLs,
		MaxPages:    req.MaxPages,
		Concurrency: cli.Concurrency,
		Retries:     cli.Retries,
	}
	return cmd.Run(deps)
}

// openIndex opens the sqlite search index of a bundle.
func openIndex(path string) (zealgen.Index, error) {
	idx, err := sqlite.OpenIndex(path)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// newCrawler wires the crawl pipeline from deps.
func newCrawler(deps *Dependencies, cmd *GenerateCmd) *crawl.Crawler {
	return &crawl.Crawler{
		Fetcher:     deps.Fetcher,
		Downloader:  deps.Downloader,
		Assets:      goquery.NewAssetLocalizer(deps.Downloader, deps.Builder, goquery.WithAssetLogger(deps.Logger)),
		Links:       goquery.NewLinkRewriter(),
		Parsers:     deps.Parsers,
		Builder:     deps.Builder,
		Logger:      deps.Logger,
		MaxPages:    cmd.MaxPages,
		Concurrency: cmd.Concurrency,
		RetryDelays: crawl.BackoffDelays(cmd.Retries),
	}
}
