// Package crawl provides docset generation orchestration.
// It walks the URL frontier, fetches pages, localizes their assets, rewrites
// their links, and hands parsed pages to the docset builder.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/zealgen"
)

// Frontier configuration.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the false positive rate of the dedup filter.
	frontierFalsePositiveRate = 0.01
)

// Crawler orchestrates the generation of a docset.
//
// Fetches may run on up to Concurrency workers; everything else (asset
// localization, link rewriting, parsing, and every builder call) runs on the
// single coordinating goroutine, so the builder and its index see one writer.
type Crawler struct {
	Fetcher    zealgen.Fetcher
	Downloader zealgen.Downloader
	Assets     zealgen.AssetLocalizer
	Links      zealgen.LinkRewriter
	Parsers    zealgen.ParserSelector
	Builder    zealgen.DocsetBuilder

	// Frontier is optional; a fresh in-memory frontier is used when nil.
	Frontier zealgen.URLFrontier

	// Logger receives skip-and-continue warnings. Nil discards them.
	Logger *slog.Logger

	// MaxPages is a hard ceiling on the number of pages added to the bundle.
	// Zero produces a bundle with a manifest and no pages.
	MaxPages int

	// Concurrency is the number of fetch workers. Values below 1 mean 1,
	// which processes one URL at a time.
	Concurrency int

	// RetryDelays are the waits before each fetch retry. Nil disables retries.
	RetryDelays []time.Duration
}

// Result holds the outcome of a crawl.
type Result struct {
	// Pages is the number of pages added to the bundle.
	Pages int
	// Failed counts pages that could not be fetched or parsed.
	Failed int
	// Skipped counts fetched pages that no parser claimed.
	Skipped int
	// Discovered counts URLs added to the frontier from page links.
	Discovered int
}

// ProgressFunc receives the number of pages added so far and the page budget.
type ProgressFunc func(current, total int)

// fetchOutcome is the result of fetching one frontier link.
type fetchOutcome struct {
	link   zealgen.Link
	result *zealgen.FetchResult
	err    error
}

// Run crawls from seeds until the frontier is exhausted or MaxPages pages
// have been added, then finalizes the bundle.
//
// Fetch, asset, icon and parse failures are logged and skipped. Builder
// failures abort the run without finalizing. If ctx is canceled the pages
// added so far are finalized and the context error is returned.
// The progress callback, if provided, is called before each URL is dequeued
// and once more when the crawl ends.
func (c *Crawler) Run(ctx context.Context, seeds []string, progress ProgressFunc) (*Result, error) {
	if len(seeds) == 0 {
		return nil, zealgen.Errorf(zealgen.EINVALID, "at least one seed URL required")
	}
	if c.MaxPages < 0 {
		return nil, zealgen.Errorf(zealgen.EINVALID, "max pages must not be negative, got %d", c.MaxPages)
	}

	r := &run{
		crawler:  c,
		frontier: c.Frontier,
		logger:   c.Logger,
		progress: progress,
		result:   &Result{},
	}
	if r.frontier == nil {
		r.frontier = NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}

	for _, seed := range seeds {
		scope, err := zealgen.NewScope(seed)
		if err != nil {
			r.logger.Warn("skipping seed", "url", seed, "err", err)
			continue
		}
		r.frontier.Push(zealgen.Link{URL: seed, Scope: scope})
	}

	if err := r.loop(ctx); err != nil {
		return r.result, err
	}

	r.report()

	if err := c.Builder.Finalize(); err != nil {
		return r.result, fmt.Errorf("finalizing docset: %w", err)
	}
	return r.result, ctx.Err()
}

// run holds the state of one Crawler.Run call.
// All fields are owned by the coordinating goroutine.
type run struct {
	crawler       *Crawler
	frontier      zealgen.URLFrontier
	logger        *slog.Logger
	progress      ProgressFunc
	result        *Result
	iconAttempted bool
}

// loop dispatches frontier links to fetch workers and handles their results.
// It returns only fatal errors; cancellation ends the loop with a nil error.
func (r *run) loop(ctx context.Context) error {
	c := r.crawler
	concurrency := max(c.Concurrency, 1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workCh := make(chan zealgen.Link)
	resultCh := make(chan fetchOutcome)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for link := range workCh {
				out := r.fetch(ctx, link)
				select {
				case resultCh <- out:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Stop workers, cancel in-flight fetches and discard their results.
	defer func() {
		close(workCh)
		cancel()
		go func() {
			wg.Wait()
			close(resultCh)
		}()
		for range resultCh {
		}
	}()

	var (
		next    zealgen.Link
		hasNext bool
		pending int // links handed to workers whose results are outstanding
	)

	for {
		// Only dequeue while a worker is free and the budget can still absorb
		// every outstanding fetch.
		if !hasNext && pending < concurrency && r.result.Pages+pending < c.MaxPages {
			if link, ok := r.frontier.Pop(); ok {
				next, hasNext = link, true
				r.report()
			}
		}

		if !hasNext && pending == 0 {
			return nil
		}

		var work chan<- zealgen.Link
		if hasNext {
			work = workCh
		}

		select {
		case <-ctx.Done():
			return nil
		case work <- next:
			hasNext = false
			pending++
		case out := <-resultCh:
			pending--
			if err := r.handle(ctx, out); err != nil {
				return err
			}
		}
	}
}

// fetch runs on a worker goroutine.
func (r *run) fetch(ctx context.Context, link zealgen.Link) fetchOutcome {
	result, err := FetchWithRetryDelays(ctx, link.URL, r.crawler.Fetcher.Fetch, r.logger, r.crawler.RetryDelays)
	return fetchOutcome{link: link, result: result, err: err}
}

// handle processes one fetched page on the coordinating goroutine.
// Only builder failures are returned.
func (r *run) handle(ctx context.Context, out fetchOutcome) error {
	c := r.crawler
	link := out.link

	if out.err != nil {
		r.result.Failed++
		r.logger.Warn("fetch failed", "url", link.URL, "err", out.err)
		return nil
	}
	if r.result.Pages >= c.MaxPages {
		return nil
	}

	// Relative references resolve against the page's final location; the
	// document itself is named after the URL that was requested.
	pageURL := out.result.URL
	if pageURL == "" {
		pageURL = link.URL
	}
	html := out.result.HTML

	r.fetchIcon(ctx, html, pageURL)

	parser := c.Parsers.Select(html)
	if parser == nil {
		r.result.Skipped++
		r.logger.Info("no parser matched", "url", link.URL)
		r.rewriteLinks(html, pageURL, link.Scope)
		return nil
	}

	localized, err := c.Assets.Localize(ctx, html, pageURL)
	if err != nil {
		r.logger.Warn("asset localization failed", "url", link.URL, "err", err)
		localized = html
	}

	rewritten := r.rewriteLinks(localized, pageURL, link.Scope)

	page, err := parser.Parse(rewritten)
	if err != nil {
		r.result.Failed++
		r.logger.Warn("parse failed", "url", link.URL, "parser", parser.Name(), "err", err)
		return nil
	}

	if err := c.Builder.AddPage(ctx, page, link.URL); err != nil {
		return fmt.Errorf("adding page %s: %w", link.URL, err)
	}
	r.result.Pages++
	return nil
}

// rewriteLinks rewrites html's anchors and queues the in-scope links it finds.
// On failure the HTML is returned unchanged.
func (r *run) rewriteLinks(html, pageURL string, scope zealgen.Scope) string {
	res, err := r.crawler.Links.Rewrite(html, pageURL, scope)
	if err != nil {
		r.logger.Warn("link rewriting failed", "url", pageURL, "err", err)
		return html
	}
	for _, u := range res.Links {
		if r.frontier.Push(zealgen.Link{URL: u, Scope: scope}) {
			r.result.Discovered++
		}
	}
	return res.HTML
}

// fetchIcon makes the crawl's single attempt at retrieving the bundle icon.
// Failures leave the bundle without an icon.
func (r *run) fetchIcon(ctx context.Context, html, pageURL string) {
	c := r.crawler
	if r.iconAttempted || c.Builder.HasIcon() {
		return
	}
	r.iconAttempted = true

	if c.Downloader == nil {
		return
	}
	iconURL := c.Assets.IconURL(html, pageURL)
	if iconURL == "" {
		return
	}

	data, err := c.Downloader.Download(ctx, iconURL)
	if err != nil {
		r.logger.Warn("icon fetch failed", "url", iconURL, "err", err)
		return
	}
	if err := c.Builder.SetIcon(data); err != nil {
		r.logger.Warn("icon write failed", "url", iconURL, "err", err)
	}
}

// report calls the progress callback, if any.
func (r *run) report() {
	if r.progress != nil {
		r.progress(r.result.Pages, r.crawler.MaxPages)
	}
}
