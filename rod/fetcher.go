// Package rod provides a zealgen.Fetcher that renders pages in headless
// Chrome, for documentation sites that build their content with JavaScript.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/zealgen"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/time/rate"
)

// Fetch defaults.
const (
	// DefaultFetchTimeout bounds a whole fetch, stability polling included.
	DefaultFetchTimeout = 30 * time.Second

	DefaultScrollStep     = 100
	DefaultScrollInterval = 100 * time.Millisecond

	DefaultPollInterval = time.Second
	DefaultMaxPolls     = 10
	DefaultStablePolls  = 3

	// networkIdle is how long the network must be quiet after navigation.
	networkIdle = 500 * time.Millisecond
)

// scrollJS scrolls to the bottom in fixed steps to trigger lazy-loaded
// content, then back to the top.
const scrollJS = `(distance, interval) => new Promise((resolve) => {
	let total = 0;
	const timer = setInterval(() => {
		const height = document.body ? document.body.scrollHeight : 0;
		window.scrollBy(0, distance);
		total += distance;
		if (total >= height) {
			clearInterval(timer);
			window.scrollTo(0, 0);
			resolve();
		}
	}, interval);
})`

// Ensure Fetcher implements zealgen.Fetcher at compile time.
var _ zealgen.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
//
// Every fetch runs in its own incognito context that is closed on return.
// After navigation the fetcher waits for the network to go idle, scrolls
// through the page, and then polls the page's HTML until its length stays
// unchanged for StablePolls consecutive polls or MaxPolls polls have run.
//
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	closed  atomic.Bool

	timeout        time.Duration
	settle         time.Duration
	scrollStep     int
	scrollInterval time.Duration
	pollInterval   time.Duration
	maxPolls       int
	stablePolls    int
	managerOpts    []ManagerOption
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the overall timeout of a single fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithSettleDelay adds a fixed wait after the network goes idle and before
// scrolling. Defaults to no wait.
func WithSettleDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.settle = d
	}
}

// WithScroll sets the scroll step in pixels and the delay between steps.
// A step of zero disables scrolling.
func WithScroll(step int, interval time.Duration) Option {
	return func(f *Fetcher) {
		f.scrollStep = step
		f.scrollInterval = interval
	}
}

// WithStability sets the content stability check: poll every interval, stop
// after stable unchanged polls or max polls in total.
func WithStability(interval time.Duration, max, stable int) Option {
	return func(f *Fetcher) {
		f.pollInterval = interval
		f.maxPolls = max
		f.stablePolls = stable
	}
}

// WithManagerOptions passes options to the underlying BrowserManager.
func WithManagerOptions(opts ...ManagerOption) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, opts...)
	}
}

// NewFetcher launches a headless browser and returns a Fetcher using it.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an EUNAVAILABLE error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:        DefaultFetchTimeout,
		scrollStep:     DefaultScrollStep,
		scrollInterval: DefaultScrollInterval,
		pollInterval:   DefaultPollInterval,
		maxPolls:       DefaultMaxPolls,
		stablePolls:    DefaultStablePolls,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.managerOpts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML and the URL the
// browser ended up on.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*zealgen.FetchResult, error) {
	if f.closed.Load() {
		return nil, zealgen.Errorf(zealgen.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	browser, release := f.manager.Acquire()
	defer release()
	if browser == nil {
		return nil, zealgen.Errorf(zealgen.EINVALID, "fetcher is closed")
	}
	incognito, err := browser.Incognito()
	if err != nil {
		return nil, zealgen.Errorf(zealgen.EFETCH, "creating browser context: %w", err)
	}
	defer incognito.Close()

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, zealgen.Errorf(zealgen.EFETCH, "opening page: %w", err)
	}
	defer page.Close()

	// Set context for all subsequent operations
	p := page.Context(ctx)

	wait := p.WaitRequestIdle(networkIdle, nil, nil, nil)
	if err := p.Navigate(url); err != nil {
		return nil, zealgen.Errorf(zealgen.EFETCH, "navigating to %s: %w", url, err)
	}
	wait()
	if err := p.WaitLoad(); err != nil {
		return nil, zealgen.Errorf(zealgen.EFETCH, "loading %s: %w", url, err)
	}

	if f.settle > 0 {
		if err := sleep(ctx, f.settle); err != nil {
			return nil, zealgen.Errorf(zealgen.EFETCH, "waiting for %s: %w", url, err)
		}
	}

	if f.scrollStep > 0 {
		if _, err := p.Eval(scrollJS, f.scrollStep, f.scrollInterval.Milliseconds()); err != nil {
			return nil, zealgen.Errorf(zealgen.EFETCH, "scrolling %s: %w", url, err)
		}
	}

	html, err := f.waitStable(ctx, func() (string, error) { return p.HTML() })
	if err != nil {
		return nil, zealgen.Errorf(zealgen.EFETCH, "reading %s: %w", url, err)
	}

	finalURL := url
	if info, err := p.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	return &zealgen.FetchResult{URL: finalURL, HTML: html}, nil
}

// waitStable polls snapshot until the content length is unchanged for
// stablePolls consecutive polls or maxPolls polls have run, and returns the
// last snapshot.
func (f *Fetcher) waitStable(ctx context.Context, snapshot func() (string, error)) (string, error) {
	limiter := rate.NewLimiter(rate.Every(f.pollInterval), 1)

	var (
		html    string
		lastLen int
		stable  int
	)
	for i := 0; i < f.maxPolls; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return "", err
		}
		current, err := snapshot()
		if err != nil {
			return "", err
		}
		html = current

		if len(current) > 0 && len(current) == lastLen {
			stable++
		} else {
			stable = 0
			lastLen = len(current)
		}
		if stable >= f.stablePolls {
			return html, nil
		}
	}

	if f.maxPolls <= 0 {
		return snapshot()
	}
	return html, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
