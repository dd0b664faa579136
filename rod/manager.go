package rod

import (
	"sync"

	"github.com/fwojciec/zealgen"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

// DefaultRecycleAfter is the number of rendered pages after which the
// browser process is replaced.
const DefaultRecycleAfter = 75

// chromeFlags keep background tabs from being throttled while a page settles.
var chromeFlags = []flags.Flag{
	"disable-background-timer-throttling",
	"disable-backgrounding-occluded-windows",
	"disable-renderer-backgrounding",
	"disable-dev-shm-usage",
	"disable-hang-monitor",
}

// instance is one running browser and the process that owns it.
// active counts the fetches currently using it; a retired instance is closed
// once the last of them finishes.
type instance struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	active   int
	retired  bool
	closed   bool
}

func (in *instance) close() error {
	if in == nil || in.closed {
		return nil
	}
	in.closed = true
	var err error
	if in.browser != nil {
		err = in.browser.Close()
	}
	if in.launcher != nil {
		in.launcher.Kill()
	}
	return err
}

// BrowserManager owns the headless browser used for rendered fetches.
// Chrome's memory baseline grows with every page it renders, so the browser
// is replaced after a fixed number of pages. A replaced browser keeps
// running until the fetches still using it release it.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	recycleAfter int
	bin          string
	launch       func() (*instance, error)

	mu      sync.Mutex
	current *instance
	retired map[*instance]struct{}
	pages   int
	closed  bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithRecycleAfter sets how many pages a browser renders before it is replaced.
// Values below 1 are ignored.
func WithRecycleAfter(n int) ManagerOption {
	return func(bm *BrowserManager) {
		if n > 0 {
			bm.recycleAfter = n
		}
	}
}

// WithBrowserBin launches the Chrome or Chromium binary at path instead of
// looking one up (and downloading it if missing).
func WithBrowserBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// NewBrowserManager launches a headless browser.
// Returns an EUNAVAILABLE error if none can be launched.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{recycleAfter: DefaultRecycleAfter}
	bm.launch = bm.launchChrome
	for _, opt := range opts {
		opt(bm)
	}
	if err := bm.start(); err != nil {
		return nil, err
	}
	return bm, nil
}

func (bm *BrowserManager) start() error {
	in, err := bm.launch()
	if err != nil {
		return err
	}
	bm.current = in
	bm.retired = make(map[*instance]struct{})
	return nil
}

// Acquire returns the browser to render the next page with and a release
// func that must be called when the page is done. Each release counts one
// rendered page. Once the recycle threshold is reached a fresh browser
// replaces the old one; if that launch fails the old browser stays in
// service. Acquire returns a nil browser after Close.
func (bm *BrowserManager) Acquire() (*rod.Browser, func()) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed || bm.current == nil {
		return nil, func() {}
	}
	if bm.pages >= bm.recycleAfter {
		bm.recycle()
	}

	in := bm.current
	in.active++
	var once sync.Once
	return in.browser, func() {
		once.Do(func() { bm.release(in) })
	}
}

func (bm *BrowserManager) release(in *instance) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	in.active--
	if in == bm.current {
		bm.pages++
	}
	if in.retired && in.active == 0 {
		delete(bm.retired, in)
		_ = in.close()
	}
}

// recycle swaps in a fresh browser. Must be called with mu held.
func (bm *BrowserManager) recycle() {
	next, err := bm.launch()
	if err != nil {
		return
	}
	old := bm.current
	bm.current = next
	bm.pages = 0

	if old.active == 0 {
		_ = old.close()
		return
	}
	old.retired = true
	bm.retired[old] = struct{}{}
}

// Close shuts down every browser, including ones still in use, and kills
// their processes. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	err := bm.current.close()
	bm.current = nil
	for in := range bm.retired {
		_ = in.close()
		delete(bm.retired, in)
	}
	return err
}

// LauncherPID returns the process ID of the current browser, or 0 after Close.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.current == nil || bm.current.launcher == nil {
		return 0
	}
	return bm.current.launcher.PID()
}

func (bm *BrowserManager) launchChrome() (*instance, error) {
	l := launcher.New().Leakless(true).Headless(true)
	for _, flag := range chromeFlags {
		l = l.Set(flag)
	}
	if bm.bin != "" {
		l = l.Bin(bm.bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, zealgen.Errorf(zealgen.EUNAVAILABLE, "launching browser (install Chrome or Chromium): %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, zealgen.Errorf(zealgen.EUNAVAILABLE, "connecting to browser: %w", err)
	}
	return &instance{browser: browser, launcher: l}, nil
}
