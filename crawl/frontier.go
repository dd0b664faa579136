package crawl

import (
	"sync"

	"github.com/fwojciec/zealgen"
	"github.com/fwojciec/zealgen/bloom"
)

// Compile-time interface verification.
var _ zealgen.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO crawl queue with deduplication.
// A URL is accepted at most once over the frontier's lifetime, whether it is
// still pending or has already been popped.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu      sync.Mutex
	seen    *bloom.Set
	queue   []zealgen.Link
	visited int
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for the dedup filter.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewSet(n, fpRate),
	}
}

// Push adds a link to the back of the queue.
// Returns false if the URL has already been seen.
// URL fragments are stripped before deduplication - URLs differing only by fragment
// are considered duplicates.
func (f *Frontier) Push(link zealgen.Link) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	link.URL = zealgen.StripFragment(link.URL)
	if !f.seen.Add(link.URL) {
		return false
	}
	f.queue = append(f.queue, link)
	return true
}

// Pop removes the oldest link and marks it visited.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (zealgen.Link, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return zealgen.Link{}, false
	}
	link := f.queue[0]
	f.queue[0] = zealgen.Link{}
	f.queue = f.queue[1:]
	f.visited++
	return link, true
}

// Len returns the number of pending URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Visited returns the number of URLs popped so far.
func (f *Frontier) Visited() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited
}

// Seen returns true if the URL is pending or visited.
// URL fragments are stripped before checking.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Contains(zealgen.StripFragment(rawURL))
}
