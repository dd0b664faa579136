package zealgen

// Link is a URL waiting in the crawl frontier together with the scope of the
// seed it was discovered from.
type Link struct {
	URL   string
	Scope Scope
}

// URLFrontier manages the crawl queue with deduplication.
type URLFrontier interface {
	// Push queues a link.
	// Returns false if the URL is already pending or visited.
	Push(link Link) bool

	// Pop dequeues the oldest link and marks it visited.
	// Returns false if the frontier is empty.
	Pop() (Link, bool)

	// Len returns the number of pending URLs.
	Len() int

	// Seen returns true if the URL is pending or visited.
	Seen(url string) bool
}
