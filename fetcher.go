package zealgen

import "context"

// FetchResult holds the HTML retrieved for a URL.
type FetchResult struct {
	// URL is the final URL after redirects.
	URL string

	// HTML is the response body (static fetch) or the rendered DOM (browser fetch).
	HTML string
}

// Fetcher retrieves HTML from URLs.
// Implementations either issue a plain HTTP request or drive a browser
// that renders JavaScript before the HTML is captured.
type Fetcher interface {
	// Fetch retrieves the page at url.
	// Failures are returned with code EFETCH, or EUNAVAILABLE when the
	// rendering engine itself cannot be used.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases fetcher resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// Downloader retrieves raw bytes such as stylesheets, scripts and icons.
type Downloader interface {
	// Download returns the response body for url.
	// Responses other than HTTP 200 are reported as EFETCH errors.
	Download(ctx context.Context, url string) ([]byte, error)
}
