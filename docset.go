package zealgen

import "context"

// IndexEntry is one row of the docset search index.
type IndexEntry struct {
	Name string
	Type string

	// Path is the document filename, optionally followed by "#anchor".
	Path string
}

// NewIndexEntry builds the index entry for a symbol found in filename.
func NewIndexEntry(sym Symbol, filename string) *IndexEntry {
	path := filename
	if sym.Anchor != "" {
		path += "#" + sym.Anchor
	}
	return &IndexEntry{Name: sym.Name, Type: sym.Kind, Path: path}
}

// Index is the persistent docset search index.
// Entries are append-only; duplicate rows are allowed.
// Implementations are not safe for concurrent writers.
type Index interface {
	AddEntry(ctx context.Context, entry *IndexEntry) error
	Close() error
}

// AssetWriter stores a downloaded asset next to the bundle's documents.
type AssetWriter interface {
	WriteAsset(name string, data []byte) error
}

// DocsetBuilder owns a bundle on disk.
// Builders are single-writer: callers serialize all calls.
type DocsetBuilder interface {
	AssetWriter

	// AddPage writes the page as a document named after sourceURL and
	// indexes its symbols. Errors are fatal to the build (code EIO).
	AddPage(ctx context.Context, page *ParsedPage, sourceURL string) error

	// SetIcon stores the bundle icon. Calls after the first success have no effect.
	SetIcon(data []byte) error

	// HasIcon reports whether an icon has been stored.
	HasIcon() bool

	// Finalize writes the manifest and closes the index.
	Finalize() error
}

// AssetLocalizer makes pages self-contained.
type AssetLocalizer interface {
	// Localize downloads external stylesheets and scripts referenced by html,
	// stores them in the bundle and points the references at the local copies.
	// Individual download failures leave the original reference in place.
	Localize(ctx context.Context, html string, baseURL string) (string, error)

	// IconURL returns the URL of the page's icon: the declared icon link,
	// or /favicon.ico on the page's origin.
	IconURL(html string, baseURL string) string
}

// RewriteResult holds a page with rewritten anchors and the links it contributes to the crawl.
type RewriteResult struct {
	HTML string

	// Links are the in-scope page URLs (fragment stripped) in document order.
	Links []string
}

// LinkRewriter points in-scope anchors at local documents and harvests
// the in-scope links for the frontier.
type LinkRewriter interface {
	Rewrite(html string, pageURL string, scope Scope) (*RewriteResult, error)
}
