package crawl_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/zealgen"
	"github.com/fwojciec/zealgen/crawl"
	"github.com/fwojciec/zealgen/fs"
	"github.com/fwojciec/zealgen/goquery"
	"github.com/fwojciec/zealgen/mock"
	"github.com/fwojciec/zealgen/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var docsSite = map[string]string{
	"https://example.com/docs/": `<html><head><title>Home</title></head>
<body><h1>Home</h1><a href="guide.html">Guide</a></body></html>`,
	"https://example.com/docs/guide.html": `<html><head><title>Guide</title></head>
<body><h1>Guide</h1><h2 id="install">Install</h2><a href="./">Home</a></body></html>`,
}

// newDocsetCrawler wires a Crawler to a real bundle on disk. fetch serves the pages.
func newDocsetCrawler(t *testing.T, fetch func(ctx context.Context, url string) (*zealgen.FetchResult, error)) (*crawl.Crawler, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Docs.docset")
	builder, err := fs.NewBuilder(path, func(p string) (zealgen.Index, error) {
		return sqlite.OpenIndex(p)
	})
	require.NoError(t, err)

	downloader := &mock.Downloader{
		DownloadFn: func(_ context.Context, url string) ([]byte, error) {
			return nil, zealgen.Errorf(zealgen.EFETCH, "HTTP 404 for %s", url)
		},
	}
	return &crawl.Crawler{
		Fetcher:    &mock.Fetcher{FetchFn: fetch},
		Downloader: downloader,
		Assets:     goquery.NewAssetLocalizer(downloader, builder),
		Links:      goquery.NewLinkRewriter(),
		Parsers:    goquery.DefaultParsers(),
		Builder:    builder,
		MaxPages:   10,
	}, path
}

func serveDocs(_ context.Context, url string) (*zealgen.FetchResult, error) {
	html, ok := docsSite[url]
	if !ok {
		return nil, zealgen.Errorf(zealgen.EFETCH, "HTTP 404: %s", url)
	}
	return &zealgen.FetchResult{URL: url, HTML: html}, nil
}

func readEntries(t *testing.T, bundle string) []*zealgen.IndexEntry {
	t.Helper()
	idx, err := sqlite.OpenIndex(filepath.Join(bundle, "Contents", "Resources", fs.IndexFilename))
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	entries, err := idx.Entries(context.Background())
	require.NoError(t, err)
	return entries
}

func TestCrawler_Run_WritesSearchIndex(t *testing.T) {
	t.Parallel()

	crawler, path := newDocsetCrawler(t, serveDocs)

	result, err := crawler.Run(context.Background(), []string{"https://example.com/docs/"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Pages)

	assert.Equal(t, []*zealgen.IndexEntry{
		{Name: "Home", Type: zealgen.KindGuide, Path: "index.html"},
		{Name: "Guide", Type: zealgen.KindGuide, Path: "guide.html"},
		{Name: "Install", Type: zealgen.KindSection, Path: "guide.html#install"},
	}, readEntries(t, path))
	assert.FileExists(t, filepath.Join(path, "Contents", fs.PlistFilename))
}

func TestCrawler_Run_CanceledKeepsSearchIndex(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	crawler, path := newDocsetCrawler(t, func(ctx context.Context, url string) (*zealgen.FetchResult, error) {
		if url == "https://example.com/docs/guide.html" {
			cancel()
			return nil, ctx.Err()
		}
		return serveDocs(ctx, url)
	})

	result, err := crawler.Run(ctx, []string{"https://example.com/docs/"}, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, result.Pages)

	assert.Equal(t, []*zealgen.IndexEntry{
		{Name: "Home", Type: zealgen.KindGuide, Path: "index.html"},
	}, readEntries(t, path))
	assert.FileExists(t, filepath.Join(path, "Contents", fs.PlistFilename))
}
