package goquery

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/zealgen"
	"golang.org/x/sync/errgroup"
)

// DefaultAssetConcurrency is the number of simultaneous asset downloads per page.
const DefaultAssetConcurrency = 4

var _ zealgen.AssetLocalizer = (*AssetLocalizer)(nil)

// AssetLocalizer downloads the stylesheets and scripts a page references
// and rewrites the references to point at the local copies.
//
// Downloads run concurrently; writes go through the AssetWriter one at a
// time. A file name keeps pointing at the first URL stored under it, so
// two different "style.css" files never overwrite each other.
type AssetLocalizer struct {
	downloader  zealgen.Downloader
	writer      zealgen.AssetWriter
	concurrency int
	logger      *slog.Logger

	mu    sync.Mutex
	names map[string]string // file name -> source URL
}

// AssetOption configures an AssetLocalizer.
type AssetOption func(*AssetLocalizer)

// WithAssetConcurrency sets the number of simultaneous downloads.
func WithAssetConcurrency(n int) AssetOption {
	return func(l *AssetLocalizer) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithAssetLogger sets the logger used for per-asset failures.
func WithAssetLogger(logger *slog.Logger) AssetOption {
	return func(l *AssetLocalizer) {
		l.logger = logger
	}
}

// NewAssetLocalizer creates an AssetLocalizer that fetches with d and stores with w.
func NewAssetLocalizer(d zealgen.Downloader, w zealgen.AssetWriter, opts ...AssetOption) *AssetLocalizer {
	l := &AssetLocalizer{
		downloader:  d,
		writer:      w,
		concurrency: DefaultAssetConcurrency,
		logger:      slog.New(slog.DiscardHandler),
		names:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// assetRef is one element attribute pointing at an asset.
type assetRef struct {
	sel  *goquery.Selection
	attr string
}

// Localize rewrites <link rel="stylesheet" href> and <script src> references that resolve to
// http(s) URLs. References whose download or write fails keep their
// original value.
func (l *AssetLocalizer) Localize(ctx context.Context, html string, baseURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", zealgen.Errorf(zealgen.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := parseHTML(html)
	if err != nil {
		return "", err
	}

	var urls []string
	refs := make(map[string][]assetRef)
	collect := func(selection *goquery.Selection, attr string) {
		selection.Each(func(_ int, s *goquery.Selection) {
			raw := strings.TrimSpace(s.AttrOr(attr, ""))
			if raw == "" {
				return
			}
			ref, err := url.Parse(raw)
			if err != nil {
				return
			}
			resolved := base.ResolveReference(ref)
			if resolved.Scheme != "http" && resolved.Scheme != "https" {
				return
			}
			u := resolved.String()
			if _, ok := refs[u]; !ok {
				urls = append(urls, u)
			}
			refs[u] = append(refs[u], assetRef{sel: s, attr: attr})
		})
	}
	collect(doc.Find("link[href]").FilterFunction(isStylesheet), "href")
	collect(doc.Find("script[src]"), "src")

	if len(urls) == 0 {
		return html, nil
	}

	data := make([][]byte, len(urls))
	var g errgroup.Group
	g.SetLimit(l.concurrency)
	for i, u := range urls {
		g.Go(func() error {
			b, err := l.downloader.Download(ctx, u)
			if err != nil {
				l.logger.Warn("asset download failed", "url", u, "err", err)
				return nil
			}
			data[i] = b
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	for i, u := range urls {
		if data[i] == nil {
			continue
		}
		name := l.nameFor(u)
		if err := l.writer.WriteAsset(name, data[i]); err != nil {
			l.logger.Warn("asset write failed", "url", u, "name", name, "err", err)
			continue
		}
		for _, r := range refs[u] {
			r.sel.SetAttr(r.attr, name)
		}
	}

	return render(doc)
}

// isStylesheet reports whether a <link> loads a stylesheet. Navigation links
// (prev, next, canonical, search) point at pages, not assets.
func isStylesheet(_ int, s *goquery.Selection) bool {
	for _, rel := range strings.Fields(strings.ToLower(s.AttrOr("rel", ""))) {
		if rel == "stylesheet" {
			return true
		}
	}
	return false
}

// nameFor returns the local file name for an asset URL: its last path
// segment, or "asset_<hash>" when the path has none. A name already taken
// by another URL gets the hash appended before the extension.
func (l *AssetLocalizer) nameFor(rawURL string) string {
	name := AssetName(rawURL)

	l.mu.Lock()
	defer l.mu.Unlock()

	if owner, ok := l.names[name]; ok && owner != rawURL {
		ext := path.Ext(name)
		name = fmt.Sprintf("%s_%s%s", strings.TrimSuffix(name, ext), shortHash(rawURL), ext)
	}
	l.names[name] = rawURL
	return name
}

// AssetName returns the base file name for an asset URL: the last path
// segment, or "asset_" followed by 8 hex characters of the URL's hash when
// the segment is empty.
func AssetName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err == nil {
		seg := path.Base(u.Path)
		if seg != "." && seg != "/" && seg != "" && !strings.HasSuffix(u.Path, "/") {
			return seg
		}
	}
	return "asset_" + shortHash(rawURL)
}

func shortHash(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))[:8]
}

// IconURL returns the first <link> whose rel mentions "icon", resolved
// against baseURL, or /favicon.ico on the page's origin.
func (l *AssetLocalizer) IconURL(html string, baseURL string) string {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return ""
	}

	if doc, err := parseHTML(html); err == nil {
		var href string
		doc.Find("link[rel][href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if !strings.Contains(strings.ToLower(s.AttrOr("rel", "")), "icon") {
				return true
			}
			href = strings.TrimSpace(s.AttrOr("href", ""))
			return href == ""
		})
		if href != "" {
			if ref, err := url.Parse(href); err == nil {
				return base.ResolveReference(ref).String()
			}
		}
	}

	return base.Scheme + "://" + base.Host + "/favicon.ico"
}
