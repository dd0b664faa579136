package mock

import (
	"context"

	"github.com/fwojciec/zealgen"
)

var _ zealgen.Index = (*Index)(nil)

// Index is a mock implementation of zealgen.Index.
type Index struct {
	AddEntryFn func(ctx context.Context, entry *zealgen.IndexEntry) error
	CloseFn    func() error
}

func (i *Index) AddEntry(ctx context.Context, entry *zealgen.IndexEntry) error {
	return i.AddEntryFn(ctx, entry)
}

func (i *Index) Close() error {
	return i.CloseFn()
}

var _ zealgen.DocsetBuilder = (*DocsetBuilder)(nil)

// DocsetBuilder is a mock implementation of zealgen.DocsetBuilder.
type DocsetBuilder struct {
	AddPageFn    func(ctx context.Context, page *zealgen.ParsedPage, sourceURL string) error
	WriteAssetFn func(name string, data []byte) error
	SetIconFn    func(data []byte) error
	HasIconFn    func() bool
	FinalizeFn   func() error
}

func (b *DocsetBuilder) AddPage(ctx context.Context, page *zealgen.ParsedPage, sourceURL string) error {
	return b.AddPageFn(ctx, page, sourceURL)
}

func (b *DocsetBuilder) WriteAsset(name string, data []byte) error {
	return b.WriteAssetFn(name, data)
}

func (b *DocsetBuilder) SetIcon(data []byte) error {
	return b.SetIconFn(data)
}

func (b *DocsetBuilder) HasIcon() bool {
	return b.HasIconFn()
}

func (b *DocsetBuilder) Finalize() error {
	return b.FinalizeFn()
}

var _ zealgen.AssetWriter = (*AssetWriter)(nil)

// AssetWriter is a mock implementation of zealgen.AssetWriter.
type AssetWriter struct {
	WriteAssetFn func(name string, data []byte) error
}

func (w *AssetWriter) WriteAsset(name string, data []byte) error {
	return w.WriteAssetFn(name, data)
}

var _ zealgen.AssetLocalizer = (*AssetLocalizer)(nil)

// AssetLocalizer is a mock implementation of zealgen.AssetLocalizer.
type AssetLocalizer struct {
	LocalizeFn func(ctx context.Context, html string, baseURL string) (string, error)
	IconURLFn  func(html string, baseURL string) string
}

func (l *AssetLocalizer) Localize(ctx context.Context, html string, baseURL string) (string, error) {
	return l.LocalizeFn(ctx, html, baseURL)
}

func (l *AssetLocalizer) IconURL(html string, baseURL string) string {
	return l.IconURLFn(html, baseURL)
}

var _ zealgen.LinkRewriter = (*LinkRewriter)(nil)

// LinkRewriter is a mock implementation of zealgen.LinkRewriter.
type LinkRewriter struct {
	RewriteFn func(html string, pageURL string, scope zealgen.Scope) (*zealgen.RewriteResult, error)
}

func (r *LinkRewriter) Rewrite(html string, pageURL string, scope zealgen.Scope) (*zealgen.RewriteResult, error) {
	return r.RewriteFn(html, pageURL, scope)
}
