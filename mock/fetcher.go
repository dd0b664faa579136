package mock

import (
	"context"

	"github.com/fwojciec/zealgen"
)

var _ zealgen.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of zealgen.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*zealgen.FetchResult, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*zealgen.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ zealgen.Downloader = (*Downloader)(nil)

// Downloader is a mock implementation of zealgen.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string) ([]byte, error)
}

func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	return d.DownloadFn(ctx, url)
}
