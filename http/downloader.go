package http

import (
	"context"
	"io"
	"net/http"

	"github.com/fwojciec/zealgen"
)

// DefaultMaxDownloadSize caps the size of a single asset download.
const DefaultMaxDownloadSize = 32 << 20

var _ zealgen.Downloader = (*Downloader)(nil)

// Downloader retrieves raw bytes for assets and icons.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// NewDownloader creates a Downloader. It accepts the same options as NewFetcher.
func NewDownloader(opts ...Option) *Downloader {
	o := buildOptions(opts)
	return &Downloader{
		client:    o.client,
		userAgent: o.userAgent,
	}
}

// Download returns the body of url. Any status other than 200 and bodies
// larger than DefaultMaxDownloadSize are EFETCH errors.
func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	resp, err := get(ctx, d.client, d.userAgent, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, zealgen.Errorf(zealgen.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, DefaultMaxDownloadSize+1))
	if err != nil {
		return nil, zealgen.Errorf(zealgen.EFETCH, "reading %s: %w", url, err)
	}
	if len(data) > DefaultMaxDownloadSize {
		return nil, zealgen.Errorf(zealgen.EFETCH, "%s exceeds %d bytes", url, DefaultMaxDownloadSize)
	}
	return data, nil
}
