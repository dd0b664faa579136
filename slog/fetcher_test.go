package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/zealgen"
	"github.com/fwojciec/zealgen/mock"
	zslog "github.com/fwojciec/zealgen/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*zealgen.FetchResult, error) {
				return &zealgen.FetchResult{URL: url, HTML: "<html>content</html>"}, nil
			},
		}

		fetcher := zslog.NewLoggingFetcher(inner, logger)
		result, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", result.HTML)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "url=https://example.com/docs")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
		assert.NotContains(t, output, "final=")
	})

	t.Run("logs final URL after redirect", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*zealgen.FetchResult, error) {
				return &zealgen.FetchResult{URL: url + "/index.html"}, nil
			},
		}

		_, err := zslog.NewLoggingFetcher(inner, logger).Fetch(context.Background(), "https://example.com/docs")

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "final=https://example.com/docs/index.html")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*zealgen.FetchResult, error) {
				return nil, errors.New("network error")
			},
		}

		fetcher := zslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "err=\"network error\"")
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	t.Run("delegates to inner fetcher", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		closeCalled := false
		inner := &mock.Fetcher{
			CloseFn: func() error {
				closeCalled = true
				return nil
			},
		}

		fetcher := zslog.NewLoggingFetcher(inner, logger)
		err := fetcher.Close()

		require.NoError(t, err)
		assert.True(t, closeCalled)
	})
}

func TestLoggingDownloader_Download(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	inner := &mock.Downloader{
		DownloadFn: func(_ context.Context, _ string) ([]byte, error) {
			return []byte("body{}"), nil
		},
	}

	data, err := zslog.NewLoggingDownloader(inner, logger).Download(context.Background(), "https://example.com/style.css")

	require.NoError(t, err)
	assert.Equal(t, []byte("body{}"), data)
	output := buf.String()
	assert.Contains(t, output, "download")
	assert.Contains(t, output, "url=https://example.com/style.css")
	assert.Contains(t, output, "bytes=6")
}
