package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/zealgen"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (*zealgen.FetchResult, error)

// BackoffDelays returns retry delays for n retries, doubling from 1s: 1s, 2s, 4s, ...
func BackoffDelays(n int) []time.Duration {
	if n <= 0 {
		return nil
	}
	delays := make([]time.Duration, n)
	d := time.Second
	for i := range delays {
		delays[i] = d
		d *= 2
	}
	return delays
}

// FetchWithRetryDelays fetches url, retrying once per entry in delays and
// sleeping that long before each retry. With no delays the fetch is attempted once.
// Errors that retrying cannot fix (EUNAVAILABLE, EINVALID) are returned immediately.
// The logger, if provided, records each retry.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger, delays []time.Duration) (*zealgen.FetchResult, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := fetch(ctx, url)
		if err == nil {
			return result, nil
		}
		lastErr = err

		switch zealgen.ErrorCode(err) {
		case zealgen.EUNAVAILABLE, zealgen.EINVALID:
			return nil, err
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger.Debug("retry", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
