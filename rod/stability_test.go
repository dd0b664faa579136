package rod

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshots returns a snapshot func that yields the given pages in order,
// repeating the last one, and counts calls.
func snapshots(calls *int, pages ...string) func() (string, error) {
	return func() (string, error) {
		i := *calls
		*calls++
		if i >= len(pages) {
			i = len(pages) - 1
		}
		return pages[i], nil
	}
}

func TestFetcher_waitStable(t *testing.T) {
	t.Parallel()

	t.Run("stops after three unchanged polls", func(t *testing.T) {
		t.Parallel()

		f := &Fetcher{maxPolls: 10, stablePolls: 3}
		var calls int

		html, err := f.waitStable(context.Background(), snapshots(&calls, "a", "ab", "abc", "abc"))

		require.NoError(t, err)
		assert.Equal(t, "abc", html)
		// abc is seen first on poll 3, then stays stable for polls 4, 5, 6.
		assert.Equal(t, 6, calls)
	})

	t.Run("gives up after max polls", func(t *testing.T) {
		t.Parallel()

		f := &Fetcher{maxPolls: 5, stablePolls: 3}
		var calls int
		growing := func() (string, error) {
			calls++
			return strings.Repeat("x", calls), nil
		}

		html, err := f.waitStable(context.Background(), growing)

		require.NoError(t, err)
		assert.Equal(t, "xxxxx", html)
		assert.Equal(t, 5, calls)
	})

	t.Run("empty content never counts as stable", func(t *testing.T) {
		t.Parallel()

		f := &Fetcher{maxPolls: 4, stablePolls: 1}
		var calls int

		html, err := f.waitStable(context.Background(), snapshots(&calls, ""))

		require.NoError(t, err)
		assert.Empty(t, html)
		assert.Equal(t, 4, calls)
	})

	t.Run("returns snapshot errors", func(t *testing.T) {
		t.Parallel()

		f := &Fetcher{maxPolls: 3, stablePolls: 3}
		boom := errors.New("target closed")

		_, err := f.waitStable(context.Background(), func() (string, error) { return "", boom })

		assert.ErrorIs(t, err, boom)
	})

	t.Run("stops when context is done", func(t *testing.T) {
		t.Parallel()

		f := &Fetcher{maxPolls: 3, stablePolls: 3}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var calls int

		_, err := f.waitStable(ctx, snapshots(&calls, "a"))

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, calls)
	})
}
