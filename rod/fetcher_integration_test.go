//go:build integration

package rod_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/zealgen/goquery"
	"github.com/fwojciec/zealgen/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Integration_DocusaurusDocs(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)
	defer fetcher.Close()

	result, err := fetcher.Fetch(ctx, "https://docusaurus.io/docs/installation")
	require.NoError(t, err)
	require.NotEmpty(t, result.HTML, "expected non-empty HTML response")

	// Verify HTML document structure
	lower := strings.ToLower(strings.TrimSpace(result.HTML))
	assert.True(t, strings.HasPrefix(lower, "<!doctype html>") || strings.HasPrefix(lower, "<html"),
		"expected valid HTML document start")
	assert.Contains(t, result.HTML, "</body>", "expected closing body tag")

	parser := goquery.DefaultParsers().Select(result.HTML)
	require.NotNil(t, parser)
	assert.Equal(t, "docusaurus", parser.Name())

	page, err := parser.Parse(result.HTML)
	require.NoError(t, err)
	assert.NotEmpty(t, page.Symbols, "expected guide and section symbols")

	t.Logf("Fetched %d bytes, %d symbols from %s", len(result.HTML), len(page.Symbols), result.URL)
}

func TestFetcher_Integration_Rustdoc(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)
	defer fetcher.Close()

	result, err := fetcher.Fetch(ctx, "https://docs.rs/reqwest/latest/reqwest/struct.Client.html")
	require.NoError(t, err)

	parser := goquery.DefaultParsers().Select(result.HTML)
	require.NotNil(t, parser)
	assert.Equal(t, "rustdoc", parser.Name())

	page, err := parser.Parse(result.HTML)
	require.NoError(t, err)
	require.NotEmpty(t, page.Symbols)
	assert.Contains(t, page.Symbols[0].Name, "Client")
}
