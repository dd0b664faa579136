package goquery_test

import (
	"testing"

	"github.com/fwojciec/zealgen"
	"github.com/fwojciec/zealgen/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rustdocPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta name="generator" content="rustdoc">
<title>Client in reqwest - Rust</title>
</head>
<body class="rustdoc struct">
<main>
<div class="main-heading">
<h1>Struct <a href="index.html">reqwest</a>::<wbr><a class="struct" href="#">Client</a><button id="copy-path" title="Copy item path to clipboard">Copy item path</button></h1>
</div>
<details class="toggle"><summary><section id="method.new" class="method"><h4 class="code-header">pub fn <a href="#method.new" class="fn">new</a>() -&gt; Client</h4></section></summary></details>
<section id="method.get" class="method"><h4 class="code-header">pub fn get()</h4></section>
<section id="structfield.timeout" class="structfield"></section>
<section id="associatedtype.Output"></section>
<section id="impl-Clone-for-Client"></section>
</main>
</body>
</html>`

func TestRustdocParser_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "rustdoc", goquery.NewRustdocParser().Name())
}

func TestRustdocParser_Matches(t *testing.T) {
	t.Parallel()

	p := goquery.NewRustdocParser()

	assert.True(t, p.Matches(rustdocPage))
	assert.True(t, p.Matches(`<html><body class="rustdoc mod crate"></body></html>`))
	assert.True(t, p.Matches(`<html><body><div id="rustdoc-vars"></div></body></html>`))
	assert.False(t, p.Matches(`<html><body class="struct"></body></html>`))
	assert.False(t, p.Matches(sphinxPage))
}

func TestRustdocParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("extracts item and members", func(t *testing.T) {
		t.Parallel()

		page, err := goquery.NewRustdocParser().Parse(rustdocPage)
		require.NoError(t, err)

		assert.Equal(t, rustdocPage, page.Content)
		assert.Equal(t, []zealgen.Symbol{
			{Name: "reqwest::Client", Kind: zealgen.KindStruct},
			{Name: "reqwest::Client::new", Kind: zealgen.KindMethod, Anchor: "method.new"},
			{Name: "reqwest::Client::get", Kind: zealgen.KindMethod, Anchor: "method.get"},
			{Name: "reqwest::Client::timeout", Kind: zealgen.KindField, Anchor: "structfield.timeout"},
			{Name: "reqwest::Client::Output", Kind: zealgen.KindType, Anchor: "associatedtype.Output"},
		}, page.Symbols)
	})

	t.Run("crate page is a module", func(t *testing.T) {
		t.Parallel()

		page, err := goquery.NewRustdocParser().Parse(`<html><body class="rustdoc mod crate"><h1>Crate <a class="mod" href="#">reqwest</a></h1></body></html>`)
		require.NoError(t, err)

		assert.Equal(t, []zealgen.Symbol{{Name: "reqwest", Kind: zealgen.KindModule}}, page.Symbols)
	})
}
