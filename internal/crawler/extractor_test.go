package crawler

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestExtractLinks_SourceOrder(t *testing.T) {
	html := `<html><body>
		<a href="/third-in-dom">c</a>
		<a href="/first">a</a>
		<a href="/second">b</a>
	</body></html>`

	le := NewLinkExtractor()
	links, _, err := le.ExtractLinks([]byte(html), mustParseURL(t, "http://site.test/"))
	require.NoError(t, err)
	assert.Equal(t, []string{"/third-in-dom", "/first", "/second"}, links,
		"links come back in document order, not sorted")
}

func TestExtractLinks_AnchorsAndAreasOnly(t *testing.T) {
	html := `<html><head>
		<link rel="stylesheet" href="/style.css">
		<script src="/app.js"></script>
	</head><body>
		<a href="/page">page</a>
		<img src="/logo.png">
		<map><area href="/mapped" shape="rect"></map>
		<iframe src="/frame"></iframe>
	</body></html>`

	le := NewLinkExtractor()
	links, _, err := le.ExtractLinks([]byte(html), mustParseURL(t, "http://site.test/"))
	require.NoError(t, err)
	assert.Equal(t, []string{"/page", "/mapped"}, links,
		"assets, scripts, and frames are not navigation targets")
}

func TestExtractLinks_PreservesDuplicatesAndSchemes(t *testing.T) {
	html := `<html><body>
		<a href="/page">one</a>
		<a href="/page">two</a>
		<a href="mailto:team@site.test">mail</a>
		<a href="javascript:void(0)">js</a>
		<a href="https://other.test/x">cross</a>
	</body></html>`

	le := NewLinkExtractor()
	links, _, err := le.ExtractLinks([]byte(html), mustParseURL(t, "http://site.test/"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/page",
		"/page",
		"mailto:team@site.test",
		"javascript:void(0)",
		"https://other.test/x",
	}, links, "extraction is raw; dedup and scheme filtering happen downstream")
}

func TestExtractLinks_SkipsEmptyHrefs(t *testing.T) {
	html := `<html><body>
		<a href="">empty</a>
		<a href="   ">blank</a>
		<a>no href</a>
		<a href="/real">real</a>
	</body></html>`

	le := NewLinkExtractor()
	links, _, err := le.ExtractLinks([]byte(html), mustParseURL(t, "http://site.test/"))
	require.NoError(t, err)
	assert.Equal(t, []string{"/real"}, links)
}

func TestExtractLinks_BaseTag(t *testing.T) {
	t.Run("base href overrides page URL", func(t *testing.T) {
		html := `<html><head><base href="http://cdn.test/assets/"></head>
			<body><a href="page.html">p</a></body></html>`

		le := NewLinkExtractor()
		links, base, err := le.ExtractLinks([]byte(html), mustParseURL(t, "http://site.test/docs/"))
		require.NoError(t, err)
		assert.Equal(t, []string{"page.html"}, links)
		assert.Equal(t, "http://cdn.test/assets/", base.String())
	})

	t.Run("relative base resolves against page URL", func(t *testing.T) {
		html := `<html><head><base href="/nested/"></head>
			<body><a href="page.html">p</a></body></html>`

		le := NewLinkExtractor()
		_, base, err := le.ExtractLinks([]byte(html), mustParseURL(t, "http://site.test/docs/index.html"))
		require.NoError(t, err)
		assert.Equal(t, "http://site.test/nested/", base.String())
	})

	t.Run("first base wins", func(t *testing.T) {
		html := `<html><head>
			<base href="http://first.test/">
			<base href="http://second.test/">
		</head><body><a href="x">x</a></body></html>`

		le := NewLinkExtractor()
		_, base, err := le.ExtractLinks([]byte(html), mustParseURL(t, "http://site.test/"))
		require.NoError(t, err)
		assert.Equal(t, "http://first.test/", base.String())
	})

	t.Run("no base keeps page URL", func(t *testing.T) {
		le := NewLinkExtractor()
		pageURL := mustParseURL(t, "http://site.test/docs/")
		_, base, err := le.ExtractLinks([]byte(`<a href="x">x</a>`), pageURL)
		require.NoError(t, err)
		assert.Same(t, pageURL, base)
	})
}

func TestExtractLinks_MalformedHTML(t *testing.T) {
	// html.Parse repairs broken markup rather than failing; links inside
	// unclosed elements still come out.
	html := `<html><body><div><a href="/a">a<a href="/b">b</div>`

	le := NewLinkExtractor()
	links, _, err := le.ExtractLinks([]byte(html), mustParseURL(t, "http://site.test/"))
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, links)
}
