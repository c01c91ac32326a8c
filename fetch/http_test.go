package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchStripsMarkup(t *testing.T) {
	page := `<html><head>
<style>body { color: red; }</style>
<script>alert("hi");</script>
</head><body>
<nav><a href="/">Home</a></nav>
<h1>Acme Incorporated</h1>
<p>Founded in 1985, Acme makes <b>everything</b>.</p>
<footer>Copyright Acme</footer>
</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	f := NewHTTP()
	text, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "Acme Incorporated")
	assert.Contains(t, text, "Founded in 1985, Acme makes everything")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "Home")
	assert.NotContains(t, text, "Copyright")
}

func TestFetchTruncatesLargePages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<p>" + strings.Repeat("Acme history. ", 10000) + "</p>"))
	}))
	defer srv.Close()

	f := NewHTTP()
	text, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(text), maxPageBytes+len("\n[TRUNCATED]"))
	assert.True(t, strings.HasSuffix(text, "[TRUNCATED]"))
}

func TestFetchTruncatesOnRuneBoundary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<p>" + strings.Repeat("日本語のテキスト ", 3000) + "</p>"))
	}))
	defer srv.Close()

	f := NewHTTP()
	text, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(text))
	assert.True(t, strings.HasSuffix(text, "[TRUNCATED]"))
}

func TestFetchReportsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewHTTP()
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch http 404")
}

func TestFetchRejectsEmptyURL(t *testing.T) {
	f := NewHTTP()
	_, err := f.Fetch(context.Background(), "   ")
	require.Error(t, err)
}

func TestPageTextCollapsesWhitespace(t *testing.T) {
	got := pageText("<p>one   two</p>\n\n\n\n<p>three &amp; four</p>")
	assert.Equal(t, "one two\nthree & four", got)
}
