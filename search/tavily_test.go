package search

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripFunc serves Tavily responses in-process; the endpoint is fixed,
// so tests swap the transport instead of the URL.
type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func tavilyClient(t *testing.T, status int, body string, captured *tavilyRequest) *http.Client {
	t.Helper()
	return &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, tavilyEndpoint, req.URL.String())
		if captured != nil {
			require.NoError(t, json.NewDecoder(req.Body).Decode(captured))
		}
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewReader([]byte(body))),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
		}, nil
	})}
}

func TestTavilySearch(t *testing.T) {
	body := `{"results":[
		{"title":"Acme Inc","url":"https://acme.example","content":"Makers of everything"},
		{"title":"Acme News","url":"https://news.example","content":"Latest on Acme"}
	]}`

	var got tavilyRequest
	tv := NewTavily("key-123", "advanced",
		TavilyWithMaxResults(5),
		TavilyWithClient(tavilyClient(t, http.StatusOK, body, &got)))

	results, err := tv.Search(context.Background(), "Acme history")
	require.NoError(t, err)

	assert.Equal(t, "Acme history", got.Query)
	assert.Equal(t, "key-123", got.APIKey)
	assert.Equal(t, "advanced", got.SearchDepth)
	assert.Equal(t, 5, got.MaxResults)

	require.Len(t, results, 2)
	assert.Equal(t, "Acme Inc", results[0].Title)
	assert.Equal(t, "https://acme.example", results[0].URL)
	assert.Equal(t, "Makers of everything", results[0].Snippet)
}

func TestTavilyPrefersRawContentWhenEnabled(t *testing.T) {
	body := `{"results":[{"title":"Acme","url":"https://acme.example","content":"short","raw_content":"the full page text"}]}`

	tv := NewTavily("key-123", "",
		TavilyWithRawContent(),
		TavilyWithClient(tavilyClient(t, http.StatusOK, body, nil)))

	results, err := tv.Search(context.Background(), "Acme")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "the full page text", results[0].Snippet)
}

func TestTavilyCapsResults(t *testing.T) {
	body := `{"results":[
		{"title":"a","url":"https://a.example","content":"1"},
		{"title":"b","url":"https://b.example","content":"2"},
		{"title":"c","url":"https://c.example","content":"3"}
	]}`

	tv := NewTavily("key-123", "",
		TavilyWithMaxResults(2),
		TavilyWithClient(tavilyClient(t, http.StatusOK, body, nil)))

	results, err := tv.Search(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestTavilyRequiresAPIKey(t *testing.T) {
	tv := NewTavily("", "basic")
	_, err := tv.Search(context.Background(), "Acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestTavilyRejectsEmptyQuery(t *testing.T) {
	tv := NewTavily("key-123", "basic")
	_, err := tv.Search(context.Background(), "   ")
	require.Error(t, err)
}

func TestTavilyReportsHTTPError(t *testing.T) {
	tv := NewTavily("key-123", "",
		TavilyWithClient(tavilyClient(t, http.StatusInternalServerError, "", nil)))

	_, err := tv.Search(context.Background(), "Acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tavily http 500")
}

func TestTavilyDefaultDepthIsBasic(t *testing.T) {
	var got tavilyRequest
	tv := NewTavily("key-123", "",
		TavilyWithClient(tavilyClient(t, http.StatusOK, `{"results":[]}`, &got)))

	_, err := tv.Search(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "basic", got.SearchDepth)
}
