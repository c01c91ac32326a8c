package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jobseekr/companyscout"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// Tavily calls the Tavily search API.
type Tavily struct {
	apiKey     string
	depth      string // basic or advanced
	maxResults int
	rawContent bool
	client     *http.Client
}

// TavilyOption configures a Tavily provider.
type TavilyOption func(*Tavily)

// TavilyWithMaxResults caps how many results one query returns.
func TavilyWithMaxResults(n int) TavilyOption {
	return func(t *Tavily) {
		if n > 0 {
			t.maxResults = n
		}
	}
}

// TavilyWithRawContent asks Tavily to include full page content, for callers
// that summarize pages themselves.
func TavilyWithRawContent() TavilyOption {
	return func(t *Tavily) { t.rawContent = true }
}

// TavilyWithClient overrides the HTTP client, e.g. to change the timeout.
func TavilyWithClient(client *http.Client) TavilyOption {
	return func(t *Tavily) {
		if client != nil {
			t.client = client
		}
	}
}

// NewTavily constructs a Tavily search provider. Depth is "basic" or
// "advanced"; empty defaults to basic.
func NewTavily(apiKey, depth string, opts ...TavilyOption) *Tavily {
	if depth == "" {
		depth = "basic"
	}
	t := &Tavily{
		apiKey:     apiKey,
		depth:      depth,
		maxResults: 5,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type tavilyRequest struct {
	Query             string `json:"query"`
	APIKey            string `json:"api_key"`
	SearchDepth       string `json:"search_depth"`
	MaxResults        int    `json:"max_results"`
	IncludeRawContent bool   `json:"include_raw_content,omitempty"`
}

type tavilyResponse struct {
	Results []struct {
		Title      string `json:"title"`
		URL        string `json:"url"`
		Content    string `json:"content"`
		RawContent string `json:"raw_content"`
	} `json:"results"`
}

// Search posts a query to Tavily.
func (t *Tavily) Search(ctx context.Context, query string) ([]companyscout.SearchResult, error) {
	if strings.TrimSpace(t.apiKey) == "" {
		return nil, errors.New("tavily: API key is missing")
	}
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("tavily: query is empty")
	}

	payload, err := json.Marshal(tavilyRequest{
		Query:             query,
		APIKey:            t.apiKey,
		SearchDepth:       t.depth,
		MaxResults:        t.maxResults,
		IncludeRawContent: t.rawContent,
	})
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	delay := 1 * time.Second
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyEndpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = t.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()

		// Back off and retry on 429, doubling the delay each time up to 30 s.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily http %d", resp.StatusCode)
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	results := make([]companyscout.SearchResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		snippet := r.Content
		if t.rawContent && r.RawContent != "" {
			snippet = r.RawContent
		}
		results = append(results, companyscout.SearchResult{Title: r.Title, URL: r.URL, Snippet: snippet})
		if len(results) >= t.maxResults {
			break
		}
	}
	return results, nil
}
