package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jobseekr/companyscout"
)

const ddgEndpoint = "https://lite.duckduckgo.com/lite/"
const ddgUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ddgThrottle enforces one query per second across all DuckDuckGo instances
// and goroutines, since the three research branches may search concurrently.
var ddgThrottle struct {
	mu   sync.Mutex
	last time.Time
}

var (
	ddgResultLink = regexp.MustCompile(`<a[^>]*class=['"]result-link['"][^>]*href=['"]([^'"]+)['"][^>]*>([^<]+)</a>`)
	ddgHrefFirst  = regexp.MustCompile(`<a[^>]*href=['"]([^'"]+)['"][^>]*class=['"]result-link['"][^>]*>([^<]+)</a>`)
	ddgSnippet    = regexp.MustCompile(`<td[^>]*class=['"]result-snippet['"][^>]*>([^<]+(?:<[^>]+>[^<]*</[^>]+>)*[^<]*)</td>`)
	ddgAnyLink    = regexp.MustCompile(`<a[^>]+href=['"]([^'"]+)['"][^>]*>([^<]+)</a>`)
	htmlTag       = regexp.MustCompile(`<[^>]+>`)
)

// DuckDuckGo is a keyless search provider scraping DuckDuckGo's lite HTML
// interface. Useful as a fallback when no Tavily key is configured.
type DuckDuckGo struct {
	client     *http.Client
	maxResults int
}

// NewDuckDuckGo creates a DuckDuckGo provider with a modest timeout.
func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{client: &http.Client{Timeout: 15 * time.Second}, maxResults: 5}
}

// NewDuckDuckGoWithClient creates a DuckDuckGo provider using the supplied
// HTTP client.
func NewDuckDuckGoWithClient(client *http.Client) *DuckDuckGo {
	return &DuckDuckGo{client: client, maxResults: 5}
}

// Search scrapes the lite HTML page for results.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]companyscout.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("duckduckgo: query is empty")
	}

	if err := d.throttle(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("q", query)

	var resp *http.Response
	delay := 1 * time.Second
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ddgEndpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", ddgUserAgent)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err = d.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()

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
		return nil, fmt.Errorf("duckduckgo http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return d.parse(string(body)), nil
}

func (d *DuckDuckGo) throttle(ctx context.Context) error {
	ddgThrottle.mu.Lock()
	if wait := time.Until(ddgThrottle.last.Add(time.Second)); wait > 0 {
		ddgThrottle.mu.Unlock()
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		ddgThrottle.mu.Lock()
	}
	ddgThrottle.last = time.Now()
	ddgThrottle.mu.Unlock()
	return nil
}

// parse extracts results from the lite HTML. The page pairs result links
// with snippet cells; when that structure is missing it falls back to
// harvesting external links.
func (d *DuckDuckGo) parse(html string) []companyscout.SearchResult {
	matches := ddgResultLink.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		matches = ddgHrefFirst.FindAllStringSubmatch(html, -1)
	}
	snippets := ddgSnippet.FindAllStringSubmatch(html, -1)

	var results []companyscout.SearchResult
	for i, m := range matches {
		if len(m) < 3 {
			continue
		}
		link := strings.TrimSpace(m[1])
		title := stripHTML(m[2])
		if link == "" || title == "" {
			continue
		}
		snippet := ""
		if i < len(snippets) && len(snippets[i]) > 1 {
			snippet = stripHTML(snippets[i][1])
		}
		results = append(results, companyscout.SearchResult{Title: title, URL: link, Snippet: snippet})
		if len(results) >= d.maxResults {
			return results
		}
	}
	if len(results) > 0 {
		return results
	}

	// Fallback: any external link with a plausible title.
	seen := make(map[string]bool)
	for _, m := range ddgAnyLink.FindAllStringSubmatch(html, -1) {
		if len(m) < 3 {
			continue
		}
		link := strings.TrimSpace(m[1])
		title := stripHTML(m[2])
		if strings.Contains(link, "duckduckgo.com") ||
			strings.HasPrefix(link, "/") ||
			strings.HasPrefix(link, "#") ||
			strings.HasPrefix(link, "javascript:") ||
			len(title) < 5 ||
			seen[link] {
			continue
		}
		seen[link] = true
		results = append(results, companyscout.SearchResult{Title: title, URL: link})
		if len(results) >= d.maxResults {
			break
		}
	}
	return results
}

// stripHTML removes tags and decodes the entities the lite page emits.
func stripHTML(s string) string {
	s = htmlTag.ReplaceAllString(s, "")
	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	return strings.TrimSpace(replacer.Replace(s))
}
