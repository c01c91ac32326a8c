// Package fetch retrieves webpage text for search results whose snippets
// are empty. Fetched pages are stripped of markup and truncated before
// being handed to a model for summarization.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Pages are truncated to keep observations within model context limits.
const maxPageBytes = 32 * 1024

const fetchUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// HTTPFetcher retrieves raw text from a URL.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTP creates an HTTP fetcher with a modest timeout.
func NewHTTP() *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: 15 * time.Second}}
}

// NewHTTPWithClient creates an HTTP fetcher using the supplied client.
func NewHTTPWithClient(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

// Fetch downloads the URL content, strips HTML to plain text, and truncates.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return "", errors.New("fetch url is empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trimmed, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*maxPageBytes))
	if err != nil {
		return "", err
	}

	text := pageText(string(body))
	if len(text) > maxPageBytes {
		// Cut on a rune boundary so the truncated text stays valid UTF-8.
		cut := maxPageBytes
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "\n[TRUNCATED]"
	}
	return text, nil
}

var (
	reScript     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	reStyle      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	reChrome     = regexp.MustCompile(`(?is)<(nav|header|footer)[^>]*>.*?</(nav|header|footer)>`)
	reTags       = regexp.MustCompile(`<[^>]+>`)
	reWhitespace = regexp.MustCompile(`[ \t]+`)
	reBlankLines = regexp.MustCompile(`\n{3,}`)
)

// pageText removes scripts, styles, and page chrome, then all tags, and
// collapses whitespace.
func pageText(html string) string {
	s := reScript.ReplaceAllString(html, "")
	s = reStyle.ReplaceAllString(s, "")
	s = reChrome.ReplaceAllString(s, "")
	s = reTags.ReplaceAllString(s, " ")

	s = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	).Replace(s)

	s = reWhitespace.ReplaceAllString(s, " ")
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	s = strings.Join(lines, "\n")
	s = reBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
