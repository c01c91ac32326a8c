// Package search provides search backends for the companyscout research
// tools.
//
// Available providers:
//
//   - Tavily: requires an API key, supports basic/advanced depth and
//     optional raw page content
//   - DuckDuckGo: free, no API key required (scrapes lite.duckduckgo.com)
//
// # Tavily Example
//
//	provider := search.NewTavily("your-api-key", "advanced")
//	results, err := provider.Search(ctx, "Acme Corp funding history")
//
// # DuckDuckGo Example
//
//	provider := search.NewDuckDuckGo()
//	results, err := provider.Search(ctx, "Acme Corp employee reviews")
//
// # Custom Providers
//
// Implement the companyscout.SearchProvider interface to add your own
// backend:
//
//	type SearchProvider interface {
//	    Search(ctx context.Context, query string) ([]companyscout.SearchResult, error)
//	}
package search
