package insight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// maxResultsPerQuery is the Custom Search API page size limit.
const maxResultsPerQuery = 10

// GoogleSearcher implements Searcher with the Google Programmable Search API.
type GoogleSearcher struct {
	svc     *customsearch.Service
	cx      string
	timeout time.Duration
}

// NewGoogleSearcher creates a searcher for engine cx. Extra client options are appended
// after the API key (tests point the endpoint at a local server).
func NewGoogleSearcher(ctx context.Context, apiKey, cx string, timeout time.Duration, opts ...option.ClientOption) (*GoogleSearcher, error) {
	if apiKey == "" || cx == "" {
		return nil, fmt.Errorf("search API key and engine id are required")
	}

	svc, err := customsearch.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &GoogleSearcher{
		svc:     svc,
		cx:      cx,
		timeout: timeout,
	}, nil
}

// Search runs one query bounded by the searcher's timeout.
func (s *GoogleSearcher) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	limit = min(maxResultsPerQuery, max(1, limit))
	resp, err := s.svc.Cse.List().Cx(s.cx).Q(query).Num(int64(limit)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("search %q failed: %w", query, err)
	}

	results := make([]SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		snippet := item.Snippet
		if item.HtmlSnippet != "" {
			if text, err := htmlToText(item.HtmlSnippet); err == nil && text != "" {
				snippet = text
			}
		}
		results = append(results, SearchResult{
			Title:   strings.TrimSpace(item.Title),
			URL:     item.Link,
			Snippet: strings.Join(strings.Fields(snippet), " "),
		})
	}
	return results, nil
}

// htmlToText strips markup from a search snippet.
func htmlToText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}
