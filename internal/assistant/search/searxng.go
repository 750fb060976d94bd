package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
)

const (
	backendName      = "searxng"
	defaultFetchConc = 3
	queryTimeout     = 10 * time.Second
)

// Config configures a SearXNGPort.
type Config struct {
	// BaseURL is the root of a SearXNG instance, e.g. "https://searx.example.org".
	BaseURL string
}

// SearXNGPort implements Port against a SearXNG metasearch instance: it
// issues the query, then concurrently fetches and cleans each result page.
type SearXNGPort struct {
	baseURL     string
	queryClient *http.Client
	fetcher     *fetcher
}

// NewSearXNGPort builds a Port backed by a SearXNG instance.
func NewSearXNGPort(cfg Config) (*SearXNGPort, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("search: SearXNG base URL is required")
	}
	return &SearXNGPort{
		baseURL:     cfg.BaseURL,
		queryClient: &http.Client{Timeout: queryTimeout},
		fetcher:     newFetcher(),
	}, nil
}

// NewSearXNGPortForTesting builds a Port whose page fetches skip SSRF
// validation, so tests can point it at an httptest server.
func NewSearXNGPortForTesting(cfg Config) (*SearXNGPort, error) {
	p, err := NewSearXNGPort(cfg)
	if err != nil {
		return nil, err
	}
	p.fetcher = newFetcherForTesting()
	return p, nil
}

type searxngResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search implements Port.
func (p *SearXNGPort) Search(ctx context.Context, query string, numResults int) ([]domain.SearchResult, error) {
	raw, err := p.query(ctx, query)
	if err != nil {
		return nil, &Error{Backend: backendName, Query: query, Cause: err}
	}

	var parsed searxngResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &Error{Backend: backendName, Query: query, Cause: err}
	}

	n := len(parsed.Results)
	if numResults > 0 && n > numResults {
		n = numResults
	}

	results := make([]domain.SearchResult, n)
	var wg sync.WaitGroup
	sem := make(chan struct{}, defaultFetchConc)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			r := parsed.Results[i]
			content, err := p.fetcher.fetch(ctx, r.URL)
			if err != nil {
				content = r.Content
			}
			results[i] = domain.SearchResult{URL: r.URL, Title: r.Title, Content: content}
		}(i)
	}
	wg.Wait()

	return results, nil
}

func (p *SearXNGPort) query(ctx context.Context, query string) ([]byte, error) {
	searchURL, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid SearXNG base URL: %w", err)
	}
	searchURL.Path = "/search"

	values := url.Values{}
	values.Set("q", query)
	values.Set("format", "json")
	values.Set("pageno", "1")
	values.Set("categories", "general")
	searchURL.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.queryClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &httpStatusError{status: resp.StatusCode}
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}
