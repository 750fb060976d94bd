package search

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	fetchTimeout    = 8 * time.Second
	maxBodyBytes    = 5 * 1024 * 1024
	maxContentChars = 5000
)

var (
	tagRE       = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	htmlTagRE   = regexp.MustCompile(`(?s)<[^>]+>`)
	blankRunsRE = regexp.MustCompile(`\n{3,}`)
)

// fetcher fetches a single URL, strips markup, and collapses whitespace. It
// is shared by every Port implementation in this package.
type fetcher struct {
	client        *http.Client
	skipSSRFCheck bool
}

func newFetcher() *fetcher {
	return &fetcher{client: &http.Client{Timeout: fetchTimeout}}
}

// newFetcherForTesting returns a fetcher that skips SSRF validation, so
// tests can point it at an httptest server on 127.0.0.1.
func newFetcherForTesting() *fetcher {
	return &fetcher{client: &http.Client{Timeout: fetchTimeout}, skipSSRFCheck: true}
}

func (f *fetcher) fetch(ctx context.Context, rawURL string) (string, error) {
	if !f.skipSSRFCheck {
		if err := validateURLForSSRF(rawURL); err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; AssistantBot/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &httpStatusError{status: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "text/plain") {
		return "", &unsupportedContentTypeError{contentType: contentType}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}

	return cleanContent(string(body)), nil
}

// cleanContent strips tags, trims each line, drops empty lines, collapses
// runs of blank lines, and truncates to maxContentChars.
func cleanContent(raw string) string {
	stripped := tagRE.ReplaceAllString(raw, "")
	stripped = htmlTagRE.ReplaceAllString(stripped, "\n")

	lines := strings.Split(stripped, "\n")
	var kept []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		kept = append(kept, trimmed)
	}
	content := blankRunsRE.ReplaceAllString(strings.Join(kept, "\n"), "\n\n")

	if runes := []rune(content); len(runes) > maxContentChars {
		content = string(runes[:maxContentChars]) + "..."
	}
	return content
}

type httpStatusError struct{ status int }

func (e *httpStatusError) Error() string {
	return "unexpected HTTP status " + http.StatusText(e.status)
}

type unsupportedContentTypeError struct{ contentType string }

func (e *unsupportedContentTypeError) Error() string {
	return "unsupported content type: " + e.contentType
}
