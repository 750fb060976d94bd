package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearXNGPortSearchFetchesAndCleansResults(t *testing.T) {
	pageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<p>Full page content.</p>"))
	}))
	defer pageSrv.Close()

	searxSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := searxngResponse{}
		resp.Results = append(resp.Results, struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		}{Title: "Example", URL: pageSrv.URL, Content: "snippet"})
		json.NewEncoder(w).Encode(resp)
	}))
	defer searxSrv.Close()

	port, err := NewSearXNGPortForTesting(Config{BaseURL: searxSrv.URL})
	if err != nil {
		t.Fatalf("NewSearXNGPortForTesting: %v", err)
	}

	results, err := port.Search(context.Background(), "golang concurrency", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Title != "Example" || results[0].URL != pageSrv.URL {
		t.Fatalf("results[0] = %+v", results[0])
	}
	if results[0].Content != "Full page content." {
		t.Fatalf("results[0].Content = %q, want fetched page content", results[0].Content)
	}
}

func TestSearXNGPortSearchFallsBackToSnippetOnFetchFailure(t *testing.T) {
	searxSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := searxngResponse{}
		resp.Results = append(resp.Results, struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		}{Title: "Unreachable", URL: "http://127.0.0.1:1/does-not-exist", Content: "fallback snippet"})
		json.NewEncoder(w).Encode(resp)
	}))
	defer searxSrv.Close()

	port, err := NewSearXNGPortForTesting(Config{BaseURL: searxSrv.URL})
	if err != nil {
		t.Fatalf("NewSearXNGPortForTesting: %v", err)
	}

	results, err := port.Search(context.Background(), "anything", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Content != "fallback snippet" {
		t.Fatalf("results = %+v, want fallback to snippet content", results)
	}
}

func TestNewSearXNGPortRequiresBaseURL(t *testing.T) {
	if _, err := NewSearXNGPort(Config{}); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}
