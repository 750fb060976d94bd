// Package search defines the capability the web-search task agent depends
// on to resolve a query into a small set of fetched, cleaned pages, plus the
// concrete SearXNG-backed implementation that satisfies it.
package search

import (
	"context"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
)

// Port is the capability the domain services use to turn a query into
// fetched page content. Implementations must be safe for concurrent use.
type Port interface {
	// Search issues query against the backend, fetches and cleans the top
	// numResults result pages, and returns them. An empty, non-nil slice is
	// a valid ("no results") outcome; it is not an error.
	Search(ctx context.Context, query string, numResults int) ([]domain.SearchResult, error)
}
