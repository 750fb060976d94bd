// Package repository persists ChatSessions and Feedback: a postgres-backed
// implementation of each repository plus an in-memory variant for tests and
// for the use-case layer's own unit tests.
package repository

import "fmt"

// RepositorySaveError wraps the underlying cause of a failed repository save.
type RepositorySaveError struct {
	Entity string
	Cause  error
}

func (e *RepositorySaveError) Error() string {
	return fmt.Sprintf("repository: failed to save %s: %s", e.Entity, e.Cause)
}

func (e *RepositorySaveError) Unwrap() error { return e.Cause }

// RepositoryFetchError wraps the underlying cause of a failed repository read.
type RepositoryFetchError struct {
	Entity string
	Cause  error
}

func (e *RepositoryFetchError) Error() string {
	return fmt.Sprintf("repository: failed to fetch %s: %s", e.Entity, e.Cause)
}

func (e *RepositoryFetchError) Unwrap() error { return e.Cause }
