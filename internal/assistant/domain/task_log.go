package domain

import "strings"

// AgentName identifies which task agent owns a Task.
type AgentName string

const (
	AgentWebSearch    AgentName = "web_search"
	AgentGeneralAnswer AgentName = "general_answer"
)

// ParseAgentName validates a raw agent label against the closed set,
// returning ErrUnknownAgent for anything else.
func ParseAgentName(raw string) (AgentName, error) {
	switch AgentName(raw) {
	case AgentWebSearch:
		return AgentWebSearch, nil
	case AgentGeneralAnswer:
		return AgentGeneralAnswer, nil
	default:
		return "", ErrUnknownAgent
	}
}

// SearchResult is one fetched/cleaned page returned by the search port.
type SearchResult struct {
	URL     string
	Title   string
	Content string
}

// SearchAttempt is one invocation of the web-search task's underlying
// search operation: the query issued and the results it returned.
type SearchAttempt struct {
	Query   string
	Results []SearchResult
}

// GenerationAttempt is one invocation of the general-answer task's
// underlying generation operation.
type GenerationAttempt struct {
	Response string
}

// TaskLog is the kind-specific trace of attempts made while executing a
// Task. It is a tagged variant: exactly one of WebSearch/GeneralAnswer is
// populated, matching the owning Task's AgentName.
type TaskLog struct {
	Kind         AgentName
	WebSearch    *WebSearchTaskLog
	GeneralAnswer *GeneralAnswerTaskLog
}

// WebSearchTaskLog is the ordered sequence of SearchAttempts made by a
// web-search Task.
type WebSearchTaskLog struct {
	Attempts []SearchAttempt
}

// GeneralAnswerTaskLog is the ordered sequence of GenerationAttempts made
// by a general-answer Task.
type GeneralAnswerTaskLog struct {
	Attempts []GenerationAttempt
}

// NewWebSearchTaskLog creates an empty web-search task log.
func NewWebSearchTaskLog() *TaskLog {
	return &TaskLog{Kind: AgentWebSearch, WebSearch: &WebSearchTaskLog{}}
}

// NewGeneralAnswerTaskLog creates an empty general-answer task log.
func NewGeneralAnswerTaskLog() *TaskLog {
	return &TaskLog{Kind: AgentGeneralAnswer, GeneralAnswer: &GeneralAnswerTaskLog{}}
}

// AddSearchAttempt appends a SearchAttempt. It rejects an empty or
// whitespace-only query and a nil results slice; an empty (non-nil) results
// slice is a valid attempt.
func (l *TaskLog) AddSearchAttempt(query string, results []SearchResult) error {
	if l.Kind != AgentWebSearch {
		return &TaskLogKindMismatchError{Want: l.Kind, Got: AgentWebSearch}
	}
	if strings.TrimSpace(query) == "" {
		return ErrEmptySearchQuery
	}
	if results == nil {
		return ErrInvalidSearchResults
	}
	l.WebSearch.Attempts = append(l.WebSearch.Attempts, SearchAttempt{Query: query, Results: results})
	return nil
}

// AddGenerationAttempt appends a GenerationAttempt, rejecting an empty or
// whitespace-only response.
func (l *TaskLog) AddGenerationAttempt(response string) error {
	if l.Kind != AgentGeneralAnswer {
		return &TaskLogKindMismatchError{Want: l.Kind, Got: AgentGeneralAnswer}
	}
	if strings.TrimSpace(response) == "" {
		return ErrEmptyResponse
	}
	l.GeneralAnswer.Attempts = append(l.GeneralAnswer.Attempts, GenerationAttempt{Response: response})
	return nil
}

// AllSearchResults flattens every SearchResult across every SearchAttempt
// recorded so far, in attempt order.
func (l *TaskLog) AllSearchResults() []SearchResult {
	if l.Kind != AgentWebSearch || l.WebSearch == nil {
		return nil
	}
	var out []SearchResult
	for _, a := range l.WebSearch.Attempts {
		out = append(out, a.Results...)
	}
	return out
}

// UsedQueries returns every query issued so far, in attempt order.
func (l *TaskLog) UsedQueries() []string {
	if l.Kind != AgentWebSearch || l.WebSearch == nil {
		return nil
	}
	out := make([]string, 0, len(l.WebSearch.Attempts))
	for _, a := range l.WebSearch.Attempts {
		out = append(out, a.Query)
	}
	return out
}
