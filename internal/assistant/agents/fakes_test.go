package agents

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
	"github.com/haasonsaas/nexus/internal/assistant/llm"
)

// fakeProvider is a scripted llm.Provider double: each call consumes the
// next entry from the matching queue.
type fakeProvider struct {
	generateResponses   []string
	structuredResponses []any

	generateCalls   int
	structuredCalls int
}

func (f *fakeProvider) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	f.generateCalls++
	if len(f.generateResponses) == 0 {
		return "", errors.New("fakeProvider: no scripted Generate response left")
	}
	resp := f.generateResponses[0]
	f.generateResponses = f.generateResponses[1:]
	return resp, nil
}

func (f *fakeProvider) GenerateStructured(ctx context.Context, messages []llm.Message, schema *llm.Schema, out any) error {
	f.structuredCalls++
	if len(f.structuredResponses) == 0 {
		return errors.New("fakeProvider: no scripted GenerateStructured response left")
	}
	next := f.structuredResponses[0]
	f.structuredResponses = f.structuredResponses[1:]

	raw, err := json.Marshal(next)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

var _ llm.Provider = (*fakeProvider)(nil)

// fakeSearchPort is a scripted search.Port double returning one fixed set of
// results for any query.
type fakeSearchPort struct {
	results []domain.SearchResult
	err     error

	queries []string
}

func (f *fakeSearchPort) Search(ctx context.Context, query string, numResults int) ([]domain.SearchResult, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}
