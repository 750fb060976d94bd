package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/haasonsaas/nexus/internal/assistant/llm"
)

// fakeProvider is a scripted llm.Provider double: each call consumes the
// next entry from the matching queue.
type fakeProvider struct {
	generateResponses   []string
	generateErr         error
	structuredResponses []any
	structuredErr       error

	generateCalls   [][]llm.Message
	structuredCalls [][]llm.Message
}

func (f *fakeProvider) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	f.generateCalls = append(f.generateCalls, messages)
	if f.generateErr != nil {
		return "", f.generateErr
	}
	if len(f.generateResponses) == 0 {
		return "", errors.New("fakeProvider: no scripted Generate response left")
	}
	resp := f.generateResponses[0]
	f.generateResponses = f.generateResponses[1:]
	return resp, nil
}

func (f *fakeProvider) GenerateStructured(ctx context.Context, messages []llm.Message, schema *llm.Schema, out any) error {
	f.structuredCalls = append(f.structuredCalls, messages)
	if f.structuredErr != nil {
		return f.structuredErr
	}
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

var errBoom = errors.New("fakeProvider: boom")
