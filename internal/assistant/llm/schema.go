package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema is a declared structured-output contract: a JSON Schema document
// derived by reflection from a typed Go record, plus a compiled validator
// used to post-validate whatever the provider returns before it is
// unmarshalled into that record.
type Schema struct {
	Name     string
	document *invopop.Schema
	raw      json.RawMessage
	compiled *jsonschema.Schema
}

// NewSchema reflects the JSON Schema for example (typically a pointer to a
// zero-value struct) and compiles it for validation. example's type is the
// schema's shape; its value is never read.
func NewSchema(name string, example any) (*Schema, error) {
	reflector := &invopop.Reflector{
		ExpandedStruct:            true,
		DoNotReference:            true,
		RequiredFromJSONSchemaTags: false,
	}
	doc := reflector.Reflect(example)
	doc.Title = name

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("llm: marshal schema %q: %w", name, err)
	}

	compiler := jsonschema.NewCompiler()
	resourceURL := "mem://" + name + ".json"
	if err := compiler.AddResource(resourceURL, strings.NewReader(string(raw))); err != nil {
		return nil, fmt.Errorf("llm: add schema resource %q: %w", name, err)
	}
	compiled, err := compiler.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("llm: compile schema %q: %w", name, err)
	}

	return &Schema{Name: name, document: doc, raw: raw, compiled: compiled}, nil
}

// JSON returns the schema's JSON Schema document, suitable for passing to a
// provider's constrained-decoding / tool-input-schema parameter.
func (s *Schema) JSON() json.RawMessage {
	return s.raw
}

// Validate decodes data as JSON and checks it against the schema, returning
// a *SchemaError on mismatch. It does not unmarshal into a Go value; callers
// still need json.Unmarshal(data, out) once validation passes.
func (s *Schema) Validate(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return &SchemaError{SchemaName: s.Name, Cause: err}
	}
	if err := s.compiled.Validate(v); err != nil {
		return &SchemaError{SchemaName: s.Name, Cause: err}
	}
	return nil
}

// Decode validates data against the schema and, on success, unmarshals it
// into out.
func (s *Schema) Decode(data []byte, out any) error {
	if err := s.Validate(data); err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
