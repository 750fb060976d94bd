package llm

import "testing"

type exampleOutput struct {
	Name  string `json:"name" jsonschema:"required"`
	Count int    `json:"count" jsonschema:"required"`
}

func TestNewSchemaCompiles(t *testing.T) {
	schema, err := NewSchema("Example", &exampleOutput{})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	if len(schema.JSON()) == 0 {
		t.Fatal("expected non-empty schema document")
	}
}

func TestSchemaValidateAcceptsConformingData(t *testing.T) {
	schema, err := NewSchema("Example", &exampleOutput{})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	if err := schema.Validate([]byte(`{"name":"a","count":1}`)); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSchemaValidateRejectsMissingField(t *testing.T) {
	schema, err := NewSchema("Example", &exampleOutput{})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	if err := schema.Validate([]byte(`{"name":"a"}`)); err == nil {
		t.Fatal("expected validation error for missing required field")
	}
}

func TestSchemaValidateRejectsMalformedJSON(t *testing.T) {
	schema, err := NewSchema("Example", &exampleOutput{})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	if err := schema.Validate([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestSchemaDecodePopulatesOut(t *testing.T) {
	schema, err := NewSchema("Example", &exampleOutput{})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	var out exampleOutput
	if err := schema.Decode([]byte(`{"name":"a","count":3}`), &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Name != "a" || out.Count != 3 {
		t.Fatalf("decoded = %+v", out)
	}
}

func TestPackageSchemaSingletonsCompile(t *testing.T) {
	for _, s := range []*Schema{TaskPlanSchema, SearchQueriesSchema, TaskEvaluationSchema} {
		if len(s.JSON()) == 0 {
			t.Fatalf("schema %q has empty document", s.Name)
		}
	}
}

func TestTaskPlanSchemaRejectsEmptyTasks(t *testing.T) {
	if err := TaskPlanSchema.Validate([]byte(`{"tasks":[],"reason":"none"}`)); err == nil {
		t.Fatal("expected validation error for empty tasks list")
	}
}
