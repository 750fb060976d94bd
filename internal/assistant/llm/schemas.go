package llm

// TaskPlanTask is one entry in the planner's structured-output schema.
type TaskPlanTask struct {
	Description string `json:"task_description" jsonschema:"required,description=What this task should accomplish"`
	NextAgent   string `json:"next_agent" jsonschema:"required,enum=general_answer,enum=web_search"`
}

// TaskPlanOutput is the TaskPlanningService structured-output schema:
// {tasks: [{task_description, next_agent}] (length >= 1), reason}.
type TaskPlanOutput struct {
	Tasks  []TaskPlanTask `json:"tasks" jsonschema:"required,minItems=1"`
	Reason string         `json:"reason" jsonschema:"required"`
}

// SearchQueriesOutput is the SearchQueryGenerationService structured-output
// schema: {queries: list<string> (length <= 3), reason}.
type SearchQueriesOutput struct {
	Queries []string `json:"queries" jsonschema:"required,maxItems=3"`
	Reason  string   `json:"reason" jsonschema:"required"`
}

// TaskEvaluationOutput is the TaskResultEvaluationService structured-output
// schema: {is_satisfactory, need, reason, feedback}.
type TaskEvaluationOutput struct {
	IsSatisfactory bool    `json:"is_satisfactory" jsonschema:"required"`
	Need           *string `json:"need" jsonschema:"nullable,enum=search,enum=generate"`
	Reason         string  `json:"reason" jsonschema:"required"`
	Feedback       *string `json:"feedback,omitempty" jsonschema:"nullable"`
}

// Package-level schema singletons, shared by every service instance. A
// malformed schema is a build-time programming error, so construction
// panics rather than returning an error callers would have to thread
// through every service constructor.
var (
	TaskPlanSchema       = mustSchema("TaskPlan", &TaskPlanOutput{})
	SearchQueriesSchema  = mustSchema("SearchQueries", &SearchQueriesOutput{})
	TaskEvaluationSchema = mustSchema("TaskEvaluation", &TaskEvaluationOutput{})
)

func mustSchema(name string, example any) *Schema {
	s, err := NewSchema(name, example)
	if err != nil {
		panic(err)
	}
	return s
}
