// Package domain holds the core entities of the task-orchestration assistant:
// chat sessions, messages, tasks, task logs, task plans, evaluations, and
// feedback, along with the invariants that govern their lifecycles.
package domain

import (
	"errors"
	"fmt"
)

// Domain-state errors. These indicate a bug in orchestration — a caller
// attempted an operation the entity's current state does not allow — and are
// meant to propagate, not to be silently swallowed.
var (
	ErrEmptyMessageContent    = errors.New("message content is empty")
	ErrInvalidUserMessageRole = errors.New("add_user_message called with a non-user message")
	ErrInvalidAssistantRole   = errors.New("add_assistant_message called with a non-assistant message")
	ErrEmptyTaskDescription   = errors.New("task description is empty")
	ErrMissingTaskLog         = errors.New("task log is required")
	ErrEmptyTaskList          = errors.New("task plan must contain at least one task")
	ErrNoneTaskPlan           = errors.New("task plan is nil")
	ErrAllTasksFailed         = errors.New("all tasks in the plan failed or are still in progress")
	ErrUserMessageNotFound    = errors.New("session has no user message")
	ErrAssistantMessageNotFound = errors.New("session has no assistant message")
	ErrEmptySearchQuery       = errors.New("search query is empty")
	ErrInvalidSearchResults   = errors.New("search results must not be nil")
	ErrTaskResultNotFound     = errors.New("task has no result")
	ErrEmptyResponse          = errors.New("llm returned an empty response")
	ErrUnknownAgent           = errors.New("unknown agent name")
)

// TaskNotInProgressError reports that an operation requiring TaskStatusInProgress
// was attempted while the task was in a different state.
type TaskNotInProgressError struct {
	Status TaskStatus
}

func (e *TaskNotInProgressError) Error() string {
	return fmt.Sprintf("task is not in progress (status=%s)", e.Status)
}

// TaskNotCompletedError reports that update_result was attempted on a task
// that is not COMPLETED.
type TaskNotCompletedError struct {
	Status TaskStatus
}

func (e *TaskNotCompletedError) Error() string {
	return fmt.Sprintf("task is not completed (status=%s)", e.Status)
}

// TaskLogKindMismatchError reports an attempt to record an attempt of the
// wrong kind against a task's log (e.g. a web-search attempt on a
// general-answer task).
type TaskLogKindMismatchError struct {
	Want AgentName
	Got  AgentName
}

func (e *TaskLogKindMismatchError) Error() string {
	return fmt.Sprintf("task log kind mismatch: task is %s, attempt is for %s", e.Want, e.Got)
}
