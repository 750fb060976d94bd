package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a Task.
type TaskStatus string

const (
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task is one unit of work dispatched to exactly one agent kind. It owns
// its TaskLog exclusively.
type Task struct {
	ID          string
	Description string
	AgentName   AgentName
	Status      TaskStatus
	Result      string
	Log         *TaskLog
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// NewWebSearchTask creates a Task dispatched to the web-search agent.
func NewWebSearchTask(description string) (*Task, error) {
	return newTask(description, AgentWebSearch, NewWebSearchTaskLog())
}

// NewGeneralAnswerTask creates a Task dispatched to the general-answer agent.
func NewGeneralAnswerTask(description string) (*Task, error) {
	return newTask(description, AgentGeneralAnswer, NewGeneralAnswerTaskLog())
}

func newTask(description string, agent AgentName, log *TaskLog) (*Task, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyTaskDescription
	}
	return &Task{
		ID:          uuid.NewString(),
		Description: description,
		AgentName:   agent,
		Status:      TaskStatusInProgress,
		Log:         log,
		CreatedAt:   time.Now(),
	}, nil
}

// ReconstructTask rebuilds a Task from persisted fields.
func ReconstructTask(id, description string, agent AgentName, status TaskStatus, result string, log *TaskLog, createdAt time.Time, completedAt *time.Time) (*Task, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyTaskDescription
	}
	if log == nil {
		return nil, ErrMissingTaskLog
	}
	if log.Kind != agent {
		return nil, &TaskLogKindMismatchError{Want: agent, Got: log.Kind}
	}
	return &Task{
		ID:          id,
		Description: description,
		AgentName:   agent,
		Status:      status,
		Result:      result,
		Log:         log,
		CreatedAt:   createdAt,
		CompletedAt: completedAt,
	}, nil
}

// Complete transitions the task from IN_PROGRESS to COMPLETED, recording
// result. An empty (after trim) result instead fails the task with an
// "empty result" marker, per spec: a weak result is not success.
func (t *Task) Complete(result string) error {
	if t.Status != TaskStatusInProgress {
		return &TaskNotInProgressError{Status: t.Status}
	}
	if strings.TrimSpace(result) == "" {
		t.Fail("task produced an empty result")
		return nil
	}
	now := time.Now()
	t.Status = TaskStatusCompleted
	t.Result = result
	t.CompletedAt = &now
	return nil
}

// UpdateResult replaces the result of an already-COMPLETED task (used by a
// retry that keeps the task completed but regenerates its content). An
// empty result fails the task instead.
func (t *Task) UpdateResult(result string) error {
	if t.Status != TaskStatusCompleted {
		return &TaskNotCompletedError{Status: t.Status}
	}
	if strings.TrimSpace(result) == "" {
		t.Fail("task produced an empty result")
		return nil
	}
	now := time.Now()
	t.Result = result
	t.CompletedAt = &now
	return nil
}

// Fail transitions the task to FAILED from any status, recording msg as
// "Error: <msg>". Unlike Complete/UpdateResult this is legal from any state.
func (t *Task) Fail(msg string) {
	now := time.Now()
	t.Status = TaskStatusFailed
	t.Result = fmt.Sprintf("Error: %s", msg)
	t.CompletedAt = &now
}

// AddSearchAttempt records a web-search attempt in the task's log. It fails
// if the task is not a web-search task.
func (t *Task) AddSearchAttempt(query string, results []SearchResult) error {
	return t.Log.AddSearchAttempt(query, results)
}

// AddGenerationAttempt records a general-answer attempt in the task's log.
// It fails if the task is not a general-answer task.
func (t *Task) AddGenerationAttempt(response string) error {
	return t.Log.AddGenerationAttempt(response)
}
