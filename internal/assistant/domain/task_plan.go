package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TaskPlan is the set of Tasks produced by the planner for one user
// message. It exclusively owns its Tasks.
type TaskPlan struct {
	ID              string
	UserMessageID   string
	Tasks           []*Task
}

// NewTaskPlan creates a TaskPlan, rejecting an empty task list.
func NewTaskPlan(userMessageID string, tasks []*Task) (*TaskPlan, error) {
	if len(tasks) == 0 {
		return nil, ErrEmptyTaskList
	}
	return &TaskPlan{
		ID:            uuid.NewString(),
		UserMessageID: userMessageID,
		Tasks:         tasks,
	}, nil
}

// ReconstructTaskPlan rebuilds a TaskPlan from persisted fields.
func ReconstructTaskPlan(id, userMessageID string, tasks []*Task) (*TaskPlan, error) {
	if len(tasks) == 0 {
		return nil, ErrEmptyTaskList
	}
	return &TaskPlan{ID: id, UserMessageID: userMessageID, Tasks: tasks}, nil
}

// FormatTaskResults renders the plan's task results for final synthesis,
// numbering tasks by their positional index for stable display. It fails
// with ErrAllTasksFailed if every task is non-COMPLETED; otherwise
// non-COMPLETED tasks are omitted and a "completed/total" summary is
// appended.
func (p *TaskPlan) FormatTaskResults() (string, error) {
	var completed int
	var b strings.Builder
	for i, t := range p.Tasks {
		if t.Status != TaskStatusCompleted {
			continue
		}
		completed++
		fmt.Fprintf(&b, "[%d] %s\n%s\n\n", i, t.Description, t.Result)
	}
	if completed == 0 {
		return "", ErrAllTasksFailed
	}
	fmt.Fprintf(&b, "(%d/%d tasks completed)", completed, len(p.Tasks))
	return b.String(), nil
}
