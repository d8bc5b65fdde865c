package model

import "time"

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	ProjectID   int64        `json:"projectId"`
	Priority    TaskPriority `json:"priority"`
	Deadline    *time.Time   `json:"deadline"`
	IsCompleted bool         `json:"isCompleted"`
	CompletedAt *time.Time   `json:"completedAt"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`

	Project *Project `json:"project,omitempty"`
}

type TaskInput struct {
	Title       string       `json:"title" binding:"required,min=2"`
	Description *string      `json:"description"`
	ProjectID   int64        `json:"projectId" binding:"required,gt=0"`
	Priority    TaskPriority `json:"priority" binding:"omitempty,oneof=high medium low"`
	Deadline    *time.Time   `json:"deadline"`
	IsCompleted bool         `json:"isCompleted"`
}

func (in *TaskInput) Normalize() {
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
}

type TaskPatch struct {
	Title       Nullable[string]       `json:"title" binding:"omitempty,min=2"`
	Description Nullable[string]       `json:"description"`
	ProjectID   Nullable[int64]        `json:"projectId" binding:"omitempty,gt=0"`
	Priority    Nullable[TaskPriority] `json:"priority" binding:"omitempty,oneof=high medium low"`
	Deadline    Nullable[time.Time]    `json:"deadline"`
	IsCompleted Nullable[bool]         `json:"isCompleted"`
}

func (p TaskPatch) Check() []FieldProblem {
	var problems []FieldProblem
	problems = notNull(problems, "title", "string", p.Title)
	problems = notNull(problems, "projectId", "number", p.ProjectID)
	problems = notNull(problems, "priority", "string", p.Priority)
	problems = notNull(problems, "isCompleted", "boolean", p.IsCompleted)
	return problems
}

// Apply writes the patch onto t and keeps CompletedAt in lockstep with
// IsCompleted: stamped on false->true, cleared on true->false, untouched otherwise.
func (p TaskPatch) Apply(t *Task, now time.Time) {
	if v, ok := p.Title.Get(); ok {
		t.Title = v
	}
	if v, ok := p.ProjectID.Get(); ok {
		t.ProjectID = v
	}
	if v, ok := p.Priority.Get(); ok {
		t.Priority = v
	}
	p.Description.Apply(&t.Description)
	p.Deadline.Apply(&t.Deadline)

	if done, ok := p.IsCompleted.Get(); ok {
		t.CompletedAt = CompletionStamp(t.IsCompleted, t.CompletedAt, done, now)
		t.IsCompleted = done
	}
}

// CompletionStamp derives the timestamp that accompanies a boolean state.
// It is shared by tasks (isCompleted/completedAt) and payments (received/receivedAt).
func CompletionStamp(was bool, stamp *time.Time, now bool, at time.Time) *time.Time {
	switch {
	case !now:
		return nil
	case was && stamp != nil:
		return stamp
	default:
		ts := at
		return &ts
	}
}

type TaskFilter struct {
	Completed *bool
	Priority  TaskPriority
	ProjectID int64
	DueToday  bool
}

func (f TaskFilter) HasPriority() bool {
	return f.Priority != "" && f.Priority != "all"
}
