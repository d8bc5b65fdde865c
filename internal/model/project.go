package model

import "time"

type ProjectStatus string

const (
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectOnHold     ProjectStatus = "on_hold"
)

type Project struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	ClientID    int64         `json:"clientId"`
	Status      ProjectStatus `json:"status"`
	Deadline    *time.Time    `json:"deadline"`
	Amount      *Money        `json:"amount"`
	Notes       *string       `json:"notes"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	Client *Client `json:"client,omitempty"`
}

type ProjectInput struct {
	Title       string        `json:"title" binding:"required,min=2"`
	Description *string       `json:"description"`
	ClientID    int64         `json:"clientId" binding:"required,gt=0"`
	Status      ProjectStatus `json:"status" binding:"omitempty,oneof=in_progress completed on_hold"`
	Deadline    *time.Time    `json:"deadline"`
	Amount      *Money        `json:"amount"`
	Notes       *string       `json:"notes"`
}

// Normalize fills the column defaults.
func (in *ProjectInput) Normalize() {
	if in.Status == "" {
		in.Status = ProjectInProgress
	}
}

type ProjectPatch struct {
	Title       Nullable[string]        `json:"title" binding:"omitempty,min=2"`
	Description Nullable[string]        `json:"description"`
	ClientID    Nullable[int64]         `json:"clientId" binding:"omitempty,gt=0"`
	Status      Nullable[ProjectStatus] `json:"status" binding:"omitempty,oneof=in_progress completed on_hold"`
	Deadline    Nullable[time.Time]     `json:"deadline"`
	Amount      Nullable[Money]         `json:"amount"`
	Notes       Nullable[string]        `json:"notes"`
}

func (p ProjectPatch) Check() []FieldProblem {
	var problems []FieldProblem
	problems = notNull(problems, "title", "string", p.Title)
	problems = notNull(problems, "clientId", "number", p.ClientID)
	problems = notNull(problems, "status", "string", p.Status)
	return problems
}

func (p ProjectPatch) Apply(pr *Project) {
	if v, ok := p.Title.Get(); ok {
		pr.Title = v
	}
	if v, ok := p.ClientID.Get(); ok {
		pr.ClientID = v
	}
	if v, ok := p.Status.Get(); ok {
		pr.Status = v
	}
	p.Description.Apply(&pr.Description)
	p.Deadline.Apply(&pr.Deadline)
	p.Amount.Apply(&pr.Amount)
	p.Notes.Apply(&pr.Notes)
}

// ProjectFilter narrows List. Zero values mean "no filter".
type ProjectFilter struct {
	Status   ProjectStatus
	ClientID int64
}

// HasStatus reports whether the status filter is active; "all" disables it.
func (f ProjectFilter) HasStatus() bool {
	return f.Status != "" && f.Status != "all"
}
