package model

import "time"

type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Company   *string   `json:"company"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ClientInput is the create payload.
type ClientInput struct {
	Name    string  `json:"name" binding:"required,min=2"`
	Email   string  `json:"email" binding:"required,email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Notes   *string `json:"notes"`
}

// ClientPatch is the partial update payload; unset fields are left alone.
type ClientPatch struct {
	Name    Nullable[string] `json:"name" binding:"omitempty,min=2"`
	Email   Nullable[string] `json:"email" binding:"omitempty,email"`
	Phone   Nullable[string] `json:"phone"`
	Company Nullable[string] `json:"company"`
	Notes   Nullable[string] `json:"notes"`
}

// Check rejects null on the columns that cannot hold it.
func (p ClientPatch) Check() []FieldProblem {
	var problems []FieldProblem
	problems = notNull(problems, "name", "string", p.Name)
	problems = notNull(problems, "email", "string", p.Email)
	return problems
}

// Apply writes the patch onto c. Timestamps are the caller's job.
func (p ClientPatch) Apply(c *Client) {
	if v, ok := p.Name.Get(); ok {
		c.Name = v
	}
	if v, ok := p.Email.Get(); ok {
		c.Email = v
	}
	p.Phone.Apply(&c.Phone)
	p.Company.Apply(&c.Company)
	p.Notes.Apply(&c.Notes)
}
