package model

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentReceived PaymentStatus = "received"
)

type Payment struct {
	ID            int64         `json:"id"`
	InvoiceNumber string        `json:"invoiceNumber"`
	ProjectID     int64         `json:"projectId"`
	Amount        Money         `json:"amount"`
	PaymentMethod *string       `json:"paymentMethod"`
	Status        PaymentStatus `json:"status"`
	DueDate       *time.Time    `json:"dueDate"`
	ReceivedAt    *time.Time    `json:"receivedAt"`
	Notes         *string       `json:"notes"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	Project *Project `json:"project,omitempty"`
}

type PaymentInput struct {
	InvoiceNumber string        `json:"invoiceNumber" binding:"required,min=1"`
	ProjectID     int64         `json:"projectId" binding:"required,gt=0"`
	Amount        *Money        `json:"amount" binding:"required"`
	PaymentMethod *string       `json:"paymentMethod"`
	Status        PaymentStatus `json:"status" binding:"omitempty,oneof=pending received"`
	DueDate       *time.Time    `json:"dueDate"`
	Notes         *string       `json:"notes"`
}

func (in *PaymentInput) Normalize() {
	if in.Status == "" {
		in.Status = PaymentPending
	}
}

// Check covers the rules struct tags cannot express on a decimal.
func (in PaymentInput) Check() []FieldProblem {
	if in.Amount != nil && in.Amount.IsNegative() {
		return []FieldProblem{amountTooSmall}
	}
	return nil
}

type PaymentPatch struct {
	InvoiceNumber Nullable[string]        `json:"invoiceNumber" binding:"omitempty,min=1"`
	ProjectID     Nullable[int64]         `json:"projectId" binding:"omitempty,gt=0"`
	Amount        Nullable[Money]         `json:"amount"`
	PaymentMethod Nullable[string]        `json:"paymentMethod"`
	Status        Nullable[PaymentStatus] `json:"status" binding:"omitempty,oneof=pending received"`
	DueDate       Nullable[time.Time]     `json:"dueDate"`
	Notes         Nullable[string]        `json:"notes"`
}

func (p PaymentPatch) Check() []FieldProblem {
	var problems []FieldProblem
	problems = notNull(problems, "invoiceNumber", "string", p.InvoiceNumber)
	problems = notNull(problems, "projectId", "number", p.ProjectID)
	problems = notNull(problems, "amount", "string", p.Amount)
	problems = notNull(problems, "status", "string", p.Status)
	if amount, ok := p.Amount.Get(); ok && amount.IsNegative() {
		problems = append(problems, amountTooSmall)
	}
	return problems
}

// Apply writes the patch onto pm and keeps ReceivedAt in lockstep with Status.
func (p PaymentPatch) Apply(pm *Payment, now time.Time) {
	if v, ok := p.InvoiceNumber.Get(); ok {
		pm.InvoiceNumber = v
	}
	if v, ok := p.ProjectID.Get(); ok {
		pm.ProjectID = v
	}
	if v, ok := p.Amount.Get(); ok {
		pm.Amount = v
	}
	p.PaymentMethod.Apply(&pm.PaymentMethod)
	p.DueDate.Apply(&pm.DueDate)
	p.Notes.Apply(&pm.Notes)

	if status, ok := p.Status.Get(); ok {
		pm.ReceivedAt = CompletionStamp(
			pm.Status == PaymentReceived, pm.ReceivedAt,
			status == PaymentReceived, now,
		)
		pm.Status = status
	}
}

type PaymentFilter struct {
	Status    PaymentStatus
	ProjectID int64
}

func (f PaymentFilter) HasStatus() bool {
	return f.Status != "" && f.Status != "all"
}

// FieldProblem is a validation failure found outside the struct tags.
type FieldProblem struct {
	Field   string
	Code    string
	Message string
}

var amountTooSmall = FieldProblem{Field: "amount", Code: "too_small", Message: "Amount must be at least 0"}
