package repository

import (
	"fmt"
	"strings"
	"time"

	"freelancedesk/internal/model"
	"freelancedesk/pkg/metrics"
)

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// sqlBuilder collects positional arguments together with the WHERE and SET
// fragments that reference them. A fresh builder is used for every call.
type sqlBuilder struct {
	args    []any
	where   []string
	assigns []string
}

// arg registers v and returns its placeholder.
func (b *sqlBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *sqlBuilder) and(clause string) {
	b.where = append(b.where, clause)
}

func (b *sqlBuilder) set(column string, v any) {
	b.assigns = append(b.assigns, column+" = "+b.arg(v))
}

func (b *sqlBuilder) setExpr(expr string) {
	b.assigns = append(b.assigns, expr)
}

func (b *sqlBuilder) whereSQL() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

func (b *sqlBuilder) setSQL() string {
	return strings.Join(b.assigns, ", ")
}

// observe records the duration of one repository call.
func observe(operation, table string, start time.Time) {
	metrics.RecordDBQueryDuration(operation, table, time.Since(start))
}

const clientColumns = `c.id, c.name, c.email, c.phone, c.company, c.notes, c.created_at, c.updated_at`

func clientDest(c *model.Client) []any {
	return []any{&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Notes, &c.CreatedAt, &c.UpdatedAt}
}

const projectColumns = `p.id, p.title, p.description, p.client_id, p.status::text, p.deadline, p.amount::text, p.notes, p.created_at, p.updated_at`

// projectRow holds a scanned project until the amount text is parsed.
type projectRow struct {
	p      model.Project
	status string
	amount *string
}

func (r *projectRow) dest() []any {
	return []any{&r.p.ID, &r.p.Title, &r.p.Description, &r.p.ClientID, &r.status,
		&r.p.Deadline, &r.amount, &r.p.Notes, &r.p.CreatedAt, &r.p.UpdatedAt}
}

func (r *projectRow) project() model.Project {
	p := r.p
	p.Status = model.ProjectStatus(r.status)
	if r.amount != nil {
		m := model.MoneyOrZero(*r.amount)
		p.Amount = &m
	}
	return p
}

const taskColumns = `t.id, t.title, t.description, t.project_id, t.priority::text, t.deadline, t.is_completed, t.completed_at, t.created_at, t.updated_at`

type taskRow struct {
	t        model.Task
	priority string
}

func (r *taskRow) dest() []any {
	return []any{&r.t.ID, &r.t.Title, &r.t.Description, &r.t.ProjectID, &r.priority,
		&r.t.Deadline, &r.t.IsCompleted, &r.t.CompletedAt, &r.t.CreatedAt, &r.t.UpdatedAt}
}

func (r *taskRow) task() model.Task {
	t := r.t
	t.Priority = model.TaskPriority(r.priority)
	return t
}

const paymentColumns = `pm.id, pm.invoice_number, pm.project_id, pm.amount::text, pm.payment_method, pm.status::text, pm.due_date, pm.received_at, pm.notes, pm.created_at, pm.updated_at`

type paymentRow struct {
	pm     model.Payment
	amount string
	status string
}

func (r *paymentRow) dest() []any {
	return []any{&r.pm.ID, &r.pm.InvoiceNumber, &r.pm.ProjectID, &r.amount, &r.pm.PaymentMethod,
		&r.status, &r.pm.DueDate, &r.pm.ReceivedAt, &r.pm.Notes, &r.pm.CreatedAt, &r.pm.UpdatedAt}
}

func (r *paymentRow) payment() model.Payment {
	pm := r.pm
	pm.Amount = model.MoneyOrZero(r.amount)
	pm.Status = model.PaymentStatus(r.status)
	return pm
}

// moneyText returns the string bound for a nullable numeric column.
func moneyText(m *model.Money) *string {
	if m == nil {
		return nil
	}
	s := m.String()
	return &s
}
