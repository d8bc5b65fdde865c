package model

import (
	"encoding/json"
	"time"
)

const (
	ProjectsDueSoonDays = 7
	PaymentsDueSoonDays = 30
)

// DashboardStats is the aggregate behind GET /api/dashboard/stats.
type DashboardStats struct {
	ActiveProjectsCount  int `json:"activeProjectsCount"`
	TasksToday           int `json:"tasksToday"`
	CompletedTasksToday  int `json:"completedTasksToday"`
	ProjectsDueSoonCount int `json:"projectsDueSoonCount"`
	// UrgentProjectsCount counts open high-priority tasks due within a week,
	// not distinct projects. The dashboard has always shown this number.
	UrgentProjectsCount int   `json:"urgentProjectsCount"`
	PendingPaymentsSum  Money `json:"pendingPaymentsSum"`
	PaymentsDueSoonSum  Money `json:"paymentsDueSoonSum"`
	InvoicesToSendCount int   `json:"invoicesToSendCount"`
}

// MarshalJSON renders the sums as JSON numbers (35.75), the rest as usual.
func (s DashboardStats) MarshalJSON() ([]byte, error) {
	type alias DashboardStats
	return json.Marshal(struct {
		alias
		PendingPaymentsSum json.Number `json:"pendingPaymentsSum"`
		PaymentsDueSoonSum json.Number `json:"paymentsDueSoonSum"`
	}{
		alias:              alias(s),
		PendingPaymentsSum: json.Number(s.PendingPaymentsSum.String()),
		PaymentsDueSoonSum: json.Number(s.PaymentsDueSoonSum.String()),
	})
}

// PendingAmount is one pending payment as read for the dashboard. Amount is
// kept as the raw text the store returned.
type PendingAmount struct {
	Amount  string
	DueDate *time.Time
}

// SumPendingAmounts folds pending payments into the total and the due-soon
// total. Each amount is parsed as a decimal; unparsable amounts count as zero.
func SumPendingAmounts(rows []PendingAmount, dueSoon Window) (total, soon Money) {
	for _, row := range rows {
		amount := MoneyOrZero(row.Amount)
		total = total.Add(amount)
		if dueSoon.Contains(row.DueDate) {
			soon = soon.Add(amount)
		}
	}
	return total, soon
}

// CountProjectsWithoutPayments is the invoices-to-send number: project ids
// that no payment references.
func CountProjectsWithoutPayments(projectIDs, paymentProjectIDs []int64) int {
	invoiced := make(map[int64]struct{}, len(paymentProjectIDs))
	for _, id := range paymentProjectIDs {
		invoiced[id] = struct{}{}
	}
	count := 0
	for _, id := range projectIDs {
		if _, ok := invoiced[id]; !ok {
			count++
		}
	}
	return count
}
