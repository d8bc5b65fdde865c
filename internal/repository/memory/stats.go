package memory

import (
	"context"

	"freelancedesk/internal/model"
)

type StatsRepository struct {
	db *DB
}

func (r *StatsRepository) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	now := r.db.now()
	today := model.TodayWindow(now)
	week := model.DueSoonWindow(now, model.ProjectsDueSoonDays)
	month := model.DueSoonWindow(now, model.PaymentsDueSoonDays)

	var stats model.DashboardStats
	projectIDs := make([]int64, 0, len(r.db.projects))
	for _, p := range r.db.projects {
		projectIDs = append(projectIDs, p.ID)
		if p.Status != model.ProjectInProgress {
			continue
		}
		stats.ActiveProjectsCount++
		if week.Contains(p.Deadline) {
			stats.ProjectsDueSoonCount++
		}
	}

	for _, t := range r.db.tasks {
		if today.Contains(t.Deadline) {
			stats.TasksToday++
			if t.IsCompleted {
				stats.CompletedTasksToday++
			}
		}
		if t.Priority == model.PriorityHigh && !t.IsCompleted && week.Contains(t.Deadline) {
			stats.UrgentProjectsCount++
		}
	}

	var pending []model.PendingAmount
	paymentProjectIDs := make([]int64, 0, len(r.db.payments))
	for _, pm := range r.db.payments {
		paymentProjectIDs = append(paymentProjectIDs, pm.ProjectID)
		if pm.Status == model.PaymentPending {
			pending = append(pending, model.PendingAmount{Amount: pm.Amount.String(), DueDate: pm.DueDate})
		}
	}
	stats.PendingPaymentsSum, stats.PaymentsDueSoonSum = model.SumPendingAmounts(pending, month)
	stats.InvoicesToSendCount = model.CountProjectsWithoutPayments(projectIDs, paymentProjectIDs)
	return &stats, nil
}
