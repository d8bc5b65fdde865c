package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"freelancedesk/internal/model"
)

type StatsRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
	now    func() time.Time
}

func NewStatsRepository(db *pgxpool.Pool, logger *zap.Logger) *StatsRepository {
	return &StatsRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// DashboardStats reads every figure inside one read-only snapshot so the
// counts agree with each other.
func (r *StatsRepository) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	defer observe("stats", "dashboard", time.Now())

	now := r.now()
	today := model.TodayWindow(now)
	week := model.DueSoonWindow(now, model.ProjectsDueSoonDays)
	month := model.DueSoonWindow(now, model.PaymentsDueSoonDays)

	var stats model.DashboardStats
	err := pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		query := `
            SELECT
                (SELECT COUNT(*) FROM projects WHERE status = 'in_progress'),
                (SELECT COUNT(*) FROM tasks WHERE deadline >= $1 AND deadline < $2),
                (SELECT COUNT(*) FROM tasks WHERE deadline >= $1 AND deadline < $2 AND is_completed),
                (SELECT COUNT(*) FROM projects WHERE status = 'in_progress' AND deadline >= $1 AND deadline < $3),
                (SELECT COUNT(*) FROM tasks WHERE priority = 'high' AND NOT is_completed AND deadline >= $1 AND deadline < $3),
                (SELECT COUNT(*) FROM projects p WHERE NOT EXISTS (SELECT 1 FROM payments pm WHERE pm.project_id = p.id))`
		err := tx.QueryRow(ctx, query, today.From, today.To, week.To).Scan(
			&stats.ActiveProjectsCount,
			&stats.TasksToday,
			&stats.CompletedTasksToday,
			&stats.ProjectsDueSoonCount,
			&stats.UrgentProjectsCount,
			&stats.InvoicesToSendCount,
		)
		if err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `SELECT amount::text, due_date FROM payments WHERE status = 'pending'`)
		if err != nil {
			return err
		}
		defer rows.Close()

		var pending []model.PendingAmount
		for rows.Next() {
			var pa model.PendingAmount
			if err := rows.Scan(&pa.Amount, &pa.DueDate); err != nil {
				return err
			}
			pending = append(pending, pa)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		stats.PendingPaymentsSum, stats.PaymentsDueSoonSum = model.SumPendingAmounts(pending, month)
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to compute dashboard stats", zap.Error(err))
		return nil, err
	}

	r.logger.Debug("Dashboard stats computed",
		zap.Int("active_projects", stats.ActiveProjectsCount),
		zap.String("pending_sum", stats.PendingPaymentsSum.String()),
	)
	return &stats, nil
}
